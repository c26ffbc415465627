package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-denoise/metrics"
)

func TestSummarize(t *testing.T) {
	records := []Record{
		{Image: "a.pgm", Filter: "Median", Parameters: "size=3,noise=0.010000", MSE: 2, PSNR: 30, SSIM: 0.9},
		{Image: "a.pgm", Filter: "Gaussian", Parameters: "size=3,noise=0.010000", MSE: 8, PSNR: 20, SSIM: 0.5},
		{Image: "b.pgm", Filter: "Median", Parameters: "size=3,noise=0.010000", MSE: 4, PSNR: 34, SSIM: 0.7},
		{Image: "c.pgm", Filter: "Median", Parameters: "size=3,noise=0.010000", MSE: metrics.Sentinel, PSNR: metrics.Sentinel, SSIM: metrics.Sentinel},
	}

	summaries := Summarize(records)
	require.Len(t, summaries, 2)

	median := summaries[0]
	assert.Equal(t, "Median", median.Filter)
	assert.Equal(t, "size=3,noise=0.010000", median.Parameters)
	assert.Equal(t, 2, median.Count)
	assert.Equal(t, 1, median.Skipped)
	assert.InDelta(t, 3.0, median.MeanMSE, 1e-12)
	assert.InDelta(t, 32.0, median.MeanPSNR, 1e-12)
	assert.InDelta(t, 2.8284271247, median.StdDevPSNR, 1e-9)
	assert.InDelta(t, 0.8, median.MeanSSIM, 1e-12)
	assert.InDelta(t, 0.1414213562, median.StdDevSSIM, 1e-9)

	gaussian := summaries[1]
	assert.Equal(t, "Gaussian", gaussian.Filter)
	assert.Equal(t, 1, gaussian.Count)
	assert.Equal(t, 20.0, gaussian.MeanPSNR)
	assert.Zero(t, gaussian.StdDevPSNR, "a single sample has no spread")
}

func TestSummarizeAllSkipped(t *testing.T) {
	summaries := Summarize([]Record{
		{Filter: "Median", Parameters: "size=3,noise=0.010000", MSE: metrics.Sentinel, PSNR: metrics.Sentinel, SSIM: metrics.Sentinel},
	})
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].Count)
	assert.Equal(t, 1, summaries[0].Skipped)
	assert.Zero(t, summaries[0].MeanMSE)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}
