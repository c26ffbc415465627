package benchmark

import (
	"github.com/montanaflynn/stats"

	"github.com/nvr-ai/go-denoise/metrics"
)

// FilterSummary aggregates the scores of one filter configuration across images.
type FilterSummary struct {
	Filter     string  `json:"filter"`
	Parameters string  `json:"parameters"`
	Count      int     `json:"count"`
	Skipped    int     `json:"skipped"`
	MeanMSE    float64 `json:"mean_mse"`
	MeanPSNR   float64 `json:"mean_psnr"`
	StdDevPSNR float64 `json:"stddev_psnr"`
	MeanSSIM   float64 `json:"mean_ssim"`
	StdDevSSIM float64 `json:"stddev_ssim"`
}

type summaryKey struct {
	filter, parameters string
}

// Summarize groups records by filter and parameters, in first-seen order.
// Rows carrying the metric sentinel are counted as skipped and left out of
// the aggregates.
func Summarize(records []Record) []FilterSummary {
	var order []summaryKey
	groups := make(map[summaryKey][]Record)
	for _, r := range records {
		key := summaryKey{filter: r.Filter, parameters: r.Parameters}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	out := make([]FilterSummary, 0, len(order))
	for _, key := range order {
		summary := FilterSummary{Filter: key.filter, Parameters: key.parameters}
		var mse, psnr, ssim stats.Float64Data
		for _, r := range groups[key] {
			if r.MSE == metrics.Sentinel || r.SSIM == metrics.Sentinel {
				summary.Skipped++
				continue
			}
			mse = append(mse, r.MSE)
			psnr = append(psnr, r.PSNR)
			ssim = append(ssim, r.SSIM)
		}
		summary.Count = len(mse)
		if summary.Count > 0 {
			summary.MeanMSE, _ = stats.Mean(mse)
			summary.MeanPSNR, _ = stats.Mean(psnr)
			summary.MeanSSIM, _ = stats.Mean(ssim)
		}
		if summary.Count > 1 {
			summary.StdDevPSNR, _ = stats.StandardDeviationSample(psnr)
			summary.StdDevSSIM, _ = stats.StandardDeviationSample(ssim)
		}
		out = append(out, summary)
	}
	return out
}
