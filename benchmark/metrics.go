// Package benchmark - Batch evaluation of denoising filters over a directory of rasters.
package benchmark

import (
	"time"

	"github.com/google/uuid"

	"github.com/nvr-ai/go-denoise/profiler"
)

// ResultsHeader is the fixed header row of the results table.
var ResultsHeader = []string{"Image", "Filter", "Parameters", "MSE", "PSNR", "SSIM"}

// Record is one row of the results table: a single image scored after one
// noise level, window size and filter kind.
type Record struct {
	Image      string  `json:"image"`
	Filter     string  `json:"filter"`
	Parameters string  `json:"parameters"`
	MSE        float64 `json:"mse"`
	PSNR       float64 `json:"psnr"`
	SSIM       float64 `json:"ssim"`
}

// Report is the JSON document written next to the results table.
type Report struct {
	RunID       uuid.UUID       `json:"run_id"`
	StartedAt   time.Time       `json:"started_at"`
	Duration    time.Duration   `json:"duration"`
	ImagesFound int             `json:"images_found"`
	Synthesized bool            `json:"synthesized"`
	Records     []Record        `json:"records"`
	Summary     []FilterSummary `json:"summary"`
	// Timings holds per-stage durations: load, noise, filter.<Kind>, score, save.
	Timings []profiler.OperationStats `json:"timings"`
}
