package benchmark

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nvr-ai/go-denoise/images"
	"github.com/nvr-ai/go-denoise/images/kernels"
	"github.com/nvr-ai/go-denoise/logging"
	"github.com/nvr-ai/go-denoise/metrics"
	"github.com/nvr-ai/go-denoise/profiler"
	"github.com/nvr-ai/go-denoise/util"
)

// SyntheticName is the file written to the input directory when no inputs are found.
const SyntheticName = "test"

// NoiseSourceFunc returns the random source used for the image at index.
type NoiseSourceFunc func(index int) images.NoiseSource

// Suite manages one batch evaluation: it scans the input directory, sweeps
// every image through noise, filtering and scoring, and writes the results.
type Suite struct {
	config   Config
	logger   zerolog.Logger
	noise    NoiseSourceFunc
	store    *Store
	pool     *kernels.Pool
	profiler *profiler.Profiler

	mu          sync.Mutex
	results     []Record
	runID       uuid.UUID
	startedAt   time.Time
	imagesFound int
	synthesized bool
}

// Option customizes a Suite.
type Option func(*Suite)

// WithLogger sets the logger used for progress and skip reporting.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Suite) {
		s.logger = logging.Component(logger, "suite")
	}
}

// WithNoiseSource overrides how per-image random sources are created.
func WithNoiseSource(fn NoiseSourceFunc) Option {
	return func(s *Suite) {
		s.noise = fn
	}
}

// WithStore appends every run's records to a SQLite results store.
func WithStore(store *Store) Option {
	return func(s *Suite) {
		s.store = store
	}
}

// NewSuite creates a new evaluation suite.
//
// Arguments:
//   - config: The batch configuration; it is copied.
//   - opts: Optional logger, noise source and store.
//
// Returns:
//   - *Suite: The evaluation suite.
func NewSuite(config Config, opts ...Option) *Suite {
	s := &Suite{
		config:   config,
		logger:   zerolog.Nop(),
		pool:     &kernels.Pool{},
		profiler: profiler.New(),
		results:  make([]Record, 0),
	}
	s.noise = seededNoise(config.Seed)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// seededNoise derives one generator per image. A fixed seed gives every image
// its own reproducible stream regardless of worker scheduling.
func seededNoise(seed int64) NoiseSourceFunc {
	return func(index int) images.NoiseSource {
		if seed == 0 {
			return images.NewNoiseSource(0)
		}
		return images.NewNoiseSource(seed + int64(index))
	}
}

// Run executes the full batch and writes the results table.
//
// Unreadable inputs are logged and skipped. If the pass produces no records
// a synthetic image is written to the input directory and the pass is
// repeated exactly once.
func (s *Suite) Run(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	s.mu.Lock()
	s.results = make([]Record, 0)
	s.runID = uuid.New()
	s.startedAt = time.Now()
	s.synthesized = false
	s.mu.Unlock()
	s.profiler.Reset()

	if err := os.MkdirAll(s.config.InputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create input directory")
	}
	if err := os.MkdirAll(s.config.OutputDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	s.logger.Info().
		Str("input", s.config.InputDir).
		Str("output", s.config.OutputDir).
		Int("scenarios", s.config.Sweep.Len()).
		Msg("Image denoising analysis")

	if err := s.processAll(ctx); err != nil {
		return err
	}

	if len(s.Results()) == 0 {
		path := filepath.Join(s.config.InputDir, SyntheticName+s.config.Extension)
		s.logger.Info().Str("path", path).Msg("No input images produced results, creating test image")

		synthetic := images.NewSynthetic(s.config.SyntheticSize, s.config.SyntheticSize)
		if err := synthetic.Save(path); err != nil {
			return errors.Wrap(err, "failed to write synthetic test image")
		}

		s.mu.Lock()
		s.synthesized = true
		s.mu.Unlock()

		if err := s.processAll(ctx); err != nil {
			return err
		}
	}

	s.profiler.Log(s.logger)
	return s.SaveResults(ctx)
}

// processAll scans the input directory and evaluates every image. Each image's
// records are appended as one batch; the final table follows file order.
func (s *Suite) processAll(ctx context.Context) error {
	files, err := util.LoadDirectoryImageFiles(s.config.InputDir, s.config.Extension)
	if err != nil {
		return errors.Wrap(err, "failed to scan input directory")
	}

	batches := make([][]Record, len(files))

	workers := s.config.Workers
	if workers <= 1 {
		for i, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			batches[i] = s.processImage(i, file)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		var batchMu sync.Mutex
		for i, file := range files {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				records := s.processImage(i, file)
				batchMu.Lock()
				batches[i] = records
				batchMu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.imagesFound = len(files)
	for _, batch := range batches {
		s.results = append(s.results, batch...)
	}
	return nil
}

// processImage runs the sweep for a single image and returns its records in
// generation order. A load failure yields no records.
func (s *Suite) processImage(index int, file util.ImageFile) []Record {
	logger := s.logger.With().Str("image", file.Name).Logger()
	logger.Info().Msg("Processing")

	done := s.profiler.StartOperation("load")
	original, err := images.Load(file.Path)
	done()
	if err != nil {
		logger.Warn().Err(err).Msg("Skipping image")
		return nil
	}
	logger.Debug().Int("width", original.Width).Int("height", original.Height).Msg("Loaded")

	sweep := s.config.Sweep
	opts := kernels.Options{Pool: s.pool, Parallel: s.config.ParallelFilters}
	src := s.noise(index)
	records := make([]Record, 0, sweep.Len())

	for _, noise := range sweep.NoiseLevels {
		done := s.profiler.StartOperation("noise")
		noisy := original.Clone()
		images.AddNoise(noisy, noise, src)
		done()

		for _, size := range sweep.WindowSizes {
			var median *images.Image
			for _, kind := range sweep.Kinds {
				scenario := Scenario{NoiseLevel: noise, WindowSize: size, Kind: kind}
				filtered := noisy.Clone()
				done := s.profiler.StartOperation("filter." + kind.String())
				err := kernels.Apply(filtered, kind, size, opts)
				done()
				if err != nil {
					logger.Warn().Err(err).Str("filter", kind.String()).Msg("Skipping filter")
					continue
				}

				done = s.profiler.StartOperation("score")
				score := metrics.Compare(original, filtered)
				done()
				records = append(records, Record{
					Image:      file.Name,
					Filter:     kind.String(),
					Parameters: scenario.Parameters(),
					MSE:        score.MSE,
					PSNR:       score.PSNR,
					SSIM:       score.SSIM,
				})

				if kind == kernels.KindMedian {
					median = filtered
				}
			}

			if median != nil {
				out := filepath.Join(s.config.OutputDir, OutputName(file.Base, noise, size, s.config.Extension))
				done := s.profiler.StartOperation("save")
				err := median.Save(out)
				done()
				if err != nil {
					logger.Warn().Err(err).Str("path", out).Msg("Failed to save filtered image")
				}
			}
		}
	}

	return records
}

// OutputName builds "<base>_n<percent>_f<size><ext>", where percent is the
// noise level times 100 truncated to an integer.
func OutputName(base string, noise float64, size int, ext string) string {
	return fmt.Sprintf("%s_n%d_f%d%s", base, int(noise*100), size, ext)
}

// SaveResults writes the results table, plus the JSON report and store rows
// when those are configured.
func (s *Suite) SaveResults(ctx context.Context) error {
	results := s.Results()

	if err := writeResultsCSV(s.config.ResultsFile, results, s.config.RawResults); err != nil {
		return errors.Wrap(err, "failed to save results table")
	}
	s.logger.Info().
		Str("path", s.config.ResultsFile).
		Int("total", len(results)).
		Msg("Results saved")

	if s.config.ReportFile != "" {
		if err := s.writeReport(results); err != nil {
			return errors.Wrap(err, "failed to save report")
		}
		s.logger.Info().Str("path", s.config.ReportFile).Msg("Report saved")
	}

	if s.store != nil {
		if err := s.store.SaveRecords(ctx, s.RunID().String(), results); err != nil {
			return errors.Wrap(err, "failed to store results")
		}
		s.logger.Info().Str("path", s.store.Path()).Str("run_id", s.RunID().String()).Msg("Results stored")
	}

	return nil
}

// writeResultsCSV writes the header and one row per record. With raw set,
// fields are joined by bare commas and never quoted, so the Parameters field
// spills into two columns for a strict CSV reader.
func writeResultsCSV(filename string, results []Record, raw bool) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if raw {
		bw := bufio.NewWriter(file)
		bw.WriteString(strings.Join(ResultsHeader, ",") + "\n")
		for _, r := range results {
			bw.WriteString(strings.Join(resultRow(r), ",") + "\n")
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		return file.Close()
	}

	w := csv.NewWriter(file)
	if err := w.Write(ResultsHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write(resultRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

func resultRow(r Record) []string {
	return []string{
		r.Image,
		r.Filter,
		r.Parameters,
		formatScore(r.MSE),
		formatScore(r.PSNR),
		formatScore(r.SSIM),
	}
}

// formatScore prints up to six significant digits, so sentinels stay "-1"
// and saturated PSNR stays "100".
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func (s *Suite) writeReport(results []Record) error {
	s.mu.Lock()
	report := Report{
		RunID:       s.runID,
		StartedAt:   s.startedAt,
		Duration:    time.Since(s.startedAt),
		ImagesFound: s.imagesFound,
		Synthesized: s.synthesized,
		Records:     results,
		Summary:     Summarize(results),
		Timings:     s.profiler.Operations(),
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.config.ReportFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.config.ReportFile, data, 0o644)
}

// Results returns a copy of the records gathered by the last run.
func (s *Suite) Results() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]Record, len(s.results))
	copy(results, s.results)
	return results
}

// RunID identifies the last run in the report and the results store.
func (s *Suite) RunID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Synthesized reports whether the last run had to create the test image.
func (s *Suite) Synthesized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synthesized
}
