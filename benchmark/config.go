package benchmark

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-denoise/images"
)

// Config represents the batch evaluation configuration.
type Config struct {
	// InputDir is scanned non-recursively for rasters.
	InputDir string `json:"input_dir" yaml:"input_dir"`
	// OutputDir receives the median-filtered outputs; created if absent.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	// ResultsFile is the comma-delimited results table.
	ResultsFile string `json:"results_file" yaml:"results_file"`
	// RawResults writes the table without CSV quoting, byte for byte like
	// the legacy tool. The Parameters field then carries a bare comma.
	RawResults bool `json:"raw_results,omitempty" yaml:"raw_results,omitempty"`
	// ReportFile, when set, receives a JSON report with records and summary.
	ReportFile string `json:"report_file,omitempty" yaml:"report_file,omitempty"`
	// ResultsDB, when set, is a SQLite database the records are appended to.
	ResultsDB string `json:"results_db,omitempty" yaml:"results_db,omitempty"`
	// Extension selects input files and names output files.
	Extension string `json:"extension" yaml:"extension"`
	// SyntheticSize is the side length of the fallback test image.
	SyntheticSize int `json:"synthetic_size" yaml:"synthetic_size"`
	// Workers bounds how many images are processed at once.
	Workers int `json:"workers" yaml:"workers"`
	// Seed makes noise reproducible; 0 seeds from the clock.
	Seed int64 `json:"seed" yaml:"seed"`
	// ParallelFilters enables row parallelism inside each filter pass.
	ParallelFilters bool `json:"parallel_filters" yaml:"parallel_filters"`
	// Sweep is the parameter grid applied to every image.
	Sweep Sweep `json:"sweep" yaml:"sweep"`
	// Logging configures the CLI logger.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// MaxSyntheticSize is the largest fallback side length that still decodes
// within images.MaxSamples.
const MaxSyntheticSize = 16384

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
	JSON  bool   `json:"json"  yaml:"json"`
}

// DefaultConfig returns the configuration of a zero-setup run.
func DefaultConfig() *Config {
	return &Config{
		InputDir:      "images",
		OutputDir:     "processed",
		ResultsFile:   "denoising_results.csv",
		Extension:     images.Extension,
		SyntheticSize: 100,
		Workers:       1,
		Sweep:         DefaultSweep(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects configurations the suite cannot run.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input directory is required")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if c.ResultsFile == "" {
		return errors.New("results file is required")
	}
	if c.Extension == "" {
		return errors.New("extension is required")
	}
	if c.SyntheticSize <= 0 || c.SyntheticSize > MaxSyntheticSize {
		return errors.Errorf("synthetic size %d must be in [1, %d]", c.SyntheticSize, MaxSyntheticSize)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers %d must not be negative", c.Workers)
	}
	return errors.Wrap(c.Sweep.Validate(), "invalid sweep")
}

// SaveConfig saves the configuration to a YAML file.
func (c *Config) SaveConfig(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// LoadConfig loads a configuration file on top of DefaultConfig, so a file
// only needs the keys it changes. YAML and JSON files are both accepted.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Sweep.normalize(); err != nil {
		return nil, errors.Wrap(err, "invalid sweep")
	}

	return config, nil
}
