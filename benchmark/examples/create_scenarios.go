package main

import (
	"fmt"
	"log"

	"github.com/nvr-ai/go-denoise/benchmark"
	"github.com/nvr-ai/go-denoise/images/kernels"
)

// Example program to create and save sweep and configuration files
func main() {
	// Default grid: 3 noise levels x 3 window sizes x 2 filters
	full := benchmark.DefaultSweep()
	err := benchmark.SaveSweep(full, "default_sweep.yaml")
	if err != nil {
		log.Fatalf("Failed to save default sweep: %v", err)
	}
	fmt.Printf("Saved %d default scenarios\n", full.Len())

	// Quick median-only check
	quick := benchmark.NewSweepBuilder().
		WithNoiseLevels(0.05).
		WithWindowSizes(3).
		WithKinds(kernels.KindMedian).
		Build()
	err = benchmark.SaveSweep(quick, "quick_sweep.yaml")
	if err != nil {
		log.Fatalf("Failed to save quick sweep: %v", err)
	}
	fmt.Printf("Saved %d quick scenarios\n", quick.Len())

	// Heavy corruption with wide windows
	heavy := benchmark.NewSweepBuilder().
		WithNoiseLevels(0.2, 0.3, 0.4).
		WithWindowSizes(5, 7, 9, 11).
		WithKinds(kernels.Kinds()...).
		Build()
	err = benchmark.SaveSweep(heavy, "heavy_sweep.yaml")
	if err != nil {
		log.Fatalf("Failed to save heavy sweep: %v", err)
	}
	fmt.Printf("Saved %d heavy scenarios\n", heavy.Len())

	// Full configuration with a reproducible seed and a results database
	config := benchmark.DefaultConfig()
	config.Seed = 1
	config.Workers = 4
	config.ReportFile = "denoising_report.json"
	config.ResultsDB = "denoising_results.db"
	config.Sweep = heavy
	if err := config.SaveConfig("denoise.yaml"); err != nil {
		log.Fatalf("Failed to save config: %v", err)
	}
	fmt.Println("Saved denoise.yaml")

	fmt.Println("All configuration files created successfully!")
	fmt.Println("Run a sweep with: denoise --sweep quick_sweep.yaml, or a full config with: denoise --config denoise.yaml")
}
