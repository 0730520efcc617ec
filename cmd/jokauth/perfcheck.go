package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const defaultThreshold = 0.30

var trackedMetrics = map[string][]string{
	"BenchmarkDecode":                 {"ns/op", "allocs/op"},
	"BenchmarkDecodeInvalidSignature": {"ns/op"},
	"BenchmarkParse":                  {"ns/op", "allocs/op"},
}

type sampleSet map[string]map[string][]float64

func newPerfcheckCommand() *cobra.Command {
	var (
		baselinePath  string
		candidatePath string
		threshold     float64
	)

	cmd := &cobra.Command{
		Use:   "perfcheck",
		Short: "Compare two `go test -bench` outputs and fail on decode regressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if baselinePath == "" || candidatePath == "" {
				return fmt.Errorf("--baseline and --candidate are required")
			}
			if threshold < 0 {
				return fmt.Errorf("--threshold must be >= 0")
			}

			baseline, err := parseBenchmarkFile(baselinePath)
			if err != nil {
				return fmt.Errorf("parse baseline: %w", err)
			}
			candidate, err := parseBenchmarkFile(candidatePath)
			if err != nil {
				return fmt.Errorf("parse candidate: %w", err)
			}

			failures := comparePerf(cmd.OutOrStdout(), baseline, candidate, threshold)
			if len(failures) > 0 {
				return fmt.Errorf("performance regression threshold exceeded:\n  - %s", strings.Join(failures, "\n  - "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baselinePath, "baseline", "", "path to baseline benchmark output")
	cmd.Flags().StringVar(&candidatePath, "candidate", "", "path to candidate benchmark output")
	cmd.Flags().Float64Var(&threshold, "threshold", defaultThreshold, "maximum allowed regression ratio (0.30 = +30%)")
	return cmd
}

func comparePerf(w io.Writer, baseline, candidate sampleSet, threshold float64) []string {
	names := make([]string, 0, len(trackedMetrics))
	for name := range trackedMetrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var failures []string
	fmt.Fprintln(w, "perf regression check:")
	fmt.Fprintln(w, "benchmark metric baseline candidate delta")

	for _, benchmark := range names {
		for _, metric := range trackedMetrics[benchmark] {
			baseSamples := baseline[benchmark][metric]
			candidateSamples := candidate[benchmark][metric]
			if len(baseSamples) == 0 || len(candidateSamples) == 0 {
				failures = append(failures, fmt.Sprintf("missing samples for %s %s", benchmark, metric))
				continue
			}

			baseMedian := median(baseSamples)
			candidateMedian := median(candidateSamples)
			if baseMedian <= 0 {
				// 0 allocs/op stays a pass only while the candidate stays at 0.
				if candidateMedian > 0 {
					failures = append(failures, fmt.Sprintf("%s %s rose from 0 to %.3f", benchmark, metric, candidateMedian))
				}
				continue
			}

			delta := (candidateMedian - baseMedian) / baseMedian
			fmt.Fprintf(w, "%s %s %.3f %.3f %+0.2f%%\n", benchmark, metric, baseMedian, candidateMedian, delta*100)
			if delta > threshold {
				failures = append(failures, fmt.Sprintf("%s %s regressed by %+0.2f%% (limit %+0.2f%%)", benchmark, metric, delta*100, threshold*100))
			}
		}
	}
	return failures
}

func parseBenchmarkFile(path string) (sampleSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseBenchmarks(file)
}

func parseBenchmarks(r io.Reader) (sampleSet, error) {
	samples := sampleSet{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		name := normalizeBenchmarkName(fields[0])
		if _, ok := trackedMetrics[name]; !ok {
			continue
		}

		if _, ok := samples[name]; !ok {
			samples[name] = map[string][]float64{}
		}

		for i := 2; i+1 < len(fields); i += 2 {
			value, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				continue
			}
			unit := fields[i+1]
			samples[name][unit] = append(samples[name][unit], value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

func normalizeBenchmarkName(raw string) string {
	if idx := strings.LastIndexByte(raw, '-'); idx > 0 {
		if _, err := strconv.Atoi(raw[idx+1:]); err == nil {
			return raw[:idx]
		}
	}
	return raw
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	copied := make([]float64, len(values))
	copy(copied, values)
	sort.Float64s(copied)

	mid := len(copied) / 2
	if len(copied)%2 == 1 {
		return copied[mid]
	}
	return (copied[mid-1] + copied[mid]) / 2
}
