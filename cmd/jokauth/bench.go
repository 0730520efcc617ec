package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jokio/jokauth"
	jokjwt "github.com/jokio/jokauth/jwt"
	"github.com/nats-io/nkeys"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const benchHeader = `{"alg":"ed25519-nkey","typ":"JWT"}`

func newBenchCommand(v *viper.Viper) *cobra.Command {
	var (
		concurrency int
		ops         int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure decode throughput with synthetic tokens",
		Long: `bench signs synthetic tokens with the configured account seed, or with an
ephemeral account when no seed is configured, and decodes them concurrently.

It runs a valid-token phase and an invalid-signature phase.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if concurrency <= 0 || ops <= 0 {
				return fmt.Errorf("concurrency and ops must be > 0")
			}

			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			kp, err := benchKeyPair(cfg.AccountSeed)
			if err != nil {
				return err
			}
			defer kp.Wipe()

			if cfg.AccountSeed == "" {
				seed, err := kp.Seed()
				if err != nil {
					return fmt.Errorf("ephemeral seed: %w", err)
				}
				cfg.AccountSeed = string(seed)
				cfg.AccountPublicKey = ""
			}

			verifier, err := cfg.buildVerifier(cmd.ErrOrStderr(), func(b *jokauth.Builder) {
				// The invalid phase would otherwise log every rejection.
				b.WithLogger(slog.New(slog.DiscardHandler)).
					WithMetricsEnabled(true).
					WithLatencyHistograms(true)
			})
			if err != nil {
				return err
			}
			defer verifier.Close()

			valid, err := benchToken(kp, cfg.MarkerField)
			if err != nil {
				return err
			}
			forged := forgeSignature(valid)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "jokauth bench: key=%s concurrency=%d ops=%d\n", verifier.PublicKey(), concurrency, ops)

			validStats := runPhase(cmd.Context(), verifier, valid, true, concurrency, ops)
			printStats(out, "valid", validStats)

			forgedStats := runPhase(cmd.Context(), verifier, forged, false, concurrency, ops)
			printStats(out, "invalid_signature", forgedStats)

			snap := verifier.MetricsSnapshot()
			fmt.Fprintf(out, "counters: success=%d invalid_signature=%d\n",
				snap.Counters[jokauth.MetricDecodeSuccess],
				snap.Counters[jokauth.MetricDecodeInvalidSignature],
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 16, "worker goroutines")
	cmd.Flags().IntVar(&ops, "ops", 100000, "decodes per phase")
	return cmd
}

func benchKeyPair(seed string) (nkeys.KeyPair, error) {
	if seed == "" {
		kp, err := nkeys.CreateAccount()
		if err != nil {
			return nil, fmt.Errorf("create ephemeral account: %w", err)
		}
		return kp, nil
	}
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("account seed: %w", err)
	}
	return kp, nil
}

func benchToken(kp nkeys.KeyPair, marker string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"sub": "bench",
		marker: map[string]any{
			"userId": "bench-user",
			"roles":  []string{"reader"},
		},
	})
	if err != nil {
		return "", err
	}

	// The signature covers the encoded payload segment only.
	encoded := jokjwt.EncodeSegment(payload)
	sig, err := kp.Sign([]byte(encoded))
	if err != nil {
		return "", fmt.Errorf("sign bench token: %w", err)
	}
	return jokjwt.EncodeSegment([]byte(benchHeader)) + "." + encoded + "." + jokjwt.EncodeSegment(sig), nil
}

// forgeSignature flips the first signature character so the segment still
// decodes to 64 bytes.
func forgeSignature(token string) string {
	b := []byte(token)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == '.' {
			if b[i+1] == 'A' {
				b[i+1] = 'B'
			} else {
				b[i+1] = 'A'
			}
			break
		}
	}
	return string(b)
}

func runPhase(ctx context.Context, v *jokauth.Verifier, token string, wantOK bool, concurrency, ops int) phaseStats {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]time.Duration, 0, ops/concurrency+1)
			for {
				if int(atomic.AddInt64(&cursor, 1)) > ops {
					break
				}
				t0 := time.Now()
				_, ok := v.Decode(ctx, token)
				local = append(local, time.Since(t0))
				if ok != wantOK {
					atomic.AddInt64(&failures, 1)
				}
			}
			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(w io.Writer, name string, s phaseStats) {
	fmt.Fprintf(w, "%s: ops=%d unexpected=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
