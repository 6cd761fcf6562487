package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-votematch/infrastructure/middleware"
	"github.com/ahrav/go-votematch/infrastructure/scorers"
	"github.com/ahrav/go-votematch/infrastructure/units"
	"github.com/ahrav/go-votematch/internal/application"
	"github.com/ahrav/go-votematch/internal/domain"
)

// queryResult is the JSON shape of one query's outcome.
type queryResult struct {
	Query   string              `json:"query"`
	Tallies []*domain.VoteTally `json:"tallies"`
	Winners []domain.Prediction `json:"winners,omitempty"`
}

func voteCommand(c *cli.Context) error {
	ctx := c.Context

	candidates, err := readCandidates(c.String("candidates"))
	if err != nil {
		return err
	}

	opts := []units.Option{units.WithLogger(slog.Default())}

	var server *http.Server
	if addr := c.String("metrics-addr"); addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, units.WithMetrics(middleware.NewPrometheusMetrics(reg)))
		server = startMetricsServer(addr, reg)
		defer shutdownMetricsServer(server)
	}

	ensemble, err := loadEnsemble(c)
	if err != nil {
		return err
	}

	queries := c.StringSlice("query")
	results := make([]queryResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.Int("parallel")))
	for i, q := range queries {
		g.Go(func() error {
			ballot, err := ensemble.Ballot(gctx, candidates, q, opts...)
			if err != nil {
				return fmt.Errorf("query %q: %w", q, err)
			}
			results[i] = queryResult{Query: q, Tallies: ballot.Tallies}
			if c.Bool("winners") {
				results[i].Winners = ballot.Winners
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeJSON(c.App.Writer, results); err != nil {
		return err
	}

	if server != nil {
		slog.Info("serving metrics until interrupted", slog.String("addr", server.Addr))
		waitForSignal(ctx)
	}
	return nil
}

// loadEnsemble compiles the configured ensemble, or builds the default
// three-way jaro ensemble from the command-line threshold.
func loadEnsemble(c *cli.Context) (*application.Ensemble, error) {
	loader, err := application.NewEnsembleLoader(nil)
	if err != nil {
		return nil, err
	}

	var ensemble *application.Ensemble
	if path := c.String("config"); path != "" {
		ensemble, err = loader.LoadFromFile(c.Context, path)
	} else {
		ensemble, err = loader.LoadFromBytes(c.Context, defaultConfig(c.Float64("threshold"), c.Int("top-n")))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ensemble: %w", err)
	}

	if c.IsSet("top-n") && c.String("config") != "" {
		return ensemble.WithTopN(c.Int("top-n")), nil
	}
	return ensemble, nil
}

// defaultConfig renders the built-in ensemble so it goes through the same
// validation as a user-supplied file.
func defaultConfig(threshold float64, topN int) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "version: \"1.0.0\"\nmetadata:\n  name: default\ntop_n: %d\nalgorithms:\n", topN)
	defaults := []struct{ id, scorerType string }{
		{scorers.NameJaro, application.ScorerJaro},
		{scorers.NameJaroWinkler, application.ScorerJaroWinkler},
		{scorers.NameJaroOriginal, application.ScorerJaroOriginal},
	}
	for _, d := range defaults {
		fmt.Fprintf(&b, "  - id: %s\n    type: %s\n    threshold: %g\n", d.id, d.scorerType, threshold)
	}
	return []byte(b.String())
}

func rankCommand(c *cli.Context) error {
	candidates, err := readCandidates(c.String("candidates"))
	if err != nil {
		return err
	}

	loader, err := application.NewEnsembleLoader(nil)
	if err != nil {
		return err
	}
	ensemble, err := loader.LoadFromFile(c.Context, c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load ensemble: %w", err)
	}

	ranker, err := ensemble.NewRanker(c.String("algorithm"), candidates, c.String("query"),
		units.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	preds, err := ranker.Rank(c.Context)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, preds)
}

func algorithmsCommand(c *cli.Context) error {
	for _, t := range application.NewDefaultScorerRegistry().GetSupportedTypes() {
		if _, err := fmt.Fprintln(c.App.Writer, t); err != nil {
			return err
		}
	}
	return nil
}

// readCandidates reads one candidate per line, trimming surrounding
// whitespace and skipping blank lines.
func readCandidates(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open candidates file: %w", err)
	}
	defer f.Close()

	var candidates []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		candidates = append(candidates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates file: %w", err)
	}
	return candidates, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func startMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.String("addr", addr), slog.Any("error", err))
		}
	}()
	return server
}

func shutdownMetricsServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Warn("metrics server shutdown failed", slog.Any("error", err))
	}
}

func waitForSignal(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}
