package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-scrape-reviewers/config"
	"github.com/aluiziolira/go-scrape-reviewers/models"
	"github.com/aluiziolira/go-scrape-reviewers/output"
	"github.com/aluiziolira/go-scrape-reviewers/product"
	"github.com/aluiziolira/go-scrape-reviewers/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func main() {
	cmd, err := newRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, error) {
	defaults, err := envDefaults()
	if err != nil {
		return nil, err
	}

	var (
		stars       string
		metricsAddr string
	)
	cfg := defaults

	cmd := &cobra.Command{
		Use:   "reviewers [PRODUCT_URL]",
		Short: "List profile links of reviewers who rated a product",
		Long: `reviewers walks every review-listing page of a product, optionally
filtered by star rating, and prints the profile link of each reviewer.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := product.ParseStars(stars)
			if err != nil {
				return err
			}
			cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
			cfg.MetricsAddr = metricsAddr
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return run(cmd.Context(), cfg, args[0], filter, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&stars, "stars", "s", "all", "Star rating filter: 1-5, one-five, or all")
	flags.IntVar(&cfg.Parallelism, "parallel", cfg.Parallelism, "Number of listing pages fetched at once")
	flags.IntVar(&cfg.PageCacheSize, "cache-size", cfg.PageCacheSize, "Listing pages kept in the in-memory cache (0 disables)")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-request timeout")
	flags.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent header sent with every request")
	flags.StringVarP(&cfg.OutputFormat, "format", "f", cfg.OutputFormat, "Output format: text, csv, or json")
	flags.BoolVar(&cfg.RespectRobotsTxt, "respect-robots", cfg.RespectRobotsTxt, "Respect robots.txt directives")
	flags.StringVar(&metricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable verbose logging")

	return cmd, nil
}

func envDefaults() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if value, ok, err := config.EnvInt("REVIEWERS_PARALLEL"); err != nil {
		return nil, fmt.Errorf("invalid REVIEWERS_PARALLEL: %w", err)
	} else if ok {
		cfg.Parallelism = value
	}
	if value, ok, err := config.EnvInt("REVIEWERS_CACHE_SIZE"); err != nil {
		return nil, fmt.Errorf("invalid REVIEWERS_CACHE_SIZE: %w", err)
	} else if ok {
		cfg.PageCacheSize = value
	}
	if value, ok, err := config.EnvDuration("REVIEWERS_TIMEOUT"); err != nil {
		return nil, fmt.Errorf("invalid REVIEWERS_TIMEOUT: %w", err)
	} else if ok {
		cfg.Timeout = value
	}
	if value, ok := config.EnvString("REVIEWERS_FORMAT"); ok {
		cfg.OutputFormat = value
	}
	if value, ok := config.EnvString("REVIEWERS_METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, productURL string, stars product.Stars, stdout, stderr io.Writer) error {
	logger, level := newLogger(stderr, cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := scraper.NewCrawler(cfg, scraper.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("initialising crawler: %w", err)
	}

	writer, err := output.NewWriter(cfg.OutputFormat, stdout)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(c.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", slog.Any("error", err))
			}
		}()
	}

	slog.Info("starting crawl",
		slog.String("product_url", productURL),
		slog.String("stars", stars.String()),
		slog.Int("parallel", cfg.Parallelism),
	)

	result, err := c.Run(ctx, productURL, stars)
	if err != nil {
		slog.Error("crawl failed", slog.Any("error", err))
		return err
	}

	if err := writer.Write(result.Reviewers()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSummary(stderr, result)
	return nil
}

func printSummary(w io.Writer, result *models.CrawlResult) {
	separator := "--------------------------------------------------"
	duration := result.EndTime.Sub(result.StartTime)
	links := len(result.Links())

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "Crawl complete")
	fmt.Fprintf(w, "  Crawl ID:      %s\n", result.ID)
	fmt.Fprintf(w, "  Reviews URL:   %s\n", result.ReviewsURL)
	fmt.Fprintf(w, "  Stars:         %s\n", result.Stars)
	fmt.Fprintf(w, "  Pages:         %d\n", result.PageCount)
	fmt.Fprintf(w, "  Requests:      %d\n", result.RequestCount)
	fmt.Fprintf(w, "  Reviewers:     %d\n", links)
	fmt.Fprintf(w, "  Duration:      %v\n", duration)
	fmt.Fprintln(w, separator)
}

func newLogger(w io.Writer, verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
