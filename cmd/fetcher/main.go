package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"mfa-news-fetcher/internal/config"
	"mfa-news-fetcher/internal/feed"
	"mfa-news-fetcher/internal/logger"
	"mfa-news-fetcher/internal/scraper"
)

type options struct {
	Page       int    `short:"p" long:"page" env:"FETCH_PAGE" default:"1" description:"1-based listing page number"`
	OutputDir  string `long:"output-dir" env:"OUTPUT_DIR" default:"./output" description:"Directory for the JSON output file"`
	OutputFile string `short:"o" long:"output-file" env:"OUTPUT_FILE" default:"news_feed.json" description:"Output filename"`
	Profile    string `long:"profile" env:"SITE_PROFILE" description:"Optional site profile YAML overriding the built-in defaults"`
	LogDir     string `long:"log-dir" env:"LOG_DIR" default:"." description:"Directory for combined.log and error.log (empty disables file logging)"`
	LogLevel   string `long:"log-level" env:"LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Console log level"`
	TimeoutSec int    `long:"timeout" env:"RUN_TIMEOUT_SEC" default:"120" description:"Overall run deadline in seconds"`
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	var opts options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}

	log, err := logger.New(opts.LogLevel, opts.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		return 1
	}
	defer log.Close()

	if err := run(opts, log); err != nil {
		log.Error("run failed", "error", err)
		return 1
	}

	return 0
}

func run(opts options, log *logger.Logger) error {
	profile, err := config.LoadSiteProfile(opts.Profile)
	if err != nil {
		return fmt.Errorf("load site profile: %w", err)
	}

	// Bound the whole run; the session is released on every exit path.
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.TimeoutSec)*time.Second)
	defer cancel()

	fetcher := scraper.NewPageFetcher(profile, log)
	defer fetcher.Shutdown()

	if err := fetcher.Initialize(ctx); err != nil {
		return err
	}

	records, err := fetcher.FetchListingPage(ctx, opts.Page)
	if err != nil {
		return err
	}

	writer := feed.NewWriter(opts.OutputDir, log)
	path, err := writer.Write(records, opts.OutputFile)
	if err != nil {
		return err
	}

	log.Info("run complete", "records", len(records), "output", path)

	return nil
}
