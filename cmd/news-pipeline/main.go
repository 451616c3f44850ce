package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/iandreafc/gdeltnews/internal/fetch"
	"github.com/iandreafc/gdeltnews/internal/logger"
	"github.com/iandreafc/gdeltnews/internal/report"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/config"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/filtermerge"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/fragment"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/reconstruct"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/store"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Pipeline configuration file (required)")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	lg := logger.New(cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	rep := report.New()

	if cfg.Download.Enabled {
		runDownload(ctx, cfg, lg, rep)
	}
	if cfg.Reconstruct.Enabled {
		runReconstruct(ctx, cfg, lg, rep)
	}
	if cfg.Filter.Enabled {
		runFilter(ctx, cfg, lg, rep)
	}

	rep.Render(os.Stdout, !color.NoColor)
}

func runDownload(ctx context.Context, cfg *config.Config, lg *logger.Logger, rep *report.Report) {
	start, end, err := cfg.Download.Window()
	if err != nil {
		log.Fatal("Invalid download window: ", err)
	}

	began := time.Now()
	client := &fetch.Client{Log: lg}
	stats, err := client.DownloadRange(ctx, start, end, fetch.RangeOptions{
		DestDir:    cfg.Download.OutputDir,
		Overwrite:  cfg.Download.Overwrite,
		Decompress: !cfg.Download.SkipDecompress,
	})
	if err != nil {
		log.Fatal("Download stage failed: ", err)
	}

	rep.Section("Download")
	rep.Add("minutes", stats.Minutes)
	rep.Add("downloaded", stats.Downloaded)
	if !cfg.Download.SkipDecompress {
		rep.Add("decompressed", stats.Decompressed)
	}
	rep.Add("elapsed", time.Since(began).Round(time.Millisecond))
}

func runReconstruct(ctx context.Context, cfg *config.Config, lg *logger.Logger, rep *report.Report) {
	began := time.Now()
	rec := reconstruct.New(cfg.Reconstruct.Workers, lg)
	stats, err := rec.ProcessDir(ctx, reconstruct.DirOptions{
		InputDir:  cfg.Reconstruct.InputDir,
		OutputDir: cfg.Reconstruct.OutputDir,
		Filter: fragment.Filter{
			Language:    cfg.Reconstruct.Language,
			URLContains: cfg.Reconstruct.URLFilters,
		},
		DeleteGz: cfg.Reconstruct.DeleteGz,
	})
	if err != nil {
		log.Fatal("Reconstruction stage failed: ", err)
	}

	rep.Section("Reconstruct")
	rep.Add("files", stats.Files)
	rep.Add("articles", stats.Articles)
	rep.Add("empty", stats.Empty)
	if stats.Failed > 0 {
		rep.Add("failed", stats.Failed)
	}
	rep.Add("elapsed", time.Since(began).Round(time.Millisecond))
}

func runFilter(ctx context.Context, cfg *config.Config, lg *logger.Logger, rep *report.Report) {
	var st store.Store
	if cfg.Filter.Database != "" {
		var err error
		st, err = sqlite.Open(ctx, cfg.Filter.Database)
		if err != nil {
			log.Fatal("Failed to open database: ", err)
		}
		defer st.Close()
	}

	began := time.Now()
	res, err := filtermerge.Run(ctx, filtermerge.Options{
		InputDir:    cfg.Filter.InputDir,
		OutputPath:  cfg.Filter.OutputPath,
		Query:       cfg.Filter.Query,
		SourceLabel: cfg.Filter.SourceLabel,
		KeepTemp:    cfg.Filter.KeepTemp,
		Store:       st,
		Log:         lg,
	})
	if err != nil {
		log.Fatal("Filter stage failed: ", err)
	}

	rep.Section("Filter + merge")
	rep.Add("run", res.RunID)
	rep.Add("files", res.FilesScanned)
	if res.FilesSkipped > 0 {
		rep.Add("skipped", res.FilesSkipped)
	}
	rep.Add("rows", res.RowsRead)
	rep.Add("matched", res.Matched)
	rep.Add("kept", res.Kept)
	rep.Add("output", res.OutputPath)
	if cfg.Filter.Database != "" {
		rep.Add("database", cfg.Filter.Database)
	}
	rep.Add("elapsed", time.Since(began).Round(time.Millisecond))
}
