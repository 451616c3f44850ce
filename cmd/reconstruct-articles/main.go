package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iandreafc/gdeltnews/internal/logger"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/fragment"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/reconstruct"
)

func main() {
	var (
		inputDir  = flag.String("input-dir", "gdeltdata", "Directory containing .webngrams.json.gz files")
		outputDir = flag.String("output-dir", "gdeltpreprocessed", "Directory for output article CSV files")
		language  = flag.String("language", "", "Keep only records with this language code (empty keeps all)")
		urlFilter = flag.String("url-filter", "", "Substring or comma-separated substrings to filter URLs, e.g. 'repubblica.it,corriere.it'")
		workers   = flag.Int("processes", 0, "Number of concurrent workers (0 uses all cores)")
		deleteGz  = flag.Bool("delete-gz", false, "Remove the original .json.gz files after processing")
		verbose   = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	lg := logger.New(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	rec := reconstruct.New(*workers, lg)
	stats, err := rec.ProcessDir(ctx, reconstruct.DirOptions{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Filter: fragment.Filter{
			Language:    *language,
			URLContains: splitList(*urlFilter),
		},
		DeleteGz: *deleteGz,
	})
	if err != nil {
		log.Fatal("Reconstruction failed:", err)
	}

	log.Printf("Processed %d files: %d articles written, %d empty outputs removed, %d files failed",
		stats.Files, stats.Articles, stats.Empty, stats.Failed)
}

func splitList(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
