package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iandreafc/gdeltnews/internal/fetch"
	"github.com/iandreafc/gdeltnews/internal/logger"
)

func main() {
	var (
		start        = flag.String("start", "", "Start of the UTC time range, e.g. 2025-03-16T14:00:00 (required)")
		end          = flag.String("end", "", "End of the UTC time range, inclusive (required)")
		outDir       = flag.String("outdir", "gdeltdata", "Output directory for downloaded files")
		overwrite    = flag.Bool("overwrite", false, "Re-download files that already exist")
		noDecompress = flag.Bool("no-decompress", false, "Keep only the .json.gz files")
		list         = flag.Bool("list", false, "List the files currently available on the server and exit")
		verbose      = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	client := &fetch.Client{Log: logger.New(level)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	if *list {
		names, err := client.ListAvailable(ctx)
		if err != nil {
			log.Fatal("Failed to list available files:", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	if *start == "" {
		log.Fatal("--start required")
	}
	if *end == "" {
		log.Fatal("--end required")
	}

	startTS, err := fetch.ParseTimestamp(*start)
	if err != nil {
		log.Fatal("Invalid --start:", err)
	}
	endTS, err := fetch.ParseTimestamp(*end)
	if err != nil {
		log.Fatal("Invalid --end:", err)
	}

	stats, err := client.DownloadRange(ctx, startTS, endTS, fetch.RangeOptions{
		DestDir:    *outDir,
		Overwrite:  *overwrite,
		Decompress: !*noDecompress,
	})
	if err != nil {
		log.Fatal("Download failed:", err)
	}

	log.Printf("Downloaded %d of %d minute files into %s", stats.Downloaded, stats.Minutes, *outDir)
	if !*noDecompress {
		log.Printf("Decompressed %d files to .json", stats.Decompressed)
	}
}
