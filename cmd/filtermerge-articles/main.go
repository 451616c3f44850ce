package main

import (
	"context"
	"flag"
	"log"

	"github.com/iandreafc/gdeltnews/internal/logger"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/filtermerge"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/store"
	"github.com/iandreafc/gdeltnews/pkg/gdeltnews/store/sqlite"
)

func main() {
	var (
		inputDir = flag.String("input-dir", "", "Directory containing article CSV files (required)")
		output   = flag.String("output", "", "Path for the final output CSV file (required)")
		query    = flag.String("query", "", "Boolean query with AND, OR, NOT and parentheses, e.g. '((elezioni OR voto) AND campania) OR (fico AND NOT veneto)'")
		keepTemp = flag.Bool("keep-temp", false, "Keep the intermediate temporary CSV file")
		dbPath   = flag.String("db", "", "Optional sqlite database to persist articles and the run record")
		source   = flag.String("source", "", "Source label filled into rows that have none")
		verbose  = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *inputDir == "" {
		log.Fatal("--input-dir required")
	}
	if *output == "" {
		log.Fatal("--output required")
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	lg := logger.New(level)

	ctx := context.Background()

	var st store.Store
	if *dbPath != "" {
		var err error
		st, err = sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatal("Failed to open database:", err)
		}
		defer st.Close()
	}

	res, err := filtermerge.Run(ctx, filtermerge.Options{
		InputDir:    *inputDir,
		OutputPath:  *output,
		Query:       *query,
		SourceLabel: *source,
		KeepTemp:    *keepTemp,
		Store:       st,
		Log:         lg,
	})
	if err != nil {
		log.Fatal("Error: ", err)
	}

	log.Printf("Run %s: matched %d of %d rows from %d files, kept %d unique articles in %s",
		res.RunID, res.Matched, res.RowsRead, res.FilesScanned, res.Kept, res.OutputPath)
}
