package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/iandreafc/gdeltnews/internal/logger"
)

// ErrNotAvailable marks a minute file the server does not have. Most
// minutes outside the publication window 404; callers skip them.
var ErrNotAvailable = errors.New("file not available")

// Client downloads minute files from the GDELT server.
type Client struct {
	BaseURL string // defaults to BaseURL

	HTTPClient *http.Client
	Log        *logger.Logger
}

// RangeOptions controls a DownloadRange run.
type RangeOptions struct {
	DestDir    string
	Overwrite  bool
	Decompress bool
}

// RangeStats reports what a DownloadRange run did.
type RangeStats struct {
	Minutes      int
	Downloaded   int
	Decompressed int
}

// DownloadMinute fetches the file for one minute slot into destDir and
// returns its path. An already-present file is returned as-is unless
// overwrite is set. Minutes the server does not have yield
// ErrNotAvailable.
func (c *Client) DownloadMinute(ctx context.Context, ts time.Time, destDir string, overwrite bool) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	name := FilenameForMinute(ts)
	gzPath := filepath.Join(destDir, name)

	if !overwrite {
		if _, err := os.Stat(gzPath); err == nil {
			c.logger().Debug("file already present", "path", gzPath)
			return gzPath, nil
		}
	}

	url := c.baseURL() + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s (status %d)", ErrNotAvailable, url, resp.StatusCode)
	}

	f, err := os.Create(gzPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(gzPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(gzPath)
		return "", err
	}
	return gzPath, nil
}

// DownloadRange fetches every minute file between start and end
// inclusive. Missing minutes and failed downloads are skipped; the
// returned stats say how many files actually arrived.
func (c *Client) DownloadRange(ctx context.Context, start, end time.Time, opts RangeOptions) (RangeStats, error) {
	minutes, err := MinuteRange(start, end)
	if err != nil {
		return RangeStats{}, err
	}

	log := c.logger()
	stats := RangeStats{Minutes: len(minutes)}
	log.Info("downloading ngrams window",
		"start", start.UTC().Format(time.RFC3339),
		"end", end.UTC().Format(time.RFC3339),
		"minutes", len(minutes),
		"dest", opts.DestDir)

	for _, ts := range minutes {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		gzPath, err := c.DownloadMinute(ctx, ts, opts.DestDir, opts.Overwrite)
		if err != nil {
			if errors.Is(err, ErrNotAvailable) {
				log.Debug("minute not available", "file", FilenameForMinute(ts))
			} else {
				log.Warn("download failed", "file", FilenameForMinute(ts), "error", err)
			}
			continue
		}
		stats.Downloaded++

		if opts.Decompress {
			if _, err := Decompress(gzPath); err != nil {
				log.Warn("decompression failed", "file", gzPath, "error", err)
				continue
			}
			stats.Decompressed++
		}
	}

	log.Info("download window finished",
		"downloaded", stats.Downloaded,
		"decompressed", stats.Decompressed)
	return stats, nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return BaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) logger() *logger.Logger {
	if c.Log != nil {
		return c.Log
	}
	return logger.Nop()
}
