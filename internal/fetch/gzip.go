package fetch

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Decompress inflates a .gz file to its sibling path without the
// extension and returns that path. An existing sibling is returned
// as-is, which lets interrupted runs resume without redoing work.
func Decompress(gzPath string) (string, error) {
	if !strings.HasSuffix(gzPath, ".gz") {
		return "", fmt.Errorf("expected a .gz file, got %s", gzPath)
	}

	outPath := strings.TrimSuffix(gzPath, ".gz")
	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	in, err := os.Open(gzPath)
	if err != nil {
		return "", err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, zr); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", err
	}
	return outPath, nil
}
