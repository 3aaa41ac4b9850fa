package pipeline

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StationCodes derives the expected USAF and WBAN codes from an archive
// filename of the form <USAF>-<WBAN>-<year>[.gz].
func StationCodes(path string) (usaf, wban string, err error) {
	stem := filepath.Base(path)
	stem = strings.TrimSuffix(stem, ".gz")
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	parts := strings.Split(stem, "-")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("filename %q does not match <usaf>-<wban>-<year>", filepath.Base(path))
	}
	return parts[0], parts[1], nil
}

// OpenRecords opens a station file, transparently decompressing by the .gz
// extension. The returned closer releases both the decompressor and the file.
func OpenRecords(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return &gzipReadCloser{gz: gz, f: f}, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gzErr
}
