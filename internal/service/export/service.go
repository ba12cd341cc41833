// Package export writes the whole module store as a single JSON bundle for
// the web application, optionally brotli-compressed.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"

	"github.com/heartmarshall/a1-lessons/internal/domain"
)

// Options controls bundle encoding.
type Options struct {
	Version  string
	Compress bool
	// Quality is the brotli level, 0..11. Ignored unless Compress is set.
	Quality int
}

// Bundle is the exported document.
type Bundle struct {
	Version string           `json:"version"`
	Count   int              `json:"count"`
	Modules []*domain.Module `json:"modules"`
}

// Stats reports what a write produced.
type Stats struct {
	Modules      int
	RawBytes     int
	WrittenBytes int64
	Compressed   bool
}

// Service encodes bundles.
type Service struct {
	log *slog.Logger
}

// NewService creates an export Service.
func NewService(log *slog.Logger) *Service {
	return &Service{log: log.With("service", "export")}
}

// Write encodes modules (already ordered by id) to w.
func (s *Service) Write(w io.Writer, modules []*domain.Module, opts Options) (Stats, error) {
	if opts.Compress && (opts.Quality < brotli.BestSpeed || opts.Quality > brotli.BestCompression) {
		return Stats{}, domain.NewValidationError("quality",
			fmt.Sprintf("brotli quality must be %d..%d", brotli.BestSpeed, brotli.BestCompression))
	}

	raw, err := Encode(modules, opts.Version)
	if err != nil {
		return Stats{}, err
	}

	cw := &countingWriter{w: w}
	st := Stats{Modules: len(modules), RawBytes: len(raw), Compressed: opts.Compress}

	if opts.Compress {
		bw := brotli.NewWriterLevel(cw, opts.Quality)
		if _, err := bw.Write(raw); err != nil {
			return Stats{}, fmt.Errorf("export: compress: %w", err)
		}
		if err := bw.Close(); err != nil {
			return Stats{}, fmt.Errorf("export: compress: %w", err)
		}
	} else if _, err := cw.Write(raw); err != nil {
		return Stats{}, fmt.Errorf("export: write: %w", err)
	}

	st.WrittenBytes = cw.n
	s.log.Info("bundle written",
		slog.Int("modules", st.Modules),
		slog.Int("raw_bytes", st.RawBytes),
		slog.Int64("written_bytes", st.WrittenBytes),
		slog.Bool("compressed", st.Compressed),
	)
	return st, nil
}

// WriteFile writes the bundle to path, creating parent directories.
func (s *Service) WriteFile(path string, modules []*domain.Module, opts Options) (Stats, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Stats{}, fmt.Errorf("export: create dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return Stats{}, fmt.Errorf("export: create file: %w", err)
	}

	bw := bufio.NewWriter(f)
	st, err := s.Write(bw, modules, opts)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}

// Encode returns the uncompressed bundle JSON. HTML characters are not
// escaped so lesson text stays byte-identical.
func Encode(modules []*domain.Module, version string) ([]byte, error) {
	if modules == nil {
		modules = []*domain.Module{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Bundle{Version: version, Count: len(modules), Modules: modules}); err != nil {
		return nil, fmt.Errorf("export: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads a bundle written by Write. Compressed input must be flagged by
// the caller.
func Decode(r io.Reader, compressed bool) (*Bundle, error) {
	if compressed {
		r = brotli.NewReader(r)
	}
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("export: decode: %w", err)
	}
	return &b, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
