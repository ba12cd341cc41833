// Package migrate converts a JSON dump of the legacy MODULE_<N>_DATA exports
// into module_NN.yaml content files with explicit ids, and verifies that no
// lesson text changes on the way.
package migrate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/heartmarshall/a1-lessons/internal/adapter/contentfs"
	"github.com/heartmarshall/a1-lessons/internal/domain"
	"github.com/heartmarshall/a1-lessons/pkg/canonical"
)

var exportNameRe = regexp.MustCompile(`^MODULE_(\d+)_DATA$`)

// Service runs legacy migrations.
type Service struct {
	log *slog.Logger
}

// NewService creates a migration Service.
func NewService(log *slog.Logger) *Service {
	return &Service{log: log.With("service", "migrate")}
}

// RunFile migrates the legacy export document stored at path.
func (s *Service) RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("migrate: open input: %w", err)
	}
	defer f.Close()

	return s.Run(ctx, f, opts)
}

// Run reads a JSON object keyed by export name and writes one YAML file per
// module. Exports are processed in document order.
func (s *Service) Run(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	if opts.OutDir == "" && !opts.DryRun {
		return nil, domain.NewValidationError("out_dir", "required")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("migrate: read input: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("migrate: input is not valid JSON: %w", domain.ErrValidation)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("migrate: input must be an object of exports: %w", domain.ErrValidation)
	}

	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("migrate: create out dir: %w", err)
		}
	}

	result := &Result{DryRun: opts.DryRun}
	seen := make(map[int]string)

	var runErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		if err := ctx.Err(); err != nil {
			runErr = err
			return false
		}

		name := key.String()
		result.Exports++

		id, ok := ExportID(name)
		if !ok {
			s.log.Warn("skipping export", slog.String("export", name))
			result.Skipped = append(result.Skipped, name)
			return true
		}
		if prev, dup := seen[id]; dup {
			runErr = fmt.Errorf("%s: module %d already exported as %s: %w", name, id, prev, domain.ErrConflict)
			return false
		}
		seen[id] = name

		if err := s.migrateOne(name, id, []byte(value.Raw), opts, result); err != nil {
			runErr = err
			return false
		}
		return true
	})
	if runErr != nil {
		return nil, runErr
	}

	s.log.Info("migration finished",
		slog.Int("exports", result.Exports),
		slog.Int("migrated", result.Migrated),
		slog.Int("written", result.Written),
		slog.Int("unchanged", result.Unchanged),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("mismatches", len(result.Mismatches)),
		slog.Bool("dry_run", opts.DryRun),
	)
	return result, nil
}

func (s *Service) migrateOne(name string, id int, raw []byte, opts Options, result *Result) error {
	m, err := DecodeLegacy(raw, id)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	result.Migrated++

	mismatch, err := Compare(raw, &m)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if mismatch != nil {
		mismatch.Export = name
		s.log.Warn("round trip mismatch", slog.String("export", name), slog.Int("module_id", id))
		result.Mismatches = append(result.Mismatches, *mismatch)
	}

	out, err := contentfs.Marshal(&m)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	// A dry run without an output dir has nothing to compare against; every
	// module counts as a write.
	if opts.OutDir == "" {
		result.Written++
		return nil
	}

	path := filepath.Join(opts.OutDir, contentfs.FileName(id))
	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, out):
		result.Unchanged++
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%s: read %s: %w", name, path, err)
	}

	result.Written++
	if opts.DryRun {
		return nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("%s: write %s: %w", name, path, err)
	}
	s.log.Debug("module written", slog.Int("module_id", id), slog.String("path", path))
	return nil
}

// DecodeLegacy decodes one legacy module literal and assigns it id.
func DecodeLegacy(raw []byte, id int) (domain.Module, error) {
	var m domain.Module
	if err := json.Unmarshal(raw, &m); err != nil {
		return domain.Module{}, fmt.Errorf("decode: %w", err)
	}
	m.ID = id
	return m, nil
}

// Compare checks that m encodes to the same canonical JSON as the legacy
// literal it came from. The id field is ignored since legacy literals carry
// it only in the export name. A nil Mismatch means the texts are identical.
func Compare(legacy []byte, m *domain.Module) (*Mismatch, error) {
	want, err := canonical.Normalize(legacy)
	if err != nil {
		return nil, fmt.Errorf("canonical legacy: %w", err)
	}

	encoded, err := canonical.Marshal(m)
	if err != nil {
		return nil, err
	}
	stripped, err := canonical.Without(encoded, "id")
	if err != nil {
		return nil, err
	}
	got, err := canonical.Normalize(stripped)
	if err != nil {
		return nil, fmt.Errorf("canonical module: %w", err)
	}

	if bytes.Equal(want, got) {
		return nil, nil
	}
	return &Mismatch{ModuleID: m.ID, Legacy: string(want), Migrated: string(got)}, nil
}

// ExportID extracts the module number from a legacy export name such as
// MODULE_21_DATA.
func ExportID(name string) (int, bool) {
	sub := exportNameRe.FindStringSubmatch(name)
	if sub == nil {
		return 0, false
	}
	id, err := strconv.Atoi(sub[1])
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
