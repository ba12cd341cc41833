// Package contentfs reads and writes lesson module files (module_NN.yaml)
// stored on any fs.FS: the embedded content or a directory on disk.
package contentfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/a1-lessons/internal/domain"
)

// Pattern matches module file names inside the content directory.
const Pattern = "module_*.yaml"

var fileNameRe = regexp.MustCompile(`^module_(\d+)\.yaml$`)

// Loader decodes every module file found in one directory of an fs.FS.
type Loader struct {
	fsys fs.FS
	dir  string
	log  *slog.Logger
}

// NewLoader creates a Loader over dir inside fsys. Use "." for the root.
func NewLoader(log *slog.Logger, fsys fs.FS, dir string) *Loader {
	if dir == "" {
		dir = "."
	}
	return &Loader{
		fsys: fsys,
		dir:  dir,
		log:  log.With("adapter", "contentfs"),
	}
}

// LoadModules decodes all module files in file-name order. The first broken
// file aborts the load; a partial set is never returned.
func (l *Loader) LoadModules(ctx context.Context) ([]domain.Module, error) {
	names, err := fs.Glob(l.fsys, path.Join(l.dir, Pattern))
	if err != nil {
		return nil, fmt.Errorf("contentfs: glob: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("contentfs: no %s files in %q", Pattern, l.dir)
	}

	modules := make([]domain.Module, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := l.loadFile(name)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	l.log.Debug("modules loaded", slog.Int("count", len(modules)), slog.String("dir", l.dir))
	return modules, nil
}

func (l *Loader) loadFile(name string) (domain.Module, error) {
	base := path.Base(name)

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return domain.Module{}, fmt.Errorf("%s: read: %w", base, err)
	}

	m, err := Decode(bytes.NewReader(data))
	if err != nil {
		return domain.Module{}, fmt.Errorf("%s: %w", base, err)
	}

	if id, ok := FileID(base); ok && id != m.ID {
		return domain.Module{}, fmt.Errorf("%s: file name says module %d, content says %d: %w",
			base, id, m.ID, domain.ErrConflict)
	}
	return m, nil
}

// Decode reads exactly one module document. Unknown fields are rejected so
// that a misspelled key is not silently dropped.
func Decode(r io.Reader) (domain.Module, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m domain.Module
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Module{}, errors.New("decode: empty document")
		}
		return domain.Module{}, fmt.Errorf("decode: %w", err)
	}
	return m, nil
}

// Encode writes m as a YAML document with 2-space indentation. Multi-line
// text is emitted in literal block style.
func Encode(w io.Writer, m *domain.Module) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode module %d: %w", m.ID, err)
	}
	return enc.Close()
}

// Marshal returns the YAML encoding of m.
func Marshal(m *domain.Module) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName returns the content file name for a module id, e.g. module_03.yaml.
func FileName(id int) string {
	return fmt.Sprintf("module_%02d.yaml", id)
}

// FileID extracts the module id from a content file name.
func FileID(name string) (int, bool) {
	sub := fileNameRe.FindStringSubmatch(name)
	if sub == nil {
		return 0, false
	}
	id, err := strconv.Atoi(sub[1])
	if err != nil {
		return 0, false
	}
	return id, true
}
