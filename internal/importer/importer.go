package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wealthwise-dev/wealthwise/internal/model"
)

// Parser converts a statement file into a normalized Table.
type Parser interface {
	Parse(r io.Reader) (*model.Table, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers. sheet picks
// the worksheet of Excel statements; empty means the first one.
func DefaultRegistry(sheet string) *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{Sheet: sheet})
	return r
}

// OpenFunc opens a statement file for reading.
type OpenFunc func(path string) (io.ReadCloser, error)

// Loader reads a statement from disk with the parser matching its extension.
type Loader struct {
	Open     OpenFunc
	Registry *Registry
}

// NewLoader returns a Loader backed by the filesystem and the default parsers.
func NewLoader() *Loader {
	return &Loader{
		Open:     func(path string) (io.ReadCloser, error) { return os.Open(path) },
		Registry: DefaultRegistry(""),
	}
}

// Load opens path and parses it. The returned table already carries
// calendar dates; no pre-conversion copy is kept.
func (l *Loader) Load(path string) (*model.Table, error) {
	format := FormatFor(path)
	parser := l.Registry.Get(format)
	if parser == nil {
		return nil, fmt.Errorf("no parser for format %q (%s)", format, path)
	}

	f, err := l.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	table, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// FormatFor maps a file name to a parser format. Unknown extensions are
// treated as CSV.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return "csv"
	}
}
