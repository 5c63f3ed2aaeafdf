package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/wallet-dev/wallet/internal/model"
)

// Statement holds everything recovered from one statement file.
type Statement struct {
	Transactions []model.Transaction // statement order
	Balance      model.LedgerBalance
}

// Parser converts a bank statement export into a Statement.
type Parser interface {
	Parse(r io.Reader) (*Statement, error)
	ParseFile(path string) (*Statement, error)
	Format() string
}

// SupportedFormats lists the formats the import flow offers. A format
// may be listed before its parser ships; csv currently has none.
func SupportedFormats() []string {
	return []string{"qfx", "csv"}
}

// UnsupportedFormatError reports a requested format with no parser.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no parser for format %q", e.Format)
}

// ParseError reports a statement file the parser could not recover a
// complete result from. Parsing is all-or-nothing: no partial
// transaction sequence accompanies a ParseError.
type ParseError struct {
	What string // region or field that failed
	Err  error  // optional cause
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing statement: %s: %v", e.What, e.Err)
	}
	return "parsing statement: " + e.What
}

func (e *ParseError) Unwrap() error {
	return e.Err
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

// For returns the parser for format, or an UnsupportedFormatError.
func (r *Registry) For(format string) (Parser, error) {
	p := r.Get(format)
	if p == nil {
		return nil, &UnsupportedFormatError{Format: format}
	}
	return p, nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&QFXParser{})
	return r
}
