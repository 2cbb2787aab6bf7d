package anvil

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/klauspost/readahead"

	"github.com/badkraft/anvil/internal/log"
)

const sentinelSourceID = "<string>"

// config holds resolved Option values for a single parse call.
type config struct {
	namespace       string
	dialectOverride Dialect
	maxErrors       int
	logger          log.Logger
	internBlobs     bool
}

func defaultConfig() config {
	return config{
		dialectOverride: dialectNone,
		maxErrors:       maxRecordedErrors,
		logger:          log.Make(io.Discard),
	}
}

// Option configures a parse call, matching the teacher's
// functional-options idiom. Passing a zero value to WithNamespace,
// WithMaxErrors or WithBlobInterning leaves the default in place;
// WithDialect's zero value is DialectASL and does override the dialect.
type Option func(config) config

func WithNamespace(ns string) Option {
	return func(c config) config { c.namespace = ns; return c }
}

func WithDialect(d Dialect) Option {
	return func(c config) config { c.dialectOverride = d; return c }
}

func WithMaxErrors(n int) Option {
	return func(c config) config {
		if n > 0 {
			c.maxErrors = n
		}
		return c
	}
}

func WithLogger(l log.Logger) Option {
	return func(c config) config { c.logger = l; return c }
}

func WithBlobInterning(enable bool) Option {
	return func(c config) config { c.internBlobs = enable; return c }
}

func applyOptions(opts ...Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		c = opt(c)
	}
	return c
}

// ParseString parses source text directly, with sourceID used only for
// diagnostics and namespace derivation (no file I/O is performed).
func ParseString(source, sourceID string, opts ...Option) (*Module, error) {
	if sourceID == "" {
		sourceID = sentinelSourceID
	}
	return parse(source, sourceID, opts...)
}

// ParseFile reads path and parses its contents, deriving the namespace
// from the filename stem unless WithNamespace overrides it.
func ParseFile(path string, opts ...Option) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return parse(string(data), path, opts...)
}

// ParseReader parses the content of r, wrapping it in a read-ahead
// buffer so reads from r run ahead of the copy into memory. Parsing
// starts only once r has been read to the end.
func ParseReader(r io.Reader, sourceID string, opts ...Option) (*Module, error) {
	if sourceID == "" {
		sourceID = sentinelSourceID
	}
	ra := readahead.NewReader(r)
	defer ra.Close()
	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, &IOError{Path: sourceID, Err: err}
	}
	return parse(string(data), sourceID, opts...)
}

func parse(source, sourceID string, opts ...Option) (*Module, error) {
	cfg := applyOptions(opts...)
	namespace := cfg.namespace
	if namespace == "" {
		namespace = deriveNamespace(sourceID)
	}

	p := newParser(source, sourceID, namespace, cfg.dialectOverride, cfg.logger, cfg.internBlobs, cfg.maxErrors)
	p.parseModule()

	if p.failed() {
		return nil, &ParseError{
			Issues:   p.issues,
			Total:    p.totalIssues,
			source:   source,
			sourceID: sourceID,
		}
	}

	return buildModule(namespace, sourceID, p.dialect, p.moduleAttrs, p.statements), nil
}

// deriveNamespace takes the filename stem of sourceID, or a generated
// placeholder when sourceID has no usable stem (e.g. the sentinel).
func deriveNamespace(sourceID string) string {
	base := filepath.Base(sourceID)
	stem := strings.TrimSuffix(strings.TrimSuffix(base, ".aml"), ".asl")
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	if stem == "" || stem == "<string>" || stem == "." || stem == "/" {
		return "anvil" + strconv.FormatInt(namespaceCounter.Add(1), 10)
	}
	return stem
}

var namespaceCounter atomic.Int64

// IOError wraps a failure to read source bytes, distinct from a
// ParseError because no parsing was attempted.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return "anvil: " + e.Path + ": " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }
func (e *IOError) Code() ErrorCode { return IoError }

// Hot holds the currently active Module for hot-reload, swapped by
// atomic pointer exchange. Readers calling Load always see a complete,
// immutable snapshot; there is no intermediate or partially-updated
// state.
type Hot struct {
	ptr atomic.Pointer[Module]
}

func NewHot(initial *Module) *Hot {
	h := &Hot{}
	h.ptr.Store(initial)
	return h
}

func (h *Hot) Load() *Module { return h.ptr.Load() }

func (h *Hot) Swap(next *Module) *Module { return h.ptr.Swap(next) }

// ReloadFrom parses source and, on success, atomically swaps it in,
// returning the module that was replaced.
func (h *Hot) ReloadFrom(ctx context.Context, source, sourceID string, opts ...Option) (*Module, error) {
	next, err := parse(source, sourceID, opts...)
	if err != nil {
		return nil, err
	}
	return h.Swap(next), nil
}
