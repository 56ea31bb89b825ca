// Package cache guarantees each markdown file is parsed at most once per run.
//
// Concurrent requests for the same path share one in-flight parse. A
// successful parse is kept for the life of the cache; a failed parse is not
// stored, so the next request retries it.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/aidanlsb/cite/internal/document"
	"github.com/aidanlsb/cite/internal/parser"
	"github.com/aidanlsb/cite/internal/vault"
)

// ErrEmptyPath is returned when Resolve is called without a path.
var ErrEmptyPath = errors.New("cache: empty path")

// ParseError reports a file that could not be read or parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Stats counts cache activity.
type Stats struct {
	Parses   int64 `json:"parses"`
	Hits     int64 `json:"hits"`
	Shared   int64 `json:"shared"`
	Failures int64 `json:"failures"`
}

// Option configures a cache or a DirectSource.
type Option func(*config)

type config struct {
	logger  *log.Logger
	docOpts []document.Option
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDocumentOptions applies opts to every document produced.
func WithDocumentOptions(opts ...document.Option) Option {
	return func(c *config) { c.docOpts = append(c.docOpts, opts...) }
}

func newConfig(opts []Option) config {
	cfg := config{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Key normalizes path into the form documents are stored under.
func Key(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// ParsedFileCache shares parsed documents between the validator and the
// extractor.
type ParsedFileCache struct {
	parser *parser.Parser
	cfg    config

	mu    sync.RWMutex
	docs  map[string]*document.Document
	group singleflight.Group

	parses   atomic.Int64
	hits     atomic.Int64
	shared   atomic.Int64
	failures atomic.Int64
}

// New creates an empty cache reading through fsys.
func New(fsys vault.FS, opts ...Option) *ParsedFileCache {
	return &ParsedFileCache{
		parser: parser.New(fsys),
		cfg:    newConfig(opts),
		docs:   make(map[string]*document.Document),
	}
}

func (c *ParsedFileCache) lookup(key string) (*document.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[key]
	return doc, ok
}

// Resolve returns the parsed document for path, parsing it if no other
// caller has. A caller whose ctx ends while waiting gets ctx.Err(); the
// parse itself still completes for the other waiters.
func (c *ParsedFileCache) Resolve(ctx context.Context, path string) (*document.Document, error) {
	key, err := Key(path)
	if err != nil {
		return nil, err
	}

	if doc, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return doc, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if doc, ok := c.lookup(key); ok {
			return doc, nil
		}

		c.parses.Add(1)
		c.cfg.logger.Debug("parsing", "path", key)

		res, err := c.parser.ParseFile(key)
		if err != nil {
			c.failures.Add(1)
			c.cfg.logger.Debug("parse failed", "path", key, "err", err)
			return nil, &ParseError{Path: key, Err: err}
		}

		doc := document.New(res, c.cfg.docOpts...)
		c.mu.Lock()
		c.docs[key] = doc
		c.mu.Unlock()
		return doc, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Shared {
			c.shared.Add(1)
		}
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*document.Document), nil
	}
}

// Len returns the number of parsed documents held.
func (c *ParsedFileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Stats returns a snapshot of the counters.
func (c *ParsedFileCache) Stats() Stats {
	return Stats{
		Parses:   c.parses.Load(),
		Hits:     c.hits.Load(),
		Shared:   c.shared.Load(),
		Failures: c.failures.Load(),
	}
}

// DirectSource parses on every call. It serves callers that bypass the
// cache and must see the same documents it would produce.
type DirectSource struct {
	parser *parser.Parser
	cfg    config
}

// NewDirect creates a DirectSource reading through fsys.
func NewDirect(fsys vault.FS, opts ...Option) *DirectSource {
	return &DirectSource{
		parser: parser.New(fsys),
		cfg:    newConfig(opts),
	}
}

// Resolve parses path.
func (d *DirectSource) Resolve(ctx context.Context, path string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := Key(path)
	if err != nil {
		return nil, err
	}
	res, err := d.parser.ParseFile(key)
	if err != nil {
		return nil, &ParseError{Path: key, Err: err}
	}
	return document.New(res, d.cfg.docOpts...), nil
}
