package jsonguard

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/jsonguard/internal/compiler"
	"github.com/reoring/jsonguard/internal/dialect"
)

// Reader fetches the raw bytes of a schema document. It is the loader's only
// I/O dependency; location is always an absolute URI.
type Reader = compiler.Reader

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, location string) ([]byte, error)

func (f ReaderFunc) Read(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// FileReader reads file:// locations from the local file system.
func FileReader() Reader {
	return ReaderFunc(func(_ context.Context, location string) ([]byte, error) {
		p, ok := compiler.FilePath(location)
		if !ok {
			return nil, fmt.Errorf("unsupported location %s: %w", location, fs.ErrNotExist)
		}
		return os.ReadFile(p)
	})
}

// FSReader reads file:// locations from fsys. The URI path is taken relative
// to the root of fsys.
func FSReader(fsys fs.FS) Reader {
	return ReaderFunc(func(_ context.Context, location string) ([]byte, error) {
		p, ok := compiler.FilePath(location)
		if !ok {
			return nil, fmt.Errorf("unsupported location %s: %w", location, fs.ErrNotExist)
		}
		p = strings.TrimPrefix(strings.ReplaceAll(p, `\`, "/"), "/")
		return fs.ReadFile(fsys, p)
	})
}

// MapReader serves documents from memory. Keys may be absolute URIs or paths;
// they are normalised the same way as locations.
func MapReader(docs map[string][]byte) Reader {
	byURI := make(map[string][]byte, len(docs))
	for k, v := range docs {
		if uri, err := compiler.NormalizeLocation(k); err == nil {
			byURI[uri] = v
		}
	}
	return ReaderFunc(func(_ context.Context, location string) ([]byte, error) {
		if b, ok := docs[location]; ok {
			return b, nil
		}
		if b, ok := byURI[location]; ok {
			return b, nil
		}
		return nil, fmt.Errorf("%s: %w", location, fs.ErrNotExist)
	})
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	reader          Reader
	defaultDialect  string
	formatAssertion bool
	logger          *slog.Logger
}

// WithReader sets the Reader used for the root document and every document
// reached through $ref. The default is FileReader.
func WithReader(r Reader) LoadOption {
	return func(c *loadConfig) {
		if r != nil {
			c.reader = r
		}
	}
}

// WithDefaultDialect sets the dialect for root documents without $schema.
// id is a meta-schema URI or a short name such as "draft-07" or "2020-12".
func WithDefaultDialect(id string) LoadOption {
	return func(c *loadConfig) { c.defaultDialect = id }
}

// WithFormatAssertion makes "format" an assertion instead of an annotation.
func WithFormatAssertion(on bool) LoadOption {
	return func(c *loadConfig) { c.formatAssertion = on }
}

// WithLogger sets the logger for fetch and resolution debug records.
func WithLogger(l *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = l }
}

// Load reads the schema at location through the configured Reader, resolves
// every reference and compiles it.
func Load(ctx context.Context, location string, opts ...LoadOption) (*Schema, error) {
	return load(ctx, location, nil, opts)
}

// LoadBytes compiles an in-memory root document. location is its base URI for
// relative references; when empty a unique mem:// base is assigned.
func LoadBytes(ctx context.Context, data []byte, location string, opts ...LoadOption) (*Schema, error) {
	if location == "" {
		location = "mem://" + uuid.NewString() + "/schema.json"
	}
	if data == nil {
		data = []byte{}
	}
	return load(ctx, location, data, opts)
}

// LoadFile loads the schema stored at path on the local file system.
func LoadFile(path string, opts ...LoadOption) (*Schema, error) {
	return Load(context.Background(), path, opts...)
}

func load(ctx context.Context, location string, data []byte, opts []LoadOption) (*Schema, error) {
	cfg := loadConfig{reader: FileReader()}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	copts := compiler.Options{
		Reader:          cfg.reader,
		FormatAssertion: cfg.formatAssertion,
		ParseJSON:       parseSchemaJSON,
		Logger:          cfg.logger,
	}
	if cfg.defaultDialect != "" {
		d, err := dialect.Lookup(cfg.defaultDialect)
		if err != nil {
			return nil, fmt.Errorf("default dialect: %w", err)
		}
		copts.DefaultDialect = d
	}
	start := time.Now()
	c := compiler.New(copts)
	root, err := c.Compile(ctx, location, data)
	if err != nil {
		return nil, err
	}
	st := c.Stats()
	s := &Schema{
		root:      root,
		dialect:   c.Dialect(),
		location:  root.Location,
		documents: st.Documents,
		nodes:     st.Nodes,
		loadTime:  time.Since(start),
	}
	return s, nil
}
