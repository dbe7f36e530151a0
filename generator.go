package nli

import (
	"io"
	"log/slog"

	"github.com/opencontainers/go-digest"

	"github.com/caseforge/nli/edrm"
)

// Generator assembles an evidence container: it wraps an edrm.Builder in
// container mode, expands composite entries as they are added, and packages
// the load file plus all native bytes into a single zip archive.
//
// A Generator is single-threaded; one instance must not be used for
// simultaneous registration from multiple goroutines.
type Generator struct {
	builder *edrm.Builder
	cfg     config
	logger  *slog.Logger
	digest  digest.Digest
}

type config struct {
	custodian      string
	examiner       string
	caseNumber     string
	evidenceNumber string
	logger         *slog.Logger
}

// Option configures a Generator.
type Option func(*config)

// WithCustodian sets the custodian assigned to every entry's location.
func WithCustodian(name string) Option {
	return func(c *config) { c.custodian = name }
}

// WithExaminer sets the examiner name recorded in the container properties.
func WithExaminer(name string) Option {
	return func(c *config) { c.examiner = name }
}

// WithCaseNumber sets the case number recorded in the container properties.
func WithCaseNumber(number string) Option {
	return func(c *config) { c.caseNumber = number }
}

// WithEvidenceNumber sets the evidence number recorded in the container
// properties.
func WithEvidenceNumber(number string) Option {
	return func(c *config) { c.evidenceNumber = number }
}

// WithLogger sets the logger for registration, staging, and packaging
// progress. A nil logger discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New returns a Generator with an empty entry tree.
func New(opts ...Option) *Generator {
	cfg := config{
		custodian:      edrm.DefaultCustodian,
		examiner:       "Unknown",
		caseNumber:     "01",
		evidenceNumber: "01",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Generator{
		builder: edrm.NewBuilder(
			edrm.WithContainerPaths(true),
			edrm.WithCustodian(cfg.custodian),
			edrm.WithLogger(cfg.logger),
		),
		cfg:    cfg,
		logger: cfg.logger,
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (g *Generator) log() *slog.Logger {
	if g.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g.logger
}

// Builder exposes the underlying load-file builder for direct access to the
// registered tree.
func (g *Generator) Builder() *edrm.Builder { return g.builder }

// AddEntry registers an entry and returns its assigned id. Composite entries
// (CSV, JSON) are expanded: the composite registers itself and its generated
// children.
func (g *Generator) AddEntry(entry edrm.Entry) (string, error) {
	if composite, ok := entry.(edrm.Composite); ok {
		return composite.AddToBuilder(g.builder)
	}
	return g.builder.AddEntry(entry)
}

// AddFile registers a plain file entry. parentID may be "" for a top-level
// document.
func (g *Generator) AddFile(path, mimeType, parentID string) (string, error) {
	return g.builder.AddFile(path, mimeType, parentID)
}

// AddDirectory registers a folder entry. Nested folders are added one level
// at a time, each using its parent folder's id.
func (g *Generator) AddDirectory(nameOrPath, parentID string) (string, error) {
	return g.builder.AddDirectory(nameOrPath, parentID)
}

// AddMapping registers a key/value record entry.
func (g *Generator) AddMapping(data *edrm.Mapping, mimeType, parentID string) (string, error) {
	return g.builder.AddMapping(data, mimeType, parentID)
}

// Digest returns the SHA-256 of the container written by the last successful
// Save, or "" before one.
func (g *Generator) Digest() digest.Digest { return g.digest }
