package edrm

import "log/slog"

// DefaultCustodian is assigned to every entry's location when no custodian is
// configured. Custodians are meaningful only within the load file.
const DefaultCustodian = "Unknown"

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithCustodian sets the custodian name written to every entry's location.
func WithCustodian(name string) BuilderOption {
	return func(b *Builder) {
		b.custodian = name
	}
}

// WithContainerPaths makes file locations relative to the container root
// instead of absolute disk paths, and materializes mapping text as generated
// natives. Set when the load file is packaged into a container rather than
// used standalone.
func WithContainerPaths(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.containerPaths = enabled
	}
}

// WithLogger sets the logger for registration and serialization progress.
// A nil logger discards all output.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}
