package gen

import (
	"errors"
	"go/token"
	"maps"
	"slices"

	"github.com/syssam/photon/compiler/load"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by photon. DO NOT EDIT."

// DefaultPackage is the package name of generated clients.
const DefaultPackage = "photon"

// GoType is a named Go type, optionally from another package.
type GoType struct {
	PkgPath string
	Name    string
}

// Config holds the emitter configuration.
type Config struct {
	// Header is the comment placed above the package clause.
	Header string
	// Package is the package name of the generated client.
	Package string
	// Scalars overrides the Go type of schema scalar types.
	Scalars map[string]GoType
}

// Option configures code generation.
type Option func(*Config) error

// NewConfig returns the default configuration with opts applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Package: DefaultPackage,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the package name of the generated client.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if !token.IsIdentifier(pkg) {
			return NewConfigError("Package", pkg, "package must be a Go identifier")
		}
		c.Package = pkg
		return nil
	}
}

// WithScalarType maps a schema scalar type to a Go type. An empty pkgPath
// names a predeclared or local type.
func WithScalarType(scalar, pkgPath, name string) Option {
	return func(c *Config) error {
		if !slices.Contains(load.Scalars, scalar) {
			return NewConfigError("ScalarType", scalar, "unknown scalar type")
		}
		if name == "" {
			return NewConfigError("ScalarType", scalar, "type name cannot be empty")
		}
		if c.Scalars == nil {
			c.Scalars = make(map[string]GoType)
		}
		c.Scalars[scalar] = GoType{PkgPath: pkgPath, Name: name}
		return nil
	}
}

// WithScalarTypes merges a set of scalar type overrides.
func WithScalarTypes(types map[string]GoType) Option {
	return func(c *Config) error {
		for scalar := range types {
			if !slices.Contains(load.Scalars, scalar) {
				return NewConfigError("ScalarType", scalar, "unknown scalar type")
			}
		}
		if c.Scalars == nil {
			c.Scalars = make(map[string]GoType)
		}
		maps.Copy(c.Scalars, types)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
