// Package project resolves the datasource and generator configuration of a
// schema and prints schemas back to text.
package project

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/syssam/photon/compiler/load"
	"github.com/syssam/photon/internal/logger"
)

// Connector kinds.
const (
	ProviderPostgres  = "postgresql"
	ProviderMySQL     = "mysql"
	ProviderSQLite    = "sqlite"
	ProviderSQLServer = "sqlserver"
	ProviderMongoDB   = "mongodb"
)

// Config is the resolved project configuration.
type Config struct {
	Datasources []Datasource `json:"datasources" yaml:"datasources"`
	Generators  []Generator  `json:"generators" yaml:"generators"`
}

// Datasource is a resolved datasource block.
type Datasource struct {
	Name     string `json:"name" yaml:"name"`
	Provider string `json:"provider" yaml:"provider"`
	// URL is the location as the engine receives it.
	URL string `json:"url" yaml:"url"`
	// DSN is the driver form of URL.
	DSN string `json:"-" yaml:"-"`
	// FromEnv names the variable the URL was read from.
	FromEnv string `json:"fromEnv,omitempty" yaml:"fromEnv,omitempty"`
}

// Generator is a resolved generator block.
type Generator struct {
	Name          string            `json:"name" yaml:"name"`
	Provider      string            `json:"provider" yaml:"provider"`
	Output        string            `json:"output,omitempty" yaml:"output,omitempty"`
	BinaryTargets []string          `json:"binaryTargets,omitempty" yaml:"binaryTargets,omitempty"`
	Config        map[string]string `json:"config,omitempty" yaml:"config,omitempty"`
}

// Datasource returns the named datasource.
func (c *Config) Datasource(name string) (*Datasource, bool) {
	for i := range c.Datasources {
		if c.Datasources[i].Name == name {
			return &c.Datasources[i], true
		}
	}
	return nil, false
}

// Engine is the project configuration engine.
type Engine struct {
	fs        afero.Fs
	lookupEnv func(string) (string, bool)
	log       *zap.SugaredLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFs sets the file system the .env file is read from.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) { e.fs = fs }
}

// WithLookupEnv sets the process environment lookup.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(e *Engine) { e.lookupEnv = fn }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns a configuration engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		fs:        afero.NewOsFs(),
		lookupEnv: os.LookupEnv,
		log:       logger.Named("project"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetConfig resolves the datasource and generator blocks of datamodel.
// env("NAME") references are looked up in the process environment, then in
// a .env file in cwd. A schema without datasources resolves to an empty
// list.
func (e *Engine) GetConfig(_ context.Context, datamodel, cwd string) (*Config, error) {
	f, err := load.Parse(datamodel)
	if err != nil {
		return nil, err
	}
	env := e.environment(cwd)
	cfg := &Config{
		Datasources: make([]Datasource, 0, len(f.Datasources)),
		Generators:  make([]Generator, 0, len(f.Generators)),
	}
	for _, b := range f.Datasources {
		ds, err := resolveDatasource(b, cwd, env)
		if err != nil {
			return nil, err
		}
		cfg.Datasources = append(cfg.Datasources, *ds)
	}
	for _, b := range f.Generators {
		g, err := resolveGenerator(b, cwd, env)
		if err != nil {
			return nil, err
		}
		cfg.Generators = append(cfg.Generators, *g)
	}
	e.log.Debugw("config resolved",
		"datasources", len(cfg.Datasources),
		"generators", len(cfg.Generators))
	return cfg, nil
}

// environment returns the variable lookup for a project directory.
func (e *Engine) environment(cwd string) func(string) (string, bool) {
	dotenv := viper.New()
	dotenv.SetFs(e.fs)
	dotenv.SetConfigFile(filepath.Join(cwd, ".env"))
	dotenv.SetConfigType("env")
	if ok, _ := afero.Exists(e.fs, filepath.Join(cwd, ".env")); ok {
		if err := dotenv.ReadInConfig(); err != nil {
			e.log.Warnw("ignoring unreadable .env", logger.FieldPath, filepath.Join(cwd, ".env"), logger.FieldError, err)
		}
	}
	return func(name string) (string, bool) {
		if v, ok := e.lookupEnv(name); ok {
			return v, true
		}
		if dotenv.IsSet(name) {
			return dotenv.GetString(name), true
		}
		return "", false
	}
}

// stringProperty evaluates a literal or env("NAME") property.
func stringProperty(b *load.Block, key string, env func(string) (string, bool)) (value, fromEnv string, err error) {
	p, ok := b.Property(key)
	if !ok {
		return "", "", &ResolutionError{Block: b.Name, Property: key, Message: "is required"}
	}
	if s, ok := p.Value.Literal(); ok {
		return s, "", nil
	}
	if name, ok := p.Value.Env(); ok {
		v, ok := env(name)
		if !ok {
			return "", name, &ResolutionError{Block: b.Name, Property: key, Message: fmt.Sprintf("environment variable %s not found", name)}
		}
		return v, name, nil
	}
	return "", "", &ResolutionError{Block: b.Name, Property: key, Message: fmt.Sprintf("expected a string or env(), got %s", p.Value)}
}

func resolveDatasource(b *load.Block, cwd string, env func(string) (string, bool)) (*Datasource, error) {
	provider, _, err := stringProperty(b, "provider", env)
	if err != nil {
		return nil, err
	}
	location, fromEnv, err := stringProperty(b, "url", env)
	if err != nil {
		return nil, err
	}
	ds := &Datasource{Name: b.Name, Provider: provider, URL: location, FromEnv: fromEnv}
	switch provider {
	case ProviderPostgres, "postgres":
		ds.Provider = ProviderPostgres
		if ds.DSN, err = pq.ParseURL(location); err != nil {
			return nil, &ResolutionError{Block: b.Name, Property: "url", Message: "invalid postgresql url", Cause: err}
		}
	case ProviderMySQL:
		if ds.DSN, err = mysqlDSN(location); err != nil {
			return nil, &ResolutionError{Block: b.Name, Property: "url", Message: "invalid mysql url", Cause: err}
		}
	case ProviderSQLite:
		file, ok := strings.CutPrefix(location, "file:")
		if !ok {
			return nil, &ResolutionError{Block: b.Name, Property: "url", Message: "sqlite url must start with file:"}
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(cwd, file)
		}
		ds.URL = "file:" + filepath.ToSlash(file)
		ds.DSN = ds.URL
	case ProviderSQLServer, ProviderMongoDB:
		ds.DSN = location
	default:
		return nil, &ResolutionError{Block: b.Name, Property: "provider", Message: fmt.Sprintf("unsupported provider %q", provider)}
	}
	return ds, nil
}

func mysqlDSN(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	if u.Scheme != "mysql" {
		return "", fmt.Errorf("unexpected scheme %q", u.Scheme)
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Hostname() + ":3306"
	}
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

func resolveGenerator(b *load.Block, cwd string, env func(string) (string, bool)) (*Generator, error) {
	provider, _, err := stringProperty(b, "provider", env)
	if err != nil {
		return nil, err
	}
	g := &Generator{Name: b.Name, Provider: provider}
	for _, p := range b.Properties {
		switch p.Key {
		case "provider":
		case "output":
			out, _, err := stringProperty(b, "output", env)
			if err != nil {
				return nil, err
			}
			if !filepath.IsAbs(out) {
				out = filepath.Join(cwd, out)
			}
			g.Output = out
		case "binaryTargets":
			targets, ok := p.Value.List()
			if !ok {
				return nil, &ResolutionError{Block: b.Name, Property: p.Key, Message: "expected a list"}
			}
			g.BinaryTargets = targets
		default:
			v, ok := p.Value.Literal()
			if !ok {
				v = string(p.Value)
			}
			if g.Config == nil {
				g.Config = make(map[string]string)
			}
			g.Config[p.Key] = v
		}
	}
	return g, nil
}
