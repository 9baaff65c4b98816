//go:build ignore

// Package runtime declares the client runtime API that generated clients
// are compiled against.
package runtime

import (
	"context"
	"time"
)

type Datasource struct {
	Name     string
	Provider string
	URL      string
}

type EngineConfig struct {
	Datamodel    string
	Datasources  []Datasource
	Cwd          string
	BinaryPath   string
	Endpoint     string
	Debug        bool
	StartTimeout time.Duration
}

type Option func(*EngineConfig)

func WithBinaryPath(path string) Option
func WithEndpoint(url string) Option
func WithDebug(debug bool) Option
func WithStartTimeout(d time.Duration) Option

func NewEngineConfig(datamodel string, datasources []Datasource, cwd string, opts ...Option) *EngineConfig

type Engine interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Request(ctx context.Context, query string) ([]byte, error)
}

func NewEngine(cfg *EngineConfig) Engine
func NewRemoteEngine(cfg *EngineConfig) Engine

type Args map[string]any

type DMMFClass struct {
	_ [0]func()
}

func MustParseDMMF(raw string) *DMMFClass

func MakeDocument(class *DMMFClass, action string, args Args, selection []string) (string, error)

func Execute(ctx context.Context, engine Engine, document, action string, out any) error

type RequestError struct {
	Action  string
	Message string
}

func (e *RequestError) Error() string
