package runtime

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
)

// Environment variables understood by the engine.
const (
	EnvBinaryPath = "PHOTON_QUERY_ENGINE_BINARY"
	EnvEndpoint   = "PHOTON_ENDPOINT"
)

// Datasource is a resolved datasource block of the schema.
type Datasource struct {
	Name     string `json:"name"`
	Provider string `json:"connectorType"`
	URL      string `json:"url"`
}

// EngineConfig configures a query engine.
type EngineConfig struct {
	Datamodel   string
	Datasources []Datasource
	// Cwd is the working directory of a local engine process.
	Cwd string
	// BinaryPath of the local engine executable.
	BinaryPath string
	// Endpoint of a remote engine.
	Endpoint     string
	Debug        bool
	StartTimeout time.Duration
	Logger       *zap.Logger
	HTTPClient   *http.Client
}

// Option configures an EngineConfig.
type Option func(*EngineConfig)

// WithBinaryPath sets the local engine executable.
func WithBinaryPath(path string) Option {
	return func(c *EngineConfig) { c.BinaryPath = path }
}

// WithEndpoint sets the remote engine endpoint.
func WithEndpoint(url string) Option {
	return func(c *EngineConfig) { c.Endpoint = url }
}

// WithDebug enables request logging.
func WithDebug(debug bool) Option {
	return func(c *EngineConfig) { c.Debug = debug }
}

// WithStartTimeout bounds how long Start waits for a local engine.
func WithStartTimeout(d time.Duration) Option {
	return func(c *EngineConfig) { c.StartTimeout = d }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *EngineConfig) { c.Logger = l }
}

// WithHTTPClient sets the client used to talk to the engine.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *EngineConfig) { c.HTTPClient = hc }
}

// NewEngineConfig returns the configuration of a generated client. Binary
// path and endpoint default to their environment variables.
func NewEngineConfig(datamodel string, datasources []Datasource, cwd string, opts ...Option) *EngineConfig {
	cfg := &EngineConfig{
		Datamodel:    datamodel,
		Datasources:  datasources,
		Cwd:          cwd,
		BinaryPath:   os.Getenv(EnvBinaryPath),
		Endpoint:     os.Getenv(EnvEndpoint),
		StartTimeout: 10 * time.Second,
		Logger:       zap.NewNop(),
		HTTPClient:   http.DefaultClient,
	}
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "query-engine"
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// environ returns the process environment of a local engine listening on
// port.
func (c *EngineConfig) environ(port int) ([]string, error) {
	sources, err := json.Marshal(c.Datasources)
	if err != nil {
		return nil, fmt.Errorf("runtime: encode datasources: %w", err)
	}
	return append(os.Environ(),
		"PORT="+strconv.Itoa(port),
		"PHOTON_DML="+base64.StdEncoding.EncodeToString([]byte(c.Datamodel)),
		"PHOTON_DATASOURCES="+string(sources),
	), nil
}

// Engine executes query documents.
type Engine interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Request(ctx context.Context, query string) ([]byte, error)
}

// LocalEngine runs the query engine as a child process.
type LocalEngine struct {
	cfg *EngineConfig

	mu  sync.Mutex
	cmd *exec.Cmd
	out *zapio.Writer
	url string
}

// NewEngine returns an engine that spawns cfg.BinaryPath on Start.
func NewEngine(cfg *EngineConfig) Engine {
	return &LocalEngine{cfg: cfg}
}

// Start spawns the engine and waits until it reports ready.
func (e *LocalEngine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd != nil {
		return nil
	}
	port, err := freePort()
	if err != nil {
		return fmt.Errorf("runtime: pick engine port: %w", err)
	}
	env, err := e.cfg.environ(port)
	if err != nil {
		return err
	}
	out := &zapio.Writer{Log: e.cfg.Logger.Named("engine"), Level: zap.DebugLevel}
	cmd := exec.Command(e.cfg.BinaryPath)
	cmd.Dir = e.cfg.Cwd
	cmd.Env = env
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("runtime: start engine %s: %w", e.cfg.BinaryPath, err)
	}
	url := "http://127.0.0.1:" + strconv.Itoa(port)
	if err := e.awaitReady(ctx, url); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		_ = out.Close()
		return err
	}
	e.cfg.Logger.Debug("engine started", zap.String("url", url), zap.Int("pid", cmd.Process.Pid))
	e.cmd, e.out, e.url = cmd, out, url
	return nil
}

func (e *LocalEngine) awaitReady(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.StartTimeout)
	defer cancel()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/status", nil)
		if err != nil {
			return err
		}
		if resp, err := e.cfg.HTTPClient.Do(req); err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("runtime: engine not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Stop terminates the engine process.
func (e *LocalEngine) Stop(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd == nil {
		return nil
	}
	cmd, out := e.cmd, e.out
	e.cmd, e.out, e.url = nil, nil, ""
	// Wait drains the output pipes, so the final partial line reaches out.
	defer out.Close()
	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("runtime: stop engine: %w", err)
	}
	_ = cmd.Wait()
	return nil
}

// Request implements Engine.
func (e *LocalEngine) Request(ctx context.Context, query string) ([]byte, error) {
	e.mu.Lock()
	url := e.url
	e.mu.Unlock()
	if url == "" {
		return nil, ErrNotConnected
	}
	return post(ctx, e.cfg, url, query)
}

// RemoteEngine sends documents to an engine reachable over HTTP, for
// clients that cannot spawn processes.
type RemoteEngine struct {
	cfg *EngineConfig
}

// NewRemoteEngine returns an engine talking to cfg.Endpoint.
func NewRemoteEngine(cfg *EngineConfig) Engine {
	return &RemoteEngine{cfg: cfg}
}

// Start implements Engine.
func (e *RemoteEngine) Start(context.Context) error {
	if e.cfg.Endpoint == "" {
		return fmt.Errorf("runtime: remote engine needs an endpoint (set %s)", EnvEndpoint)
	}
	return nil
}

// Stop implements Engine.
func (e *RemoteEngine) Stop(context.Context) error { return nil }

// Request implements Engine.
func (e *RemoteEngine) Request(ctx context.Context, query string) ([]byte, error) {
	if e.cfg.Endpoint == "" {
		return nil, ErrNotConnected
	}
	return post(ctx, e.cfg, e.cfg.Endpoint, query)
}

type requestBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func post(ctx context.Context, cfg *EngineConfig, url, query string) ([]byte, error) {
	body, err := json.Marshal(requestBody{Query: query, Variables: map[string]any{}})
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		cfg.Logger.Debug("engine request", zap.String("url", url), zap.String("query", query))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("runtime: engine request: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("runtime: read engine response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest && len(data) == 0 {
		return nil, fmt.Errorf("runtime: engine responded %s", resp.Status)
	}
	return data, nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
