package load

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"os/exec"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/syssam/photon/internal/logger"
	"github.com/syssam/photon/runtime/dmmf"
)

// Service is the schema metadata service. It parses schema text with the
// built-in parser, or delegates to a metadata engine binary when one is
// given.
type Service struct {
	log *zap.SugaredLogger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService returns a metadata service.
func NewService(opts ...Option) *Service {
	s := &Service{log: logger.Named("load")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDMMF returns the schema document of datamodel. With a non-empty
// binaryPath the engine is run as "<binaryPath> --dmmf" with the schema in
// PHOTON_DML and its JSON output is decoded.
func (s *Service) GetDMMF(ctx context.Context, datamodel, binaryPath string) (*dmmf.Document, error) {
	if binaryPath != "" {
		return s.engineDMMF(ctx, datamodel, binaryPath)
	}
	f, err := Parse(datamodel)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("schema parsed",
		"models", len(f.Document.Datamodel.Models),
		"enums", len(f.Document.Datamodel.Enums))
	return &f.Document, nil
}

func (s *Service) engineDMMF(ctx context.Context, datamodel, binaryPath string) (*dmmf.Document, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binaryPath, "--dmmf")
	cmd.Env = append(os.Environ(), "PHOTON_DML="+base64.StdEncoding.EncodeToString([]byte(datamodel)))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	s.log.Debugw("running metadata engine", logger.FieldBinary, binaryPath)
	if err := cmd.Run(); err != nil {
		return nil, &EngineError{Binary: binaryPath, Stderr: stderr.String(), Cause: err}
	}
	var doc dmmf.Document
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		return nil, &LoadError{Message: "decode metadata engine output", Cause: err}
	}
	if len(doc.Mappings) == 0 {
		doc.Mappings = BuildMappings(doc.Datamodel.Models)
	}
	return &doc, nil
}
