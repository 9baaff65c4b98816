package gen

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dave/jennifer/jen"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/syssam/photon/compiler/project"
	"github.com/syssam/photon/internal/logger"
	"github.com/syssam/photon/runtime/dmmf"
)

// Input is everything the emitter needs to render one client.
type Input struct {
	Document *dmmf.Document
	// Cwd is the project directory the client's engine runs in.
	Cwd string
	// Datamodel is the bare schema embedded in the client.
	Datamodel string
	// RuntimePath is the import path of the client runtime.
	RuntimePath string
	// Browser selects the remote engine.
	Browser     bool
	Datasources []project.Datasource
}

// Generator is the client source emitter.
type Generator struct {
	cfg *Config
	log *zap.SugaredLogger
}

// NewGenerator returns an emitter configured by opts.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, log: logger.Named("gen")}, nil
}

// Config returns the emitter configuration.
func (g *Generator) Config() *Config {
	return g.cfg
}

// Emit renders the client source for in.
func (g *Generator) Emit(_ context.Context, in Input) (string, error) {
	if in.Document == nil {
		return "", NewConfigError("Document", nil, "document cannot be nil")
	}
	if in.RuntimePath == "" {
		return "", NewConfigError("RuntimePath", nil, "runtime import path cannot be empty")
	}
	e := &emitter{
		cfg:   g.cfg,
		in:    in,
		class: dmmf.NewClass(*in.Document),
		file:  jen.NewFile(g.cfg.Package),
	}
	if g.cfg.Header != "" {
		e.file.HeaderComment(g.cfg.Header)
	}
	e.file.ImportAlias(in.RuntimePath, "runtime")
	if err := e.validate(); err != nil {
		return "", err
	}
	for _, step := range []struct {
		phase string
		run   func() error
	}{
		{"constants", e.constants},
		{"enums", e.enums},
		{"models", e.models},
		{"client", e.client},
	} {
		if err := step.run(); err != nil {
			if IsSchemaError(err) {
				return "", err
			}
			return "", NewGenerationError(step.phase, "", err)
		}
	}
	var buf bytes.Buffer
	if err := e.file.Render(&buf); err != nil {
		return "", NewGenerationError("render", "format client source", err)
	}
	g.log.Debugw("client emitted",
		logger.FieldSize, buf.Len(),
		"models", len(in.Document.Datamodel.Models))
	return buf.String(), nil
}

// reserved are identifiers the client declares itself.
var reserved = map[string]bool{
	"Client":    true,
	"NewClient": true,
	"Datamodel": true,
}

// emitter renders one client file.
type emitter struct {
	cfg   *Config
	in    Input
	class *dmmf.Class
	file  *jen.File
}

func (e *emitter) rt(name string) *jen.Statement {
	return jen.Qual(e.in.RuntimePath, name)
}

func (e *emitter) validate() error {
	seen := make(map[string]string)
	claim := func(owner, name string) error {
		if reserved[name] {
			return NewSchemaError(owner, "", fmt.Sprintf("generated name %s is reserved", name), nil)
		}
		if prev, ok := seen[name]; ok {
			return NewSchemaError(owner, "", fmt.Sprintf("generated name %s collides with %s", name, prev), nil)
		}
		seen[name] = owner
		return nil
	}
	for _, en := range e.in.Document.Datamodel.Enums {
		if err := claim(en.Name, pascal(en.Name)); err != nil {
			return err
		}
		for _, v := range en.Values {
			if err := claim(en.Name, enumConst(en.Name, v.Name)); err != nil {
				return err
			}
		}
	}
	for _, m := range e.in.Document.Datamodel.Models {
		if _, ok := e.class.Mapping(m.Name); !ok {
			return NewSchemaError(m.Name, "", "model has no action mapping", nil)
		}
		name := pascal(m.Name)
		for _, n := range []string{name, name + "WhereUniqueInput", name + "WhereInput", name + "CreateInput", name + "UpdateInput", "FindMany" + name + "Args", name + "Delegate"} {
			if err := claim(m.Name, n); err != nil {
				return err
			}
		}
		fields := make(map[string]string)
		for _, f := range m.Fields {
			goName := pascal(f.Name)
			if goName == "" {
				return NewSchemaError(m.Name, f.Name, "field name has no Go identifier", nil)
			}
			if prev, ok := fields[goName]; ok {
				return NewSchemaError(m.Name, f.Name, fmt.Sprintf("Go field %s collides with %s", goName, prev), nil)
			}
			fields[goName] = f.Name
		}
	}
	return nil
}

// constants emits the embedded schema, document and datasources.
func (e *emitter) constants() error {
	raw, err := json.Marshal(e.in.Document)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	e.file.Comment("Datamodel is the schema this client was generated from.")
	e.file.Const().Id("Datamodel").Op("=").Lit(e.in.Datamodel)
	e.file.Line()
	e.file.Const().Defs(
		jen.Id("dmmfJSON").Op("=").Lit(string(raw)),
		jen.Id("engineCwd").Op("=").Lit(e.in.Cwd),
	)
	e.file.Line()
	if len(e.in.Datasources) == 0 {
		e.file.Var().Id("datasources").Index().Add(e.rt("Datasource"))
		return nil
	}
	e.file.Var().Id("datasources").Op("=").Index().Add(e.rt("Datasource")).ValuesFunc(func(g *jen.Group) {
		for _, ds := range e.in.Datasources {
			g.Values(jen.Dict{
				jen.Id("Name"):     jen.Lit(ds.Name),
				jen.Id("Provider"): jen.Lit(ds.Provider),
				jen.Id("URL"):      jen.Lit(ds.URL),
			})
		}
	})
	return nil
}

// enums emits a string type and constants per enum.
func (e *emitter) enums() error {
	for _, en := range e.in.Document.Datamodel.Enums {
		name := pascal(en.Name)
		e.file.Comment(docOr(en.Documentation, fmt.Sprintf("%s is the %s enum of the schema.", name, en.Name)))
		e.file.Type().Id(name).String()
		e.file.Const().DefsFunc(func(g *jen.Group) {
			for _, v := range en.Values {
				g.Id(enumConst(en.Name, v.Name)).Id(name).Op("=").Lit(v.Name)
			}
		})
		e.file.Line()
	}
	return nil
}
