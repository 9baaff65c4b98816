package load

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/syssam/photon/runtime/dmmf"
)

// Block kinds of a schema file.
const (
	KindDatasource = "datasource"
	KindGenerator  = "generator"
	KindModel      = "model"
	KindEnum       = "enum"
)

// Scalar types of the schema language.
var Scalars = []string{"String", "Boolean", "Int", "BigInt", "Float", "Decimal", "DateTime", "Json", "Bytes"}

var (
	headerRe   = regexp.MustCompile(`^(\w+)\s+(\w+)\s*\{$`)
	propertyRe = regexp.MustCompile(`^(\w+)\s*=\s*(.+)$`)
	fieldRe    = regexp.MustCompile(`^(\w+)\s+(\w+)(\[\]|\?)?(?:\s+(.*))?$`)
	enumRe     = regexp.MustCompile(`^(\w+)(?:\s+(.*))?$`)
	envRe      = regexp.MustCompile(`^env\(\s*("(?:[^"\\]|\\.)*")\s*\)$`)
)

// File is a parsed schema file.
type File struct {
	Datasources []*Block
	Generators  []*Block
	Document    dmmf.Document
}

// Block is a datasource or generator block.
type Block struct {
	Kind       string
	Name       string
	Line       int
	Properties []*Property
}

// Property is a "key = value" assignment of a block.
type Property struct {
	Key   string
	Value Value
	Line  int
}

// Property returns the named property.
func (b *Block) Property(key string) (*Property, bool) {
	for _, p := range b.Properties {
		if p.Key == key {
			return p, true
		}
	}
	return nil, false
}

// Value is the raw expression on the right hand side of a property.
type Value string

// Literal returns the value of a string literal.
func (v Value) Literal() (string, bool) {
	if !strings.HasPrefix(string(v), `"`) {
		return "", false
	}
	s, err := strconv.Unquote(string(v))
	return s, err == nil
}

// Env returns the variable name of an env("NAME") expression.
func (v Value) Env() (string, bool) {
	m := envRe.FindStringSubmatch(string(v))
	if m == nil {
		return "", false
	}
	s, err := strconv.Unquote(m[1])
	return s, err == nil
}

// List returns the elements of a list expression.
func (v Value) List() ([]string, bool) {
	l, err := listValue(string(v))
	return l, err == nil
}

// Parse parses schema text. The returned document has its field kinds
// resolved and its action mappings filled in.
func Parse(datamodel string) (*File, error) {
	p := &parser{
		file:  &File{},
		lines: make(map[string]int),
	}
	if err := p.parse(datamodel); err != nil {
		return nil, err
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	p.file.Document.Mappings = BuildMappings(p.file.Document.Datamodel.Models)
	return p.file, nil
}

type parser struct {
	file *File
	// lines records the declaration line of "Model" and "Model.field".
	lines map[string]int

	kind  string
	line  int
	start int
	name  string
	block *Block
	model *dmmf.Model
	enum  *dmmf.Enum
	doc   []string
}

func (p *parser) parse(text string) error {
	for i, raw := range strings.Split(text, "\n") {
		p.line = i + 1
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "///") {
			p.doc = append(p.doc, strings.TrimSpace(trimmed[3:]))
			continue
		}
		code := stripComment(trimmed)
		if code == "" {
			if trimmed == "" {
				p.doc = nil
			}
			continue
		}
		var err error
		switch {
		case p.kind == "":
			err = p.open(code)
		case code == "}":
			err = p.close()
		case p.kind == KindModel:
			err = p.modelLine(code)
		case p.kind == KindEnum:
			err = p.enumLine(code)
		default:
			err = p.propertyLine(code)
		}
		if err != nil {
			return err
		}
	}
	if p.kind != "" {
		return errorf(p.start, p.name, fmt.Sprintf("%s block is not closed", p.kind))
	}
	return nil
}

func (p *parser) takeDoc() string {
	doc := strings.Join(p.doc, "\n")
	p.doc = nil
	return doc
}

func (p *parser) open(code string) error {
	m := headerRe.FindStringSubmatch(code)
	if m == nil {
		return errorf(p.line, "", fmt.Sprintf("expected a block declaration, got %q", code))
	}
	kind, name := m[1], m[2]
	switch kind {
	case KindDatasource, KindGenerator:
		p.block = &Block{Kind: kind, Name: name, Line: p.line}
		p.doc = nil
	case KindModel, KindEnum:
		if _, dup := p.lines[name]; dup {
			return errorf(p.line, name, fmt.Sprintf("%s %s is already defined", kind, name))
		}
		p.lines[name] = p.line
		if kind == KindModel {
			p.model = &dmmf.Model{Name: name, Documentation: p.takeDoc()}
		} else {
			p.enum = &dmmf.Enum{Name: name, Documentation: p.takeDoc()}
		}
	default:
		return errorf(p.line, name, fmt.Sprintf("unknown block type %q", kind))
	}
	p.kind, p.name, p.start = kind, name, p.line
	return nil
}

func (p *parser) close() error {
	doc := &p.file.Document.Datamodel
	switch p.kind {
	case KindDatasource:
		p.file.Datasources = append(p.file.Datasources, p.block)
	case KindGenerator:
		p.file.Generators = append(p.file.Generators, p.block)
	case KindModel:
		if len(p.model.IDFields) == 0 {
			for _, f := range p.model.Fields {
				if f.IsID {
					p.model.IDFields = append(p.model.IDFields, f.Name)
				}
			}
		}
		doc.Models = append(doc.Models, *p.model)
	case KindEnum:
		if len(p.enum.Values) == 0 {
			return errorf(p.line, p.name, "enum has no values")
		}
		doc.Enums = append(doc.Enums, *p.enum)
	}
	p.kind, p.name, p.block, p.model, p.enum, p.doc = "", "", nil, nil, nil, nil
	return nil
}

func (p *parser) propertyLine(code string) error {
	m := propertyRe.FindStringSubmatch(code)
	if m == nil {
		return errorf(p.line, p.name, fmt.Sprintf("expected key = value, got %q", code))
	}
	if _, dup := p.block.Property(m[1]); dup {
		return errorf(p.line, p.name, fmt.Sprintf("property %s is set twice", m[1]))
	}
	p.block.Properties = append(p.block.Properties, &Property{Key: m[1], Value: Value(strings.TrimSpace(m[2])), Line: p.line})
	return nil
}

func (p *parser) modelLine(code string) error {
	if strings.HasPrefix(code, "@@") {
		return p.modelAttributes(code)
	}
	m := fieldRe.FindStringSubmatch(code)
	if m == nil {
		return errorf(p.line, p.name, fmt.Sprintf("invalid field declaration %q", code))
	}
	key := p.name + "." + m[1]
	if _, dup := p.lines[key]; dup {
		return errorf(p.line, p.name, fmt.Sprintf("field %s is already defined", m[1]))
	}
	p.lines[key] = p.line
	f := dmmf.Field{
		Name:          m[1],
		Type:          m[2],
		IsList:        m[3] == "[]",
		IsRequired:    m[3] != "?",
		Documentation: p.takeDoc(),
	}
	attrs, err := parseAttributes(m[4])
	if err != nil {
		return &LoadError{Line: p.line, Block: p.name, Message: "field " + f.Name, Cause: err}
	}
	for _, a := range attrs {
		if err := applyFieldAttribute(&f, a); err != nil {
			return &LoadError{Line: p.line, Block: p.name, Message: "field " + f.Name, Cause: err}
		}
	}
	p.model.Fields = append(p.model.Fields, f)
	return nil
}

func applyFieldAttribute(f *dmmf.Field, a attribute) error {
	switch a.Name {
	case "@id":
		f.IsID = true
	case "@unique":
		f.IsUnique = true
	case "@updatedAt":
		f.IsUpdatedAt = true
	case "@default":
		raw, ok := a.arg("value", 0)
		if !ok {
			return fmt.Errorf("@default needs a value")
		}
		def, err := parseDefault(raw)
		if err != nil {
			return err
		}
		f.Default, f.HasDefaultValue = def, true
	case "@map":
		raw, ok := a.arg("name", 0)
		if !ok {
			return fmt.Errorf("@map needs a name")
		}
		name, err := unquote(raw)
		if err != nil {
			return err
		}
		f.DBName = name
	case "@relation":
		if raw, ok := a.arg("name", 0); ok {
			name, err := unquote(raw)
			if err != nil {
				return err
			}
			f.RelationName = name
		}
		if raw, ok := a.arg("fields", -1); ok {
			fields, err := listValue(raw)
			if err != nil {
				return err
			}
			f.RelationFromFields = fields
		}
		if raw, ok := a.arg("references", -1); ok {
			refs, err := listValue(raw)
			if err != nil {
				return err
			}
			f.RelationToFields = refs
		}
	default:
		// Native type and other connector attributes (@db.*) do not affect
		// the client.
		if !strings.HasPrefix(a.Name, "@db.") {
			return fmt.Errorf("unknown attribute %s", a.Name)
		}
	}
	return nil
}

func (p *parser) modelAttributes(code string) error {
	attrs, err := parseAttributes(code)
	if err != nil {
		return &LoadError{Line: p.line, Block: p.name, Cause: err}
	}
	for _, a := range attrs {
		switch a.Name {
		case "@@map":
			raw, ok := a.arg("name", 0)
			if !ok {
				return errorf(p.line, p.name, "@@map needs a name")
			}
			if p.model.DBName, err = unquote(raw); err != nil {
				return &LoadError{Line: p.line, Block: p.name, Cause: err}
			}
		case "@@id", "@@unique", "@@index":
			raw, ok := a.arg("fields", 0)
			if !ok {
				return errorf(p.line, p.name, a.Name+" needs a field list")
			}
			fields, err := listValue(raw)
			if err != nil {
				return &LoadError{Line: p.line, Block: p.name, Cause: err}
			}
			switch a.Name {
			case "@@id":
				p.model.IDFields = fields
			case "@@unique":
				p.model.UniqueFields = append(p.model.UniqueFields, fields)
			}
		default:
			return errorf(p.line, p.name, fmt.Sprintf("unknown attribute %s", a.Name))
		}
	}
	return nil
}

func (p *parser) enumLine(code string) error {
	if strings.HasPrefix(code, "@@") {
		attrs, err := parseAttributes(code)
		if err != nil {
			return &LoadError{Line: p.line, Block: p.name, Cause: err}
		}
		for _, a := range attrs {
			raw, ok := a.arg("name", 0)
			if a.Name != "@@map" || !ok {
				return errorf(p.line, p.name, fmt.Sprintf("unsupported enum attribute %s", a.Name))
			}
			if p.enum.DBName, err = unquote(raw); err != nil {
				return &LoadError{Line: p.line, Block: p.name, Cause: err}
			}
		}
		return nil
	}
	m := enumRe.FindStringSubmatch(code)
	if m == nil {
		return errorf(p.line, p.name, fmt.Sprintf("invalid enum value %q", code))
	}
	v := dmmf.EnumValue{Name: m[1]}
	attrs, err := parseAttributes(m[2])
	if err != nil {
		return &LoadError{Line: p.line, Block: p.name, Cause: err}
	}
	for _, a := range attrs {
		raw, ok := a.arg("name", 0)
		if a.Name != "@map" || !ok {
			return errorf(p.line, p.name, fmt.Sprintf("unsupported enum value attribute %s", a.Name))
		}
		if v.DBName, err = unquote(raw); err != nil {
			return &LoadError{Line: p.line, Block: p.name, Cause: err}
		}
	}
	p.enum.Values = append(p.enum.Values, v)
	p.doc = nil
	return nil
}

// resolve classifies every field type and checks cross references.
func (p *parser) resolve() error {
	dm := &p.file.Document.Datamodel
	models := make(map[string]*dmmf.Model, len(dm.Models))
	for i := range dm.Models {
		models[dm.Models[i].Name] = &dm.Models[i]
	}
	enums := make(map[string]bool, len(dm.Enums))
	for _, e := range dm.Enums {
		enums[e.Name] = true
	}
	scalars := make(map[string]bool, len(Scalars))
	for _, s := range Scalars {
		scalars[s] = true
	}
	for i := range dm.Models {
		m := &dm.Models[i]
		for j := range m.Fields {
			f := &m.Fields[j]
			line := p.lines[m.Name+"."+f.Name]
			switch {
			case scalars[f.Type]:
				f.Kind = dmmf.ScalarKind
			case enums[f.Type]:
				f.Kind = dmmf.EnumKind
			case models[f.Type] != nil:
				f.Kind = dmmf.ObjectKind
				if f.RelationName == "" {
					pair := []string{m.Name, f.Type}
					sort.Strings(pair)
					f.RelationName = pair[0] + "To" + pair[1]
				}
				for _, name := range f.RelationFromFields {
					if _, ok := m.Field(name); !ok {
						return errorf(line, m.Name, fmt.Sprintf("relation %s references unknown field %s", f.Name, name))
					}
				}
				for _, name := range f.RelationToFields {
					if _, ok := models[f.Type].Field(name); !ok {
						return errorf(line, m.Name, fmt.Sprintf("relation %s references unknown field %s.%s", f.Name, f.Type, name))
					}
				}
			default:
				return errorf(line, m.Name, fmt.Sprintf("field %s has unknown type %s", f.Name, f.Type))
			}
			if f.Kind != dmmf.ScalarKind && f.IsUpdatedAt {
				return errorf(line, m.Name, fmt.Sprintf("@updatedAt on non scalar field %s", f.Name))
			}
		}
		for _, name := range m.IDFields {
			if _, ok := m.Field(name); !ok {
				return errorf(p.lines[m.Name], m.Name, fmt.Sprintf("id references unknown field %s", name))
			}
		}
	}
	return nil
}
