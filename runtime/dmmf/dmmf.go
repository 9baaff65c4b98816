// Package dmmf defines the data model meta format: the structured,
// queryable form of a schema that generators and generated clients share.
package dmmf

// FieldKind classifies a model field.
type FieldKind string

// Field kinds.
const (
	ScalarKind FieldKind = "scalar"
	ObjectKind FieldKind = "object"
	EnumKind   FieldKind = "enum"
)

// DefaultKind classifies a field default.
type DefaultKind string

// Default kinds.
const (
	DefaultFunction DefaultKind = "function"
	DefaultString   DefaultKind = "string"
	DefaultNumber   DefaultKind = "number"
	DefaultBoolean  DefaultKind = "boolean"
	DefaultEnum     DefaultKind = "enum"
)

// Document is the root of the meta format.
type Document struct {
	Datamodel Datamodel `json:"datamodel" yaml:"datamodel"`
	Mappings  []Mapping `json:"mappings" yaml:"mappings"`
}

// Datamodel holds the models and enums of a schema, in declaration order.
type Datamodel struct {
	Models []Model `json:"models" yaml:"models"`
	Enums  []Enum  `json:"enums" yaml:"enums"`
}

// Model is a single model block.
type Model struct {
	Name          string     `json:"name" yaml:"name"`
	DBName        string     `json:"dbName,omitempty" yaml:"dbName,omitempty"`
	Fields        []Field    `json:"fields" yaml:"fields"`
	IDFields      []string   `json:"idFields,omitempty" yaml:"idFields,omitempty"`
	UniqueFields  [][]string `json:"uniqueFields,omitempty" yaml:"uniqueFields,omitempty"`
	Documentation string     `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// Field is a model field.
type Field struct {
	Name               string    `json:"name" yaml:"name"`
	DBName             string    `json:"dbName,omitempty" yaml:"dbName,omitempty"`
	Kind               FieldKind `json:"kind" yaml:"kind"`
	Type               string    `json:"type" yaml:"type"`
	IsList             bool      `json:"isList" yaml:"isList"`
	IsRequired         bool      `json:"isRequired" yaml:"isRequired"`
	IsID               bool      `json:"isId" yaml:"isId"`
	IsUnique           bool      `json:"isUnique" yaml:"isUnique"`
	IsUpdatedAt        bool      `json:"isUpdatedAt,omitempty" yaml:"isUpdatedAt,omitempty"`
	HasDefaultValue    bool      `json:"hasDefaultValue" yaml:"hasDefaultValue"`
	Default            *Default  `json:"default,omitempty" yaml:"default,omitempty"`
	RelationName       string    `json:"relationName,omitempty" yaml:"relationName,omitempty"`
	RelationFromFields []string  `json:"relationFromFields,omitempty" yaml:"relationFromFields,omitempty"`
	RelationToFields   []string  `json:"relationToFields,omitempty" yaml:"relationToFields,omitempty"`
	Documentation      string    `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// Default describes a field default. Function defaults carry their
// arguments verbatim, literal defaults carry the unquoted value.
type Default struct {
	Kind  DefaultKind `json:"kind" yaml:"kind"`
	Value string      `json:"value" yaml:"value"`
	Args  []string    `json:"args,omitempty" yaml:"args,omitempty"`
}

// Enum is an enum block.
type Enum struct {
	Name          string      `json:"name" yaml:"name"`
	DBName        string      `json:"dbName,omitempty" yaml:"dbName,omitempty"`
	Values        []EnumValue `json:"values" yaml:"values"`
	Documentation string      `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// EnumValue is a single enum member.
type EnumValue struct {
	Name   string `json:"name" yaml:"name"`
	DBName string `json:"dbName,omitempty" yaml:"dbName,omitempty"`
}

// Mapping names the engine actions of a model.
type Mapping struct {
	Model    string `json:"model" yaml:"model"`
	Plural   string `json:"plural" yaml:"plural"`
	FindOne  string `json:"findOne" yaml:"findOne"`
	FindMany string `json:"findMany" yaml:"findMany"`
	Create   string `json:"create" yaml:"create"`
	Update   string `json:"update" yaml:"update"`
	Delete   string `json:"delete" yaml:"delete"`
	Count    string `json:"count" yaml:"count"`
}

// IsRelation reports whether the field points at another model.
func (f Field) IsRelation() bool {
	return f.Kind == ObjectKind
}

// Field returns the named field of the model.
func (m *Model) Field(name string) (*Field, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// ScalarFields returns the scalar and enum fields of the model, in order.
func (m *Model) ScalarFields() []Field {
	fields := make([]Field, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Kind != ObjectKind {
			fields = append(fields, f)
		}
	}
	return fields
}
