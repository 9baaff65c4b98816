package gen

import (
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/photon/runtime/dmmf"
)

var rules = inflect.NewDefaultRuleset()

// initialisms are rendered in upper case when they form a word.
var initialisms = map[string]string{
	"Id":   "ID",
	"Url":  "URL",
	"Uri":  "URI",
	"Uuid": "UUID",
	"Api":  "API",
	"Http": "HTTP",
	"Ip":   "IP",
	"Json": "JSON",
	"Sql":  "SQL",
}

// pascal returns the exported Go identifier of a schema name:
// "created_at" -> "CreatedAt", "authorId" -> "AuthorID".
func pascal(name string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' }) {
		for _, word := range camelWords(title.String(part)) {
			if up, ok := initialisms[word]; ok {
				word = up
			}
			b.WriteString(word)
		}
	}
	return b.String()
}

// camelWords splits "AuthorId" into "Author", "Id".
func camelWords(s string) []string {
	var (
		words []string
		start int
	)
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

// enumConst returns the constant name of an enum value: Role + "ADMIN" ->
// "RoleAdmin".
func enumConst(enum, value string) string {
	return pascal(enum) + pascal(strings.ToLower(value))
}

// plural returns the delegate field name of a model: "User" -> "Users".
func plural(model string) string {
	return pascal(rules.Pluralize(model))
}

// scalarTypes maps schema scalars to Go types.
var scalarTypes = map[string]GoType{
	"String":   {Name: "string"},
	"Boolean":  {Name: "bool"},
	"Int":      {Name: "int"},
	"BigInt":   {Name: "int64"},
	"Float":    {Name: "float64"},
	"Decimal":  {Name: "float64"},
	"DateTime": {PkgPath: "time", Name: "Time"},
	"Json":     {Name: "any"},
	"Bytes":    {Name: "[]byte"},
}

// nilable reports whether the Go type of a scalar already has a nil value.
func nilable(t GoType) bool {
	return t.PkgPath == "" && (t.Name == "any" || strings.HasPrefix(t.Name, "[]"))
}

func (t GoType) code() jen.Code {
	if t.PkgPath != "" {
		return jen.Qual(t.PkgPath, t.Name)
	}
	return jen.Id(t.Name)
}

// typeOf returns the base Go type of a non-relation field.
func (e *emitter) typeOf(f dmmf.Field) (GoType, error) {
	switch f.Kind {
	case dmmf.EnumKind:
		return GoType{Name: pascal(f.Type)}, nil
	case dmmf.ScalarKind:
		if t, ok := e.cfg.Scalars[f.Type]; ok {
			return t, nil
		}
		if t, ok := scalarTypes[f.Type]; ok {
			return t, nil
		}
	}
	return GoType{}, NewSchemaError(f.Type, f.Name, "unsupported field type", nil)
}

// fieldType returns the Go type of a field: slices for lists, pointers when
// optional is set and the base type has no nil value.
func (e *emitter) fieldType(f dmmf.Field, optional bool) (jen.Code, error) {
	if f.Kind == dmmf.ObjectKind {
		if f.IsList {
			return jen.Index().Op("*").Id(pascal(f.Type)), nil
		}
		return jen.Op("*").Id(pascal(f.Type)), nil
	}
	t, err := e.typeOf(f)
	if err != nil {
		return nil, err
	}
	switch {
	case f.IsList:
		return jen.Index().Add(t.code()), nil
	case optional && !nilable(t):
		return jen.Op("*").Add(t.code()), nil
	default:
		return t.code(), nil
	}
}

// jsonTag returns the struct tag of a field.
func jsonTag(name string, omitempty bool) map[string]string {
	if omitempty {
		return map[string]string{"json": name + ",omitempty"}
	}
	return map[string]string{"json": name}
}
