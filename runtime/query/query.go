// Package query builds the GraphQL documents a generated client sends to the
// query engine.
package query

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/photon/runtime/dmmf"
)

// Document is a single engine request: one root field, its arguments and the
// selected scalar fields.
type Document struct {
	Operation ast.Operation
	Action    string
	Args      map[string]any
	Selection []string
}

// MakeDocument builds the document for the given action name. An empty
// selection selects every scalar field of the model.
func MakeDocument(class *dmmf.Class, action string, args map[string]any, selection []string) (*Document, error) {
	model, kind, ok := class.ResolveAction(action)
	if !ok {
		return nil, fmt.Errorf("query: unknown action %q", action)
	}
	doc := &Document{
		Operation: ast.Mutation,
		Action:    action,
		Args:      args,
	}
	switch kind {
	case dmmf.ActionFindOne, dmmf.ActionFindMany, dmmf.ActionCount:
		doc.Operation = ast.Query
	}
	if kind == dmmf.ActionCount {
		return doc, nil
	}
	if len(selection) == 0 {
		for _, f := range model.ScalarFields() {
			doc.Selection = append(doc.Selection, f.Name)
		}
		return doc, nil
	}
	for _, name := range selection {
		f, ok := model.Field(name)
		if !ok {
			return nil, fmt.Errorf("query: model %s has no field %q", model.Name, name)
		}
		if f.IsRelation() {
			return nil, fmt.Errorf("query: field %s.%s is a relation and cannot be selected as a scalar", model.Name, name)
		}
	}
	doc.Selection = append([]string(nil), selection...)
	return doc, nil
}

// TransformDocument returns a copy of doc whose arguments are reduced to
// plain JSON values: typed inputs are encoded through their json tags and
// null members are dropped.
func TransformDocument(doc *Document) (*Document, error) {
	out := *doc
	out.Selection = append([]string(nil), doc.Selection...)
	if doc.Args == nil {
		return &out, nil
	}
	buf, err := json.Marshal(doc.Args)
	if err != nil {
		return nil, fmt.Errorf("query: encode arguments of %s: %w", doc.Action, err)
	}
	var args map[string]any
	if err := json.Unmarshal(buf, &args); err != nil {
		return nil, fmt.Errorf("query: decode arguments of %s: %w", doc.Action, err)
	}
	out.Args = dropNulls(args).(map[string]any)
	return &out, nil
}

// AST converts the document to a gqlparser query document.
func (d *Document) AST() *ast.QueryDocument {
	field := &ast.Field{Name: d.Action}
	for _, name := range sortedKeys(d.Args) {
		field.Arguments = append(field.Arguments, &ast.Argument{
			Name:  name,
			Value: toValue(d.Args[name]),
		})
	}
	for _, name := range d.Selection {
		field.SelectionSet = append(field.SelectionSet, &ast.Field{Name: name})
	}
	return &ast.QueryDocument{
		Operations: ast.OperationList{
			{
				Operation:    d.Operation,
				SelectionSet: ast.SelectionSet{field},
			},
		},
	}
}

// String renders the document as GraphQL source.
func (d *Document) String() string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(d.AST())
	return buf.String()
}

func dropNulls(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, child := range v {
			if child == nil {
				delete(v, k)
				continue
			}
			v[k] = dropNulls(child)
		}
		return v
	case []any:
		for i := range v {
			v[i] = dropNulls(v[i])
		}
		return v
	default:
		return v
	}
}

func toValue(v any) *ast.Value {
	switch v := v.(type) {
	case nil:
		return &ast.Value{Kind: ast.NullValue, Raw: "null"}
	case bool:
		return &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(v)}
	case string:
		return &ast.Value{Kind: ast.StringValue, Raw: v}
	case int:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.Itoa(v)}
	case int64:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.FormatInt(v, 10)}
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return &ast.Value{Kind: ast.IntValue, Raw: strconv.FormatInt(int64(v), 10)}
		}
		return &ast.Value{Kind: ast.FloatValue, Raw: strconv.FormatFloat(v, 'g', -1, 64)}
	case map[string]any:
		val := &ast.Value{Kind: ast.ObjectValue}
		for _, k := range sortedKeys(v) {
			val.Children = append(val.Children, &ast.ChildValue{Name: k, Value: toValue(v[k])})
		}
		return val
	case []any:
		val := &ast.Value{Kind: ast.ListValue}
		for _, item := range v {
			val.Children = append(val.Children, &ast.ChildValue{Value: toValue(item)})
		}
		return val
	default:
		return &ast.Value{Kind: ast.StringValue, Raw: fmt.Sprint(v)}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
