package project

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/photon/runtime/dmmf"
)

// PrintSchema renders doc back to schema text. Only the datasources and
// generators of cfg are printed, so an empty cfg yields the bare data model:
// enums first, then models, in document order.
func (e *Engine) PrintSchema(_ context.Context, doc *dmmf.Document, cfg *Config) (string, error) {
	var b strings.Builder
	if cfg != nil {
		for _, ds := range cfg.Datasources {
			fmt.Fprintf(&b, "datasource %s {\n", ds.Name)
			printProperties(&b, [][2]string{
				{"provider", strconv.Quote(ds.Provider)},
				{"url", datasourceURL(ds)},
			})
			b.WriteString("}\n\n")
		}
		for _, g := range cfg.Generators {
			fmt.Fprintf(&b, "generator %s {\n", g.Name)
			props := [][2]string{{"provider", strconv.Quote(g.Provider)}}
			if g.Output != "" {
				props = append(props, [2]string{"output", strconv.Quote(g.Output)})
			}
			if len(g.BinaryTargets) > 0 {
				props = append(props, [2]string{"binaryTargets", quoteList(g.BinaryTargets)})
			}
			for _, k := range sortedKeys(g.Config) {
				props = append(props, [2]string{k, strconv.Quote(g.Config[k])})
			}
			printProperties(&b, props)
			b.WriteString("}\n\n")
		}
	}
	if doc != nil {
		for _, en := range doc.Datamodel.Enums {
			printEnum(&b, en)
		}
		for _, m := range doc.Datamodel.Models {
			if err := printModel(&b, m); err != nil {
				return "", err
			}
		}
	}
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

func datasourceURL(ds Datasource) string {
	if ds.FromEnv != "" {
		return fmt.Sprintf("env(%s)", strconv.Quote(ds.FromEnv))
	}
	return strconv.Quote(ds.URL)
}

func printProperties(b *strings.Builder, props [][2]string) {
	width := 0
	for _, p := range props {
		width = max(width, len(p[0]))
	}
	for _, p := range props {
		fmt.Fprintf(b, "  %-*s = %s\n", width, p[0], p[1])
	}
}

func printDoc(b *strings.Builder, indent, doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		fmt.Fprintf(b, "%s/// %s\n", indent, line)
	}
}

func printEnum(b *strings.Builder, en dmmf.Enum) {
	printDoc(b, "", en.Documentation)
	fmt.Fprintf(b, "enum %s {\n", en.Name)
	for _, v := range en.Values {
		if v.DBName != "" {
			fmt.Fprintf(b, "  %s @map(%s)\n", v.Name, strconv.Quote(v.DBName))
			continue
		}
		fmt.Fprintf(b, "  %s\n", v.Name)
	}
	if en.DBName != "" {
		fmt.Fprintf(b, "\n  @@map(%s)\n", strconv.Quote(en.DBName))
	}
	b.WriteString("}\n\n")
}

func printModel(b *strings.Builder, m dmmf.Model) error {
	printDoc(b, "", m.Documentation)
	fmt.Fprintf(b, "model %s {\n", m.Name)
	rows := make([][3]string, 0, len(m.Fields))
	var nameWidth, typeWidth int
	for _, f := range m.Fields {
		typ := f.Type
		switch {
		case f.IsList:
			typ += "[]"
		case !f.IsRequired:
			typ += "?"
		}
		attrs, err := fieldAttributes(m, f)
		if err != nil {
			return err
		}
		rows = append(rows, [3]string{f.Name, typ, attrs})
		nameWidth = max(nameWidth, len(f.Name))
		typeWidth = max(typeWidth, len(typ))
	}
	for i, row := range rows {
		printDoc(b, "  ", m.Fields[i].Documentation)
		if row[2] == "" {
			fmt.Fprintf(b, "  %-*s %s\n", nameWidth, row[0], row[1])
			continue
		}
		fmt.Fprintf(b, "  %-*s %-*s %s\n", nameWidth, row[0], typeWidth, row[1], row[2])
	}
	var block []string
	if len(m.IDFields) > 1 {
		block = append(block, "@@id("+identList(m.IDFields)+")")
	}
	for _, u := range m.UniqueFields {
		block = append(block, "@@unique("+identList(u)+")")
	}
	if m.DBName != "" {
		block = append(block, "@@map("+strconv.Quote(m.DBName)+")")
	}
	if len(block) > 0 {
		b.WriteString("\n")
		for _, attr := range block {
			fmt.Fprintf(b, "  %s\n", attr)
		}
	}
	b.WriteString("}\n\n")
	return nil
}

func fieldAttributes(m dmmf.Model, f dmmf.Field) (string, error) {
	var attrs []string
	if f.IsID && len(m.IDFields) <= 1 {
		attrs = append(attrs, "@id")
	}
	if f.IsUnique {
		attrs = append(attrs, "@unique")
	}
	if f.Default != nil {
		def, err := printDefault(f.Default)
		if err != nil {
			return "", &ResolutionError{Block: m.Name, Property: f.Name, Message: "cannot print default", Cause: err}
		}
		attrs = append(attrs, "@default("+def+")")
	}
	if f.IsUpdatedAt {
		attrs = append(attrs, "@updatedAt")
	}
	if f.DBName != "" {
		attrs = append(attrs, "@map("+strconv.Quote(f.DBName)+")")
	}
	if f.Kind == dmmf.ObjectKind {
		args := []string{strconv.Quote(f.RelationName)}
		if len(f.RelationFromFields) > 0 {
			args = append(args, "fields: "+identList(f.RelationFromFields))
		}
		if len(f.RelationToFields) > 0 {
			args = append(args, "references: "+identList(f.RelationToFields))
		}
		if f.RelationName != "" || len(args) > 1 {
			attrs = append(attrs, "@relation("+strings.Join(args, ", ")+")")
		}
	}
	return strings.Join(attrs, " "), nil
}

func printDefault(d *dmmf.Default) (string, error) {
	switch d.Kind {
	case dmmf.DefaultFunction:
		return d.Value + "(" + strings.Join(d.Args, ", ") + ")", nil
	case dmmf.DefaultString:
		return strconv.Quote(d.Value), nil
	case dmmf.DefaultNumber, dmmf.DefaultBoolean, dmmf.DefaultEnum:
		return d.Value, nil
	default:
		return "", fmt.Errorf("unknown default kind %q", d.Kind)
	}
}

func identList(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
