package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/photon/runtime/dmmf"
)

// models emits the model structs and their input types.
func (e *emitter) models() error {
	for _, m := range e.in.Document.Datamodel.Models {
		for _, emit := range []func(dmmf.Model) error{
			e.modelStruct,
			e.whereUniqueInput,
			e.whereInput,
			e.createInput,
			e.updateInput,
			e.findManyArgs,
		} {
			if err := emit(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// structOf emits a struct built from the fields accepted by build. build
// returns nil code to skip a field.
func (e *emitter) structOf(name, doc string, fields []dmmf.Field, build func(dmmf.Field) (jen.Code, map[string]string, error), extra ...jen.Code) error {
	var err error
	e.file.Comment(doc)
	e.file.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, f := range fields {
			if err != nil {
				return
			}
			typ, tag, ferr := build(f)
			if ferr != nil {
				err = ferr
				return
			}
			if typ == nil {
				continue
			}
			g.Id(pascal(f.Name)).Add(typ).Tag(tag)
		}
		for _, c := range extra {
			g.Add(c)
		}
	})
	e.file.Line()
	return err
}

func (e *emitter) modelStruct(m dmmf.Model) error {
	name := pascal(m.Name)
	return e.structOf(name, docOr(m.Documentation, fmt.Sprintf("%s is a record of the %s model.", name, m.Name)), m.Fields,
		func(f dmmf.Field) (jen.Code, map[string]string, error) {
			optional := !f.IsRequired
			typ, err := e.fieldType(f, optional)
			return typ, jsonTag(f.Name, optional || f.IsRelation()), err
		})
}

func (e *emitter) whereUniqueInput(m dmmf.Model) error {
	name := pascal(m.Name)
	unique := func(f dmmf.Field) bool {
		if f.IsID || f.IsUnique {
			return true
		}
		return len(m.IDFields) == 1 && m.IDFields[0] == f.Name
	}
	return e.structOf(name+"WhereUniqueInput", fmt.Sprintf("%sWhereUniqueInput selects a single %s by a unique field.", name, m.Name), m.Fields,
		func(f dmmf.Field) (jen.Code, map[string]string, error) {
			if f.IsRelation() || f.IsList || !unique(f) {
				return nil, nil, nil
			}
			typ, err := e.fieldType(f, true)
			return typ, jsonTag(f.Name, true), err
		})
}

func (e *emitter) whereInput(m dmmf.Model) error {
	name := pascal(m.Name)
	self := jen.Index().Op("*").Id(name + "WhereInput")
	return e.structOf(name+"WhereInput", fmt.Sprintf("%sWhereInput filters %s records. Set fields must all match.", name, m.Name), m.Fields,
		func(f dmmf.Field) (jen.Code, map[string]string, error) {
			if f.IsRelation() {
				return nil, nil, nil
			}
			typ, err := e.fieldType(f, true)
			return typ, jsonTag(f.Name, true), err
		},
		jen.Id("AND").Add(self).Tag(jsonTag("AND", true)),
		jen.Id("OR").Add(self).Tag(jsonTag("OR", true)),
		jen.Id("NOT").Add(self).Tag(jsonTag("NOT", true)),
	)
}

func (e *emitter) createInput(m dmmf.Model) error {
	name := pascal(m.Name)
	return e.structOf(name+"CreateInput", fmt.Sprintf("%sCreateInput holds the data of a new %s.", name, m.Name), m.Fields,
		func(f dmmf.Field) (jen.Code, map[string]string, error) {
			if f.IsRelation() {
				return nil, nil, nil
			}
			optional := !f.IsRequired || f.HasDefaultValue || f.IsUpdatedAt
			typ, err := e.fieldType(f, optional)
			return typ, jsonTag(f.Name, optional || f.IsList), err
		})
}

func (e *emitter) updateInput(m dmmf.Model) error {
	name := pascal(m.Name)
	return e.structOf(name+"UpdateInput", fmt.Sprintf("%sUpdateInput holds the changes to a %s. Nil fields are left unchanged.", name, m.Name), m.Fields,
		func(f dmmf.Field) (jen.Code, map[string]string, error) {
			if f.IsRelation() {
				return nil, nil, nil
			}
			typ, err := e.fieldType(f, true)
			return typ, jsonTag(f.Name, true), err
		})
}

func (e *emitter) findManyArgs(m dmmf.Model) error {
	name := pascal(m.Name)
	e.file.Commentf("FindMany%sArgs narrows and pages a FindMany query.", name)
	e.file.Type().Id("FindMany"+name+"Args").Struct(
		jen.Id("Where").Op("*").Id(name+"WhereInput").Tag(jsonTag("where", true)),
		jen.Id("Skip").Op("*").Int().Tag(jsonTag("skip", true)),
		jen.Id("First").Op("*").Int().Tag(jsonTag("first", true)),
	)
	e.file.Line()
	return nil
}

func docOr(doc, fallback string) string {
	if doc == "" {
		return fallback
	}
	return doc
}
