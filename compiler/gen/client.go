package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/photon/runtime/dmmf"
)

var ctxParam = jen.Id("ctx").Qual("context", "Context")

// client emits the Client type, its constructor and one delegate per model.
func (e *emitter) client() error {
	models := e.in.Document.Datamodel.Models

	e.file.Comment("Client is the entry point of the generated API. Call Connect before")
	e.file.Comment("issuing requests and Disconnect when done.")
	e.file.Type().Id("Client").StructFunc(func(g *jen.Group) {
		g.Id("engine").Add(e.rt("Engine"))
		g.Id("dmmf").Op("*").Add(e.rt("DMMFClass"))
		if len(models) > 0 {
			g.Line()
		}
		for _, m := range models {
			g.Id(plural(m.Name)).Op("*").Id(pascal(m.Name) + "Delegate")
		}
	})
	e.file.Line()

	newEngine := "NewEngine"
	if e.in.Browser {
		newEngine = "NewRemoteEngine"
	}
	e.file.Comment("NewClient returns a client for the schema in Datamodel.")
	e.file.Func().Id("NewClient").Params(jen.Id("opts").Op("...").Add(e.rt("Option"))).Op("*").Id("Client").BlockFunc(func(g *jen.Group) {
		g.Id("cfg").Op(":=").Add(e.rt("NewEngineConfig")).Call(jen.Id("Datamodel"), jen.Id("datasources"), jen.Id("engineCwd"), jen.Id("opts").Op("..."))
		g.Id("c").Op(":=").Op("&").Id("Client").Values(jen.Dict{
			jen.Id("engine"): e.rt(newEngine).Call(jen.Id("cfg")),
			jen.Id("dmmf"):   e.rt("MustParseDMMF").Call(jen.Id("dmmfJSON")),
		})
		for _, m := range models {
			g.Id("c").Dot(plural(m.Name)).Op("=").Op("&").Id(pascal(m.Name) + "Delegate").Values(jen.Dict{
				jen.Id("client"): jen.Id("c"),
			})
		}
		g.Return(jen.Id("c"))
	})
	e.file.Line()

	e.file.Comment("Connect starts the query engine.")
	e.file.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Connect").Params(ctxParam).Error().Block(
		jen.Return(jen.Id("c").Dot("engine").Dot("Start").Call(jen.Id("ctx"))),
	)
	e.file.Line()
	e.file.Comment("Disconnect stops the query engine.")
	e.file.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("Disconnect").Params(ctxParam).Error().Block(
		jen.Return(jen.Id("c").Dot("engine").Dot("Stop").Call(jen.Id("ctx"))),
	)
	e.file.Line()
	e.file.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("request").Params(
		ctxParam,
		jen.Id("action").String(),
		jen.Id("args").Add(e.rt("Args")),
		jen.Id("out").Any(),
	).Error().Block(
		jen.List(jen.Id("doc"), jen.Err()).Op(":=").Add(e.rt("MakeDocument")).Call(jen.Id("c").Dot("dmmf"), jen.Id("action"), jen.Id("args"), jen.Nil()),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Return(e.rt("Execute").Call(jen.Id("ctx"), jen.Id("c").Dot("engine"), jen.Id("doc"), jen.Id("action"), jen.Id("out"))),
	)
	e.file.Line()

	for _, m := range models {
		mapping, _ := e.class.Mapping(m.Name)
		e.delegate(m, mapping)
	}
	return nil
}

// delegate emits the per-model request methods.
func (e *emitter) delegate(m dmmf.Model, mapping *dmmf.Mapping) {
	name := pascal(m.Name)
	recv := jen.Id("d").Op("*").Id(name + "Delegate")
	one := jen.Op("*").Id(name)
	unique := jen.Id("where").Id(name + "WhereUniqueInput")

	e.file.Commentf("%sDelegate issues requests on the %s model.", name, m.Name)
	e.file.Type().Id(name+"Delegate").Struct(jen.Id("client").Op("*").Id("Client"))
	e.file.Line()

	single := func(method, doc, action string, params []jen.Code, args jen.Dict) {
		e.file.Comment(doc)
		e.file.Func().Params(recv).Id(method).Params(append([]jen.Code{ctxParam}, params...)...).Params(one, jen.Error()).Block(
			jen.Var().Id("out").Add(one),
			jen.If(
				jen.Err().Op(":=").Id("d").Dot("client").Dot("request").Call(jen.Id("ctx"), jen.Lit(action), e.rt("Args").Values(args), jen.Op("&").Id("out")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Id("out"), jen.Nil()),
		)
		e.file.Line()
	}

	single("FindOne", fmt.Sprintf("FindOne returns the %s matching where, or nil.", m.Name), mapping.FindOne,
		[]jen.Code{unique},
		jen.Dict{jen.Lit("where"): jen.Id("where")})

	e.file.Commentf("FindMany returns the %s records matching args.", m.Name)
	e.file.Func().Params(recv).Id("FindMany").Params(ctxParam, jen.Id("args").Id("FindMany"+name+"Args")).Params(jen.Index().Add(one), jen.Error()).Block(
		jen.Var().Id("out").Index().Add(one),
		jen.If(
			jen.Err().Op(":=").Id("d").Dot("client").Dot("request").Call(jen.Id("ctx"), jen.Lit(mapping.FindMany), e.rt("Args").Values(jen.Dict{
				jen.Lit("where"): jen.Id("args").Dot("Where"),
				jen.Lit("skip"):  jen.Id("args").Dot("Skip"),
				jen.Lit("first"): jen.Id("args").Dot("First"),
			}), jen.Op("&").Id("out")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Return(jen.Id("out"), jen.Nil()),
	)
	e.file.Line()

	single("Create", fmt.Sprintf("Create inserts a %s and returns it.", m.Name), mapping.Create,
		[]jen.Code{jen.Id("data").Id(name + "CreateInput")},
		jen.Dict{jen.Lit("data"): jen.Id("data")})
	single("Update", fmt.Sprintf("Update applies data to the %s matching where.", m.Name), mapping.Update,
		[]jen.Code{unique, jen.Id("data").Id(name + "UpdateInput")},
		jen.Dict{jen.Lit("where"): jen.Id("where"), jen.Lit("data"): jen.Id("data")})
	single("Delete", fmt.Sprintf("Delete removes the %s matching where and returns it.", m.Name), mapping.Delete,
		[]jen.Code{unique},
		jen.Dict{jen.Lit("where"): jen.Id("where")})

	e.file.Commentf("Count returns the number of %s records matching where. A nil where counts all.", m.Name)
	e.file.Func().Params(recv).Id("Count").Params(ctxParam, jen.Id("where").Op("*").Id(name+"WhereInput")).Params(jen.Int(), jen.Error()).Block(
		jen.Var().Id("out").Int(),
		jen.Err().Op(":=").Id("d").Dot("client").Dot("request").Call(jen.Id("ctx"), jen.Lit(mapping.Count), e.rt("Args").Values(jen.Dict{
			jen.Lit("where"): jen.Id("where"),
		}), jen.Op("&").Id("out")),
		jen.Return(jen.Id("out"), jen.Err()),
	)
	e.file.Line()
}
