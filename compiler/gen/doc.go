// # Architecture
//
// The emitter turns a schema document into a single Go source file:
//
//	dmmf.Document + bare schema + datasources
//	        ↓
//	   emitter (jennifer statements)
//	        ↓
//	   gofmt'ed client source
//
// The file declares, in order:
//
//   - Datamodel, the embedded schema document and the datasources
//   - one string type per enum with a constant per value
//   - per model: the record struct, WhereUniqueInput, WhereInput,
//     CreateInput, UpdateInput and FindManyArgs
//   - Client with Connect, Disconnect and one delegate per model
//     (FindOne, FindMany, Create, Update, Delete, Count)
//
// Generated code only depends on context, time and the runtime package
// named by Input.RuntimePath, which is imported as "runtime".
//
// # Error Handling
//
//   - SchemaError: the document cannot be rendered (reserved or colliding
//     names, unsupported field types)
//   - ConfigError: invalid options or input
//   - GenerationError: rendering or formatting failed
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	g, err := gen.NewGenerator(
//	    gen.WithPackage("db"),
//	    gen.WithScalarType("Decimal", "", "string"),
//	)
//	src, err := g.Emit(ctx, gen.Input{Document: doc, RuntimePath: runtime.ImportPath})
package gen
