package runtime

import "embed"

// ImportPath is the import path generated clients use for this package.
const ImportPath = "github.com/syssam/photon/runtime"

// Declaration is the ambient declaration document written next to the
// copied runtime.
//
//go:embed index.d.go
var Declaration string

// Assets is the runtime source tree copied into every generated client.
//
//go:embed doc.go engine.go request.go assets.go
//go:embed dmmf/dmmf.go dmmf/class.go
//go:embed deepset/deepset.go
//go:embed query/query.go
var Assets embed.FS
