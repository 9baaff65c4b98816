package transpile

import (
	"errors"
	"fmt"
	"go/scanner"
	"go/token"
	"go/types"
)

// Category classifies a diagnostic.
type Category string

// Diagnostic categories.
const (
	CategorySyntax Category = "syntax"
	CategoryImport Category = "import"
	CategoryType   Category = "type"
	CategoryEmit   Category = "emit"
)

// Diagnostic is a non-fatal compile issue.
type Diagnostic struct {
	Category Category
	Pos      token.Position
	Message  string
	// Soft marks type errors that do not invalidate the package.
	Soft bool
}

// String formats the diagnostic like the go tool does.
func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Category)
	}
	return fmt.Sprintf("%s (%s)", d.Message, d.Category)
}

// Diagnostics is a list of diagnostics in report order.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic invalidates the compiled package.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Category != CategoryEmit && !d.Soft {
			return true
		}
	}
	return false
}

// diagnosticsOf converts an error returned by the parser, the type checker
// or a host into diagnostics of the given category.
func diagnosticsOf(category Category, err error) Diagnostics {
	var list scanner.ErrorList
	if errors.As(err, &list) {
		ds := make(Diagnostics, 0, len(list))
		for _, e := range list {
			ds = append(ds, Diagnostic{Category: CategorySyntax, Pos: e.Pos, Message: e.Msg})
		}
		return ds
	}
	var terr types.Error
	if errors.As(err, &terr) {
		return Diagnostics{{Category: category, Pos: terr.Fset.Position(terr.Pos), Message: terr.Msg, Soft: terr.Soft}}
	}
	return Diagnostics{{Category: category, Message: err.Error()}}
}
