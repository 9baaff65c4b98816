package load

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"

	"github.com/syssam/photon/runtime/dmmf"
)

var rules = inflect.NewDefaultRuleset()

// BuildMappings returns the engine action names of every model.
func BuildMappings(models []dmmf.Model) []dmmf.Mapping {
	mappings := make([]dmmf.Mapping, 0, len(models))
	for _, m := range models {
		mappings = append(mappings, dmmf.Mapping{
			Model:    m.Name,
			Plural:   lowerFirst(rules.Pluralize(m.Name)),
			FindOne:  "findOne" + m.Name,
			FindMany: "findMany" + m.Name,
			Create:   "createOne" + m.Name,
			Update:   "updateOne" + m.Name,
			Delete:   "deleteOne" + m.Name,
			Count:    "count" + m.Name,
		})
	}
	return mappings
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
