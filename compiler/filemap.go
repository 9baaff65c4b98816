package compiler

import (
	"strings"

	"github.com/syssam/photon/compiler/transpile"
)

// FileMap maps output paths to file contents.
type FileMap = transpile.FileMap

// VirtualRoot is the directory the generated source lives in while building.
const VirtualRoot = "@generated/photon"

// VirtualPath is the path of the generated client source.
const VirtualPath = VirtualRoot + "/index.go"

// NormalizeFileMap returns a copy of fm with root removed from every key
// under it. Keys outside root are kept as is.
func NormalizeFileMap(fm FileMap, root string) FileMap {
	prefix := strings.TrimSuffix(root, "/") + "/"
	out := make(FileMap, len(fm))
	for k, v := range fm {
		out[strings.TrimPrefix(k, prefix)] = v
	}
	return out
}
