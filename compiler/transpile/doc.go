// Package transpile compiles a single in-memory Go source unit into build
// artifacts without touching disk for the unit itself.
//
// # Pipeline
//
// A Program parses its root files through a Host, type-checks them with
// go/types against a fixed library set, and emits two artifacts per
// package next to the first root:
//
//	index.go      (virtual, never written)
//	  ↓ parse / type-check
//	index.export  type declaration (gcexportdata)
//	index.ssa     compiled code (SSA listing of every function)
//
// # Hosts
//
// Every file access of the compiler goes through the Host capability:
//
//   - FileSystemHost delegates to an afero.Fs. DefaultHost serves the
//     embedded library stubs.
//   - Overlay serves one virtual unit from memory (parsed once per compile),
//     redirects library lookups with RedirectToLib and captures outputs
//     accepted by its CaptureFunc into a FileMap. Other outputs are dropped.
//
// The host is chosen by the caller and passed in as configuration:
//
//	files, diags := transpile.TranspileFile(transpile.VirtualFile{
//	    Path:    "@generated/photon/index.go",
//	    Content: src,
//	}, transpile.Config{Options: transpile.DefaultOptions()})
//
// Diagnostics never fail a compile; whatever was captured is returned.
package transpile
