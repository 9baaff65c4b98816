// Package runtime is the support library of generated photon clients. It
// owns the query engine process (or a remote endpoint in browser mode),
// renders action documents and decodes engine responses.
//
// The package source is embedded in Assets and copied next to every
// generated client; Declaration holds the ambient declaration document
// written alongside it.
package runtime
