//go:build ignore

// Ambient declarations of the photon client runtime. This file documents the
// surface generated clients may rely on and is never compiled.
package runtime

import (
	"./deepset"
	"./dmmf"
	"./query"
)

type DMMF = dmmf.Document

type DMMFClass = dmmf.Class

var (
	DeepGet           = deepset.Get
	DeepSet           = deepset.Set
	MakeDocument      = query.MakeDocument
	TransformDocument = query.TransformDocument
)

// Engine is an opaque handle to the query engine.
type Engine = any

var EngineHandle Engine

type Formatters map[string]func(v any) string

type Debugger interface {
	Enabled() bool
	Namespace() string
	Log(args ...any)
	Extend(namespace string, delimiter string) Debugger
	Destroy() bool
}

type Debug interface {
	New(namespace string) Debugger
	Enable(namespaces string)
	Disable() string
	Enabled(namespace string) bool
	Log(args ...any)
	Formatters() Formatters
}

type DebugLibrary interface {
	Debug
	Default() Debug
}

var DebugLib DebugLibrary
