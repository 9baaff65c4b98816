// Package compiler builds photon clients.
//
// BuildClient runs the generation pipeline for one schema:
//
//	schema text
//	     ↓
//	MetadataService.GetDMMF    → dmmf.Document
//	ConfigEngine.GetConfig     → datasources, generators
//	ConfigEngine.PrintSchema   → bare schema text
//	     ↓
//	Emitter.Emit               → client source
//	     ↓
//	transpile.TranspileFile    (optional, in memory)
//	     ↓
//	NormalizeFileMap           → FileMap with relative keys
//
// Materialize writes a FileMap to an output directory together with the
// runtime package and its declaration document. GenerateClient does both.
package compiler
