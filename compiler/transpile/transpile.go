package transpile

import "path"

// Config configures TranspileFile.
type Config struct {
	Options Options
	// Host serves library stubs. Defaults to DefaultHost.
	Host Host
	// Capture selects the outputs kept in the result. Defaults to
	// DefaultCapture over the directory of the unit.
	Capture CaptureFunc
}

// TranspileFile compiles one virtual source unit and returns the artifacts
// accepted by the capture predicate. Diagnostics never abort the compile;
// anything emitted before or despite them is returned.
func TranspileFile(file VirtualFile, cfg Config) (FileMap, Diagnostics) {
	if cfg.Host == nil {
		cfg.Host = DefaultHost()
	}
	if cfg.Capture == nil {
		cfg.Capture = DefaultCapture(path.Dir(file.Path))
	}
	overlay := NewOverlay(cfg.Host, file, cfg.Capture)
	res := NewProgram([]string{file.Path}, cfg.Options, overlay).Emit()
	return overlay.Files(), res.Diagnostics
}
