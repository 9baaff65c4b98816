package logger

// Standard field names for structured logging.
const (
	FieldBuildID   = "build_id"
	FieldComponent = "component"
	FieldOperation = "operation"

	FieldFile     = "file"
	FieldPath     = "path"
	FieldLine     = "line"
	FieldCategory = "category"
	FieldBinary   = "binary"

	FieldCount      = "count"
	FieldSize       = "size"
	FieldDurationMS = "duration_ms"

	FieldError = "error"
)
