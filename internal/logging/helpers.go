package logging

import (
	"maps"

	"github.com/goliatone/go-breadcrumb/pkg/interfaces"
)

// WithFields returns logger with fields attached when it implements
// interfaces.FieldsLogger, and logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}
