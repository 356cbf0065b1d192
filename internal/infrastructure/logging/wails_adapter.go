package logging

// WailsLoggerAdapter bridges the structured Logger into the logger interface
// the Wails runtime expects, so framework output lands in the same JSON
// stream as application logs.
type WailsLoggerAdapter struct {
	logger Logger
}

// NewWailsLoggerAdapter wraps the given logger for use as the Wails runtime
// logger
func NewWailsLoggerAdapter(logger Logger) *WailsLoggerAdapter {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &WailsLoggerAdapter{logger: logger}
}

// Print maps Wails general output to INFO
func (w *WailsLoggerAdapter) Print(message string) {
	w.logger.Info(message, "source", "wails")
}

// Trace maps Wails trace output to DEBUG, tagged so it stays filterable
func (w *WailsLoggerAdapter) Trace(message string) {
	w.logger.Debug(message, "source", "wails", "level", "trace")
}

func (w *WailsLoggerAdapter) Debug(message string) {
	w.logger.Debug(message, "source", "wails")
}

func (w *WailsLoggerAdapter) Info(message string) {
	w.logger.Info(message, "source", "wails")
}

func (w *WailsLoggerAdapter) Warning(message string) {
	w.logger.Warn(message, "source", "wails")
}

func (w *WailsLoggerAdapter) Error(message string) {
	w.logger.Error(message, "source", "wails")
}

// Fatal downgrades to ERROR; the launcher must not exit because the runtime
// logged a fatal line
func (w *WailsLoggerAdapter) Fatal(message string) {
	w.logger.Error(message, "source", "wails", "level", "fatal")
}
