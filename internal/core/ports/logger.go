// Package ports defines the core interfaces for the application.
package ports

// Logger defines the interface for logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}

// Scoped returns a logger whose records are tagged with the component name, such as
// "importmaps:development". Loggers that cannot carry a scope get "[name] " prepended to
// their messages. A nil logger stays nil.
func Scoped(logger Logger, name string) Logger {
	if logger == nil {
		return nil
	}
	if s, ok := logger.(interface{ Scope(name string) Logger }); ok {
		return s.Scope(name)
	}
	return prefixedLogger{Logger: logger, prefix: "[" + name + "] "}
}

type prefixedLogger struct {
	Logger
	prefix string
}

func (p prefixedLogger) Info(msg string) {
	p.Logger.Info(p.prefix + msg)
}

func (p prefixedLogger) Warn(msg string) {
	p.Logger.Warn(p.prefix + msg)
}
