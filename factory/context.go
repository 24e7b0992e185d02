package factory

import "github.com/kbukum/httpfactory/logger"

// ResolveContext is the narrow dependency context handed to interceptor
// factories and configuration passes. It deliberately exposes only a logger
// and the configuration section binder, not a general-purpose resolver:
// anything else a factory needs should be captured explicitly at
// registration time.
type ResolveContext struct {
	log    *logger.Logger
	binder *SectionBinder
}

// NewResolveContext creates a resolve context.
func NewResolveContext(log *logger.Logger, binder *SectionBinder) *ResolveContext {
	return &ResolveContext{log: log, binder: binder}
}

// Logger returns the context logger. Never nil.
func (rc *ResolveContext) Logger() *logger.Logger {
	if rc == nil || rc.log == nil {
		return logger.GetGlobalLogger()
	}
	return rc.log
}

// Binder returns the configuration section binder. May be nil when no
// configuration source is attached; SectionBinder.Bind tolerates that.
func (rc *ResolveContext) Binder() *SectionBinder {
	if rc == nil {
		return nil
	}
	return rc.binder
}
