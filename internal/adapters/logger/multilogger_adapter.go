package logger_adapter

import (
	"errors"

	"listing-service/internal/core/port"
)

var errNoSinks = errors.New("multilogger: at least one logger is required")

// MultiLoggerAdapter writes each entry to all of its sinks in order.
type MultiLoggerAdapter struct {
	sinks []port.LoggerPort
}

// NewMultiloggerAdapter drops nil sinks and inlines nested multiloggers, so
// the stdout and Fluent sinks end up in one flat list.
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	var sinks []port.LoggerPort
	for _, l := range loggers {
		switch v := l.(type) {
		case nil:
		case *MultiLoggerAdapter:
			sinks = append(sinks, v.sinks...)
		default:
			sinks = append(sinks, v)
		}
	}
	if len(sinks) == 0 {
		return nil, errNoSinks
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return &MultiLoggerAdapter{sinks: sinks}, nil
}

func (m *MultiLoggerAdapter) each(write func(port.LoggerPort)) {
	for _, s := range m.sinks {
		write(s)
	}
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	m.each(func(s port.LoggerPort) { s.Debug(msg, fields) })
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	m.each(func(s port.LoggerPort) { s.Info(msg, fields) })
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	m.each(func(s port.LoggerPort) { s.Warn(msg, fields) })
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	m.each(func(s port.LoggerPort) { s.Error(msg, err, fields) })
}

func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	scoped := &MultiLoggerAdapter{sinks: make([]port.LoggerPort, len(m.sinks))}
	for i, s := range m.sinks {
		scoped.sinks[i] = s.WithFields(fields)
	}
	return scoped
}
