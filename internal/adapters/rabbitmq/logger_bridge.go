package rabbitmq_adapter

import (
	"fmt"

	"listing-service/internal/core/port"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
)

// danglingKey holds the last value of an odd-length key/value list.
const danglingKey = "extra"

// PkgLoggerBridge lets the connection manager, producer and consumer in pkg/
// log through the service logger. They speak slog-style key/value pairs.
type PkgLoggerBridge struct {
	target port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return &PkgLoggerBridge{target: logger}
}

// toFields pairs up keysAndValues. Keys that are not strings are printed
// with %v rather than dropped.
func (b *PkgLoggerBridge) toFields(keysAndValues ...interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(keysAndValues)+1)/2)
	for len(keysAndValues) >= 2 {
		key, ok := keysAndValues[0].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[0])
		}
		fields[key] = keysAndValues[1]
		keysAndValues = keysAndValues[2:]
	}
	if len(keysAndValues) == 1 {
		fields[danglingKey] = keysAndValues[0]
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.target.Debug(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.target.Info(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.target.Warn(msg, b.toFields(keysAndValues...))
}

// Error follows the pkg/ signature, where the error comes first.
func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.target.Error(msg, err, b.toFields(keysAndValues...))
}
