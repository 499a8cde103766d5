// Package logger provides a zap-based application logger.
package logger

import "go.uber.org/zap"

// New builds a production logger writing JSON to stdout with the
// service name attached to every entry. Dependencies receive the
// logger explicitly; there is no package-level instance.
func New(service string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.DisableStacktrace = true
	cfg.InitialFields = map[string]interface{}{"service": service}
	return cfg.Build()
}
