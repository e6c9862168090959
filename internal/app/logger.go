package app

import (
	"os"

	"delivery-sync/internal/config"
	"delivery-sync/internal/logx"
)

// NewLogger returns the JSON process logger at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, logx.ParseLevel(cfg.LogLevel)).
		With(logx.String("service", "delivery-sync"))
}
