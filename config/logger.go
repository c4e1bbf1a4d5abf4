package config

import (
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
)

// NewLogger returns the application logger, with caller info and a level derived from the environment
func NewLogger(cfg *structs.Config) *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(true),
		gecho.WithLogLevel(gecho.ParseLogLevel(GetLogLevel(cfg))),
	))
}

// NewRequestLogger is used by the request logging middleware, where caller info is noise
func NewRequestLogger(cfg *structs.Config) *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(false),
		gecho.WithLogLevel(gecho.ParseLogLevel(GetLogLevel(cfg))),
	))
}
