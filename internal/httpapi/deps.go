package httpapi

import (
	"context"

	"leadgen-engine/internal/collect"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/events"
)

type Deps struct {
	Cfg config.Config
	Hub *events.Hub

	// DataDir is where generated CSVs land.
	DataDir string

	// RunCollection is injected for testability.
	RunCollection func(ctx context.Context, opts collect.Options) (string, error)
}
