// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/mill/internal/adapters/config"
	_ "go.trai.ch/mill/internal/adapters/depfile"
	_ "go.trai.ch/mill/internal/adapters/logger"
	_ "go.trai.ch/mill/internal/adapters/record"
	_ "go.trai.ch/mill/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/mill/internal/app"
)
