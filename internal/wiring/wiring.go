// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/shedtool/shed/internal/adapters/activator"
	_ "github.com/shedtool/shed/internal/adapters/index"
	_ "github.com/shedtool/shed/internal/adapters/lockfile"
	_ "github.com/shedtool/shed/internal/adapters/logger"
	_ "github.com/shedtool/shed/internal/adapters/manifest"
	_ "github.com/shedtool/shed/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "github.com/shedtool/shed/internal/app"
	_ "github.com/shedtool/shed/internal/engine/resolver"
)
