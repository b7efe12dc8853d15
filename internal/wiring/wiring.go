// Package wiring registers every Graft node the binaries need, purely via
// import side effects — nothing in this package is ever called directly.
package wiring

import (
	// Register adapter nodes.
	_ "go.nomake.dev/nomake/internal/adapters/cas"
	_ "go.nomake.dev/nomake/internal/adapters/environment"
	_ "go.nomake.dev/nomake/internal/adapters/fs"
	_ "go.nomake.dev/nomake/internal/adapters/logger"
	_ "go.nomake.dev/nomake/internal/adapters/ruleset"
	_ "go.nomake.dev/nomake/internal/adapters/shell"
	_ "go.nomake.dev/nomake/internal/adapters/telemetry"
	_ "go.nomake.dev/nomake/internal/adapters/telemetry/progrock"
	_ "go.nomake.dev/nomake/internal/adapters/telemetry/tuibridge"
	// Register the app node.
	_ "go.nomake.dev/nomake/internal/app"
)
