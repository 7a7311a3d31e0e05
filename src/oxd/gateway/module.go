// Package gateway wires the daemon's outbound gateways.
package gateway

import (
	lintserver "github.com/oxc-community/oxlint-daemon/src/oxd/gateway/lint-server"
	"go.uber.org/fx"
)

// Module provides the outbound gateways into an Fx application.
var Module = fx.Options(
	lintserver.Module,
)
