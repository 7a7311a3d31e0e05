// Package handler registers the oxd service's handlers into an Fx application.
package handler

import (
	controller "github.com/oxc-community/oxlint-daemon/src/oxd/controller"
	oxddaemon "github.com/oxc-community/oxlint-daemon/src/oxd/controller/oxd-daemon"
	handler "github.com/oxc-community/oxlint-daemon/src/oxd/handler/oxd-daemon"
	"github.com/oxc-community/oxlint-daemon/src/oxd/repository/session"
	"go.uber.org/fx"
)

// Module provides the oxd-daemon server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputProcessInfo),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m oxddaemon.Controller) {}),
)
