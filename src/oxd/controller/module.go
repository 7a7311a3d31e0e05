package controller

import (
	"github.com/oxc-community/oxlint-daemon/src/oxd/controller/doctor"
	oxddaemon "github.com/oxc-community/oxlint-daemon/src/oxd/controller/oxd-daemon"
	"github.com/oxc-community/oxlint-daemon/src/oxd/controller/oxlint"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(oxddaemon.New),
	fx.Provide(oxlint.New),
	fx.Provide(doctor.New),
)
