package main

import (
	"github.com/oxc-community/oxlint-daemon/src/oxd/app"
	"go.uber.org/fx"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func main() {
	fx.New(opts()).Run()
}
