// Package app assembles the oxd-daemon application.
package app

import (
	"context"
	"time"

	"github.com/oxc-community/oxlint-daemon/src/oxd/gateway"
	notifier "github.com/oxc-community/oxlint-daemon/src/oxd/gateway/ide-client"
	"github.com/oxc-community/oxlint-daemon/src/oxd/handler"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/core"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/executor"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/fs"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/jsonrpcfx"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/serverinfofile"
	workspaceutils "github.com/oxc-community/oxlint-daemon/src/oxd/internal/workspace-utils"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
)

// Module defines the oxd-daemon application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	fs.Module,
	executor.Module,
	serverinfofile.Module,
	workspaceutils.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(notifier.New),
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "oxd-daemon",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
)
