package oxddaemon

import (
	"context"

	oxdplugin "github.com/oxc-community/oxlint-daemon/src/oxd/entity/oxd-plugin"
	"go.lsp.dev/protocol"
)

func (c *controller) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	call := func(ctx context.Context, m *oxdplugin.Methods) {
		if err := m.ExecuteCommand(ctx, params); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	return nil, c.executePluginMethods(ctx, protocol.MethodWorkspaceExecuteCommand, call, call)
}
