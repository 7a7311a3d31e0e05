package oxddaemon

import (
	"context"
	"fmt"

	oxdplugin "github.com/oxc-community/oxlint-daemon/src/oxd/entity/oxd-plugin"
	"go.lsp.dev/protocol"
)

func (c *controller) CodeAction(ctx context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	result := []protocol.CodeAction{}

	callSync := func(ctx context.Context, m *oxdplugin.Methods) {
		if err := m.CodeAction(ctx, params, &result); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}
	callAsync := func(ctx context.Context, m *oxdplugin.Methods) {
		if err := m.CodeAction(ctx, params, nil); err != nil {
			c.logger.Errorf(_errPluginReturnedError, m.PluginNameKey, err)
		}
	}

	if err := c.executePluginMethods(ctx, protocol.MethodTextDocumentCodeAction, callSync, callAsync); err != nil {
		return nil, fmt.Errorf(_errBadPluginCall, err)
	}

	return result, nil
}
