package oxddaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	oxdplugin "github.com/oxc-community/oxlint-daemon/src/oxd/entity/oxd-plugin"
	"go.lsp.dev/protocol"
)

func TestCodeAction(t *testing.T) {
	sampleActions := []protocol.CodeAction{{Title: "Fix all auto-fixable problems"}}

	c, ctx, recorded := documentTestSetup(t, protocol.MethodTextDocumentCodeAction, oxdplugin.MethodLists{
		Sync: []*oxdplugin.Methods{
			{
				CodeAction: func(ctx context.Context, params *protocol.CodeActionParams, result *[]protocol.CodeAction) error {
					*result = append(*result, sampleActions...)
					return nil
				},
			},
			{
				CodeAction: func(ctx context.Context, params *protocol.CodeActionParams, result *[]protocol.CodeAction) error {
					return errors.New("sample")
				},
			},
		},
	})

	result, err := c.CodeAction(ctx, &protocol.CodeActionParams{})
	c.wg.Wait()
	assert.NoError(t, err)
	assert.Equal(t, sampleActions, result)
	assert.Equal(t, 1, recorded.Len())
}

func TestCodeActionNoSession(t *testing.T) {
	c := &controller{}

	_, err := c.CodeAction(context.Background(), &protocol.CodeActionParams{})
	assert.Error(t, err)
}
