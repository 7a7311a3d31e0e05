package oxddaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/oxc-community/oxlint-daemon/src/oxd/controller/oxd-daemon/oxddaemonmock"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
)

func TestCodeIntelMethods(t *testing.T) {

	tests := []struct {
		name             string
		method           string
		setReturn        func(c *oxddaemonmock.MockController, result interface{}, err error)
		params           interface{}
		controllerResult interface{}
	}{
		{
			name:   "CodeAction",
			method: protocol.MethodTextDocumentCodeAction,
			setReturn: func(c *oxddaemonmock.MockController, result interface{}, err error) {
				r := result.([]protocol.CodeAction)
				c.EXPECT().CodeAction(gomock.Any(), gomock.Any()).Return(r, err)
			},
			params:           protocol.CodeActionParams{},
			controllerResult: []protocol.CodeAction{{Title: "sample"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ctx := context.Background()
			replier := newMockReplier()

			c := oxddaemonmock.NewMockController(ctrl)
			r := jsonRPCRouter{oxddaemon: c}

			// Valid params.
			tt.setReturn(c, tt.controllerResult, nil)
			req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, tt.params)
			err := r.HandleReq(ctx, replier, req)
			assert.NoError(t, err)

			// Invalid params.
			req, _ = jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, 5)
			err = r.HandleReq(ctx, replier, req)
			assert.Error(t, err)

			// Controller error.
			tt.setReturn(c, tt.controllerResult, errors.New("err"))
			req, _ = jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, tt.params)
			err = r.HandleReq(ctx, replier, req)
			assert.Error(t, err)
		})
	}
}
