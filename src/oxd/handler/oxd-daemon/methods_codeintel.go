package oxddaemon

import (
	"context"

	"github.com/oxc-community/oxlint-daemon/src/oxd/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *jsonRPCRouter) CodeAction(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToCodeActionParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.oxddaemon.CodeAction(ctx, params)
	return reply(ctx, result, err)
}
