// Package oxddaemon implements the oxd service's JSON-RPC handlers.
package oxddaemon

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	controller "github.com/oxc-community/oxlint-daemon/src/oxd/controller/oxd-daemon"
	"github.com/oxc-community/oxlint-daemon/src/oxd/entity"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/jsonrpcfx"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
)

// Handler accepts inbound editor connections and routes their requests to the controller.
type Handler interface {
	// ConnectionManager returns the manager registered with the JSON-RPC module.
	ConnectionManager() jsonrpcfx.ConnectionManager
}

type handler struct {
	oxddaemon         controller.Controller
	connectionManager jsonrpcfx.ConnectionManager
	stats             tally.Scope
}

// New constructs a new oxd Handler.
func New(ctrl controller.Controller, jsonrpcmod jsonrpcfx.JSONRPCModule, stats tally.Scope) Handler {
	c := jsonRPCConnectionManager{
		ctrl:  ctrl,
		stats: stats.SubScope("json_rpc"),
	}
	jsonrpcmod.RegisterConnectionManager(&c)

	return &handler{
		oxddaemon:         ctrl,
		connectionManager: &c,
		stats:             stats,
	}
}

func (h *handler) ConnectionManager() jsonrpcfx.ConnectionManager {
	return h.connectionManager
}

type jsonRPCConnectionManager struct {
	ctrl  controller.Controller
	stats tally.Scope
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	r := jsonRPCRouter{
		oxddaemon: c.ctrl,
		uuid:      id,
		stats:     c.stats,
	}

	return &r, nil
}

// RemoveConnection cleans up a closed connection.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	// Ensure session is removed even if no Exit call has been received.
	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	c.ctrl.EndSession(ctx, id)
}
