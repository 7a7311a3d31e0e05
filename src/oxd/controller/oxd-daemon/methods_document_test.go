package oxddaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/oxc-community/oxlint-daemon/src/oxd/entity"
	oxdplugin "github.com/oxc-community/oxlint-daemon/src/oxd/entity/oxd-plugin"
	"github.com/oxc-community/oxlint-daemon/src/oxd/factory"
	"github.com/oxc-community/oxlint-daemon/src/oxd/repository/session/repositorymock"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// documentTestSetup provides a controller whose plugin methods log one error per call pair.
func documentTestSetup(t *testing.T, method string, methods oxdplugin.MethodLists) (*controller, context.Context, *observer.ObservedLogs) {
	t.Helper()
	ctrl := gomock.NewController(t)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	sessionRepository := repositorymock.NewMockRepository(ctrl)
	sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()

	pluginMethods := map[uuid.UUID]oxdplugin.RuntimePrioritizedMethods{s.UUID: oxdplugin.RuntimePrioritizedMethods{}}
	pluginMethods[s.UUID][method] = methods

	core, recorded := observer.New(zap.ErrorLevel)
	c := &controller{
		logger:        zap.New(core).Sugar(),
		pluginMethods: pluginMethods,
		sessions:      sessionRepository,
	}
	return c, ctx, recorded
}

func TestDidOpen(t *testing.T) {
	c, ctx, recorded := documentTestSetup(t, protocol.MethodTextDocumentDidOpen, oxdplugin.MethodLists{
		Sync: []*oxdplugin.Methods{
			{
				DidOpen: func(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
					return nil
				},
			},
			{
				DidOpen: func(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
					return errors.New("sample")
				},
			},
		},
	})

	err := c.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{})
	c.wg.Wait()
	assert.NoError(t, err)
	assert.Equal(t, 1, recorded.Len())
}

func TestDidClose(t *testing.T) {
	c, ctx, recorded := documentTestSetup(t, protocol.MethodTextDocumentDidClose, oxdplugin.MethodLists{
		Async: []*oxdplugin.Methods{
			{
				DidClose: func(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
					return errors.New("sample")
				},
			},
		},
	})

	err := c.DidClose(ctx, &protocol.DidCloseTextDocumentParams{})
	c.wg.Wait()
	assert.NoError(t, err)
	assert.Equal(t, 1, recorded.Len())
}

func TestWillSaveWaitUntil(t *testing.T) {
	sampleEdits := []protocol.TextEdit{{NewText: "fixed"}}

	c, ctx, recorded := documentTestSetup(t, protocol.MethodTextDocumentWillSaveWaitUntil, oxdplugin.MethodLists{
		Sync: []*oxdplugin.Methods{
			{
				WillSaveWaitUntil: func(ctx context.Context, params *protocol.WillSaveTextDocumentParams, result *[]protocol.TextEdit) error {
					*result = append(*result, sampleEdits...)
					return nil
				},
			},
			{
				WillSaveWaitUntil: func(ctx context.Context, params *protocol.WillSaveTextDocumentParams, result *[]protocol.TextEdit) error {
					return errors.New("sample")
				},
			},
		},
	})

	result, err := c.WillSaveWaitUntil(ctx, &protocol.WillSaveTextDocumentParams{})
	c.wg.Wait()
	assert.NoError(t, err)
	assert.Equal(t, sampleEdits, result)
	assert.Equal(t, 1, recorded.Len())
}

func TestWillSaveWaitUntilNoSession(t *testing.T) {
	c := &controller{
		logger: zap.NewNop().Sugar(),
	}

	_, err := c.WillSaveWaitUntil(context.Background(), &protocol.WillSaveTextDocumentParams{})
	assert.Error(t, err)
}

func TestDidSave(t *testing.T) {
	c, ctx, recorded := documentTestSetup(t, protocol.MethodTextDocumentDidSave, oxdplugin.MethodLists{
		Async: []*oxdplugin.Methods{
			{
				DidSave: func(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
					return errors.New("sample")
				},
			},
		},
	})

	err := c.DidSave(ctx, &protocol.DidSaveTextDocumentParams{})
	c.wg.Wait()
	assert.NoError(t, err)
	assert.Equal(t, 1, recorded.Len())
}
