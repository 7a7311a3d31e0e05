package oxddaemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/oxc-community/oxlint-daemon/src/oxd/entity"
	oxdplugin "github.com/oxc-community/oxlint-daemon/src/oxd/entity/oxd-plugin"
	"github.com/oxc-community/oxlint-daemon/src/oxd/entity/oxd-plugin/pluginmock"
	"github.com/oxc-community/oxlint-daemon/src/oxd/factory"
	"github.com/oxc-community/oxlint-daemon/src/oxd/gateway/ide-client/ideclientmock"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/fs/fsmock"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/fxmock"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/jsonrpc2mock"
	workspaceutils "github.com/oxc-community/oxlint-daemon/src/oxd/internal/workspace-utils"
	"github.com/oxc-community/oxlint-daemon/src/oxd/repository/session/repositorymock"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	t.Run("initialize success", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

		core, recorded := observer.New(zap.ErrorLevel)
		logger := zap.New(core)

		samplePlugin1 := pluginmock.NewMockPlugin(ctrl)
		samplePlugin1.EXPECT().StartupInfo(gomock.Any()).Return(oxdplugin.PluginInfo{
			Priorities: map[string]oxdplugin.Priority{
				protocol.MethodInitialize: oxdplugin.PriorityHigh,
			},
			Methods: &oxdplugin.Methods{
				PluginNameKey: "sample1",
				Initialize: func(ctx context.Context, params *protocol.InitializeParams, result *protocol.InitializeResult) error {
					return nil
				},
			},
			NameKey: "sample1",
		}, nil)

		samplePlugin2 := pluginmock.NewMockPlugin(ctrl)
		samplePlugin2.EXPECT().StartupInfo(gomock.Any()).Return(oxdplugin.PluginInfo{
			Priorities: map[string]oxdplugin.Priority{
				protocol.MethodInitialize: oxdplugin.PriorityHigh,
			},
			Methods: &oxdplugin.Methods{
				PluginNameKey: "sample2",
				Initialize: func(ctx context.Context, params *protocol.InitializeParams, result *protocol.InitializeResult) error {
					return errors.New("sample")
				},
			},
			NameKey: "sample2",
		}, nil)

		fsMock := fsmock.NewMockOxdFS(ctrl)
		c := controller{
			logger:        logger.Sugar(),
			sessions:      sessionRepository,
			pluginsAll:    []oxdplugin.Plugin{samplePlugin1, samplePlugin2},
			pluginConfig:  map[string]bool{"sample1": true, "sample2": true},
			pluginMethods: map[uuid.UUID]oxdplugin.RuntimePrioritizedMethods{s.UUID: oxdplugin.RuntimePrioritizedMethods{}},
		}

		c.workspaceUtils = workspaceutils.New(workspaceutils.Params{
			IdeGateway: c.ideGateway,
			Logger:     c.logger,
			FS:         fsMock,
		})

		params := &protocol.InitializeParams{}
		params.WorkspaceFolders = []protocol.WorkspaceFolder{
			{
				URI: "file:///foo/bar",
			},
		}
		fsMock.EXPECT().DirExists("/foo/bar").Return(true, nil).Times(len(params.WorkspaceFolders))

		res, err := c.Initialize(ctx, params)
		c.wg.Wait()
		assert.NoError(t, err, "Unexpected initialize error.")
		assert.Equal(t, res.ServerInfo.Name, "oxlint daemon")
		assert.Equal(t, res.Capabilities.TextDocumentSync, protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Save: &protocol.SaveOptions{
				IncludeText: true,
			},
			WillSaveWaitUntil: true,
		})
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("missing session uuid in context", func(t *testing.T) {
		ctx := context.Background()

		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(nil, errors.New("sample"))
		c := controller{
			sessions: sessionRepository,
		}

		params := &protocol.InitializeParams{}
		_, err := c.Initialize(ctx, params)
		assert.Error(t, err)
	})

	t.Run("get workspace root failure", func(t *testing.T) {
		sessionRepository := repositorymock.NewMockRepository(ctrl)
		sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()

		fsMock := fsmock.NewMockOxdFS(ctrl)
		c := controller{
			logger:        zap.NewNop().Sugar(),
			sessions:      sessionRepository,
			pluginMethods: map[uuid.UUID]oxdplugin.RuntimePrioritizedMethods{},
		}

		c.workspaceUtils = workspaceutils.New(workspaceutils.Params{
			IdeGateway: c.ideGateway,
			Logger:     c.logger,
			FS:         fsMock,
		})

		params := &protocol.InitializeParams{}
		params.WorkspaceFolders = []protocol.WorkspaceFolder{
			{
				URI: "file:///foo/bar",
			},
		}
		fsMock.EXPECT().DirExists("/foo/bar").Return(false, errors.New("sample")).Times(len(params.WorkspaceFolders))
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, s *entity.Session) error {
			assert.Empty(t, s.WorkspaceRoot)
			return nil
		})

		// A session without a workspace root still advertises capabilities,
		// since lint activation is decided per document.
		result, err := c.Initialize(ctx, params)
		assert.NoError(t, err)
		assert.True(t, result.Capabilities.TextDocumentSync.(protocol.TextDocumentSyncOptions).OpenClose)
	})
}

func TestInitialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	sessionRepository := repositorymock.NewMockRepository(ctrl)
	sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()

	pluginMethods := map[uuid.UUID]oxdplugin.RuntimePrioritizedMethods{s.UUID: oxdplugin.RuntimePrioritizedMethods{}}
	pluginMethods[s.UUID][protocol.MethodInitialized] = oxdplugin.MethodLists{
		Sync: []*oxdplugin.Methods{
			{
				Initialized: func(ctx context.Context, params *protocol.InitializedParams) error {
					return nil
				},
			},
			{
				Initialized: func(ctx context.Context, params *protocol.InitializedParams) error {
					return errors.New("sample")
				},
			},
		},
		Async: []*oxdplugin.Methods{
			{
				Initialized: func(ctx context.Context, params *protocol.InitializedParams) error {
					return nil
				},
			},
			{
				Initialized: func(ctx context.Context, params *protocol.InitializedParams) error {
					return errors.New("sample")
				},
			},
		},
	}

	core, recorded := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	c := controller{
		logger:        logger.Sugar(),
		pluginMethods: pluginMethods,
		sessions:      sessionRepository,
	}

	params := &protocol.InitializedParams{}
	err := c.Initialized(ctx, params)
	c.wg.Wait()
	assert.NoError(t, err)
	assert.Equal(t, 2, recorded.Len())
}

func TestShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	sessionRepository := repositorymock.NewMockRepository(ctrl)
	sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()

	pluginMethods := map[uuid.UUID]oxdplugin.RuntimePrioritizedMethods{s.UUID: oxdplugin.RuntimePrioritizedMethods{}}
	pluginMethods[s.UUID][protocol.MethodShutdown] = oxdplugin.MethodLists{
		Sync: []*oxdplugin.Methods{
			{
				Shutdown: func(ctx context.Context) error {
					return nil
				},
			},
			{
				Shutdown: func(ctx context.Context) error {
					return errors.New("sample")
				},
			},
		},
		Async: []*oxdplugin.Methods{
			{
				Shutdown: func(ctx context.Context) error {
					return nil
				},
			},
			{
				Shutdown: func(ctx context.Context) error {
					return errors.New("sample")
				},
			},
		},
	}

	core, recorded := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	c := controller{
		logger:        logger.Sugar(),
		pluginMethods: pluginMethods,
		sessions:      sessionRepository,
	}
	c.Shutdown(ctx)
	c.wg.Wait()
	assert.Equal(t, 2, recorded.Len())
}

func TestExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockShutdowner := fxmock.NewMockShutdowner(ctrl)

	sessionRepository := repositorymock.NewMockRepository(ctrl)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(1, nil)
	sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()

	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
	mockIdeGateway.EXPECT().DeregisterClient(gomock.Any(), gomock.Any()).Return(nil)

	pluginMethods := map[uuid.UUID]oxdplugin.RuntimePrioritizedMethods{s.UUID: oxdplugin.RuntimePrioritizedMethods{}}
	pluginMethods[s.UUID][protocol.MethodExit] = oxdplugin.MethodLists{
		Sync: []*oxdplugin.Methods{
			{
				Exit: func(ctx context.Context) error {
					return nil
				},
			},
			{
				Exit: func(ctx context.Context) error {
					return errors.New("sample")
				},
			},
		},
		Async: []*oxdplugin.Methods{
			{
				Exit: func(ctx context.Context) error {
					return nil
				},
			},
			{
				Exit: func(ctx context.Context) error {
					return errors.New("sample")
				},
			},
		},
	}

	t.Run("full shutdown enabled", func(t *testing.T) {
		c := controller{
			shutdowner:         mockShutdowner,
			fullShutdown:       true,
			sessions:           sessionRepository,
			idleTimeoutMinutes: time.Duration(5) * time.Minute,
			pluginMethods:      pluginMethods,
			ideGateway:         mockIdeGateway,
		}
		c.refreshIdleTimer(ctx)

		core, recorded := observer.New(zap.ErrorLevel)
		c.logger = zap.New(core).Sugar()

		mockShutdowner.EXPECT().Shutdown().Return(nil).Times(1)
		c.Exit(ctx)
		c.wg.Wait()
		assert.Equal(t, 2, recorded.Len())
	})

	t.Run("full shutdown disabled", func(t *testing.T) {
		c := controller{
			shutdowner:         mockShutdowner,
			fullShutdown:       false,
			sessions:           sessionRepository,
			idleTimeoutMinutes: time.Duration(5) * time.Minute,
			pluginMethods:      pluginMethods,
			ideGateway:         mockIdeGateway,
		}
		c.refreshIdleTimer(ctx)

		core, recorded := observer.New(zap.ErrorLevel)
		c.logger = zap.New(core).Sugar()

		sessionRepository.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		c.Exit(ctx)
		c.wg.Wait()
		assert.Equal(t, 2, recorded.Len())

		// Ensure proper cleanup of running goroutine by calling again with full shutdown enabled.
		mockShutdowner.EXPECT().Shutdown().Return(nil).Times(1)
		c.fullShutdown = true
		c.Exit(ctx)
		time.Sleep(100 * time.Millisecond)
	})
}

func TestRequestFullShutdown(t *testing.T) {
	c := controller{}

	// fullShutdown is set to true
	assert.False(t, c.fullShutdown)
	c.RequestFullShutdown(context.Background())
	assert.True(t, c.fullShutdown)

	// Duplicate calls have no effect
	c.RequestFullShutdown(context.Background())
	assert.True(t, c.fullShutdown)
}

func TestInitSession(t *testing.T) {
	ctrl := gomock.NewController(t)

	sessionRepository := repositorymock.NewMockRepository(ctrl)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	mockShutdowner := fxmock.NewMockShutdowner(ctrl)
	mockShutdowner.EXPECT().Shutdown().Return(nil).AnyTimes()

	mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
	mockIdeGateway.EXPECT().RegisterClient(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	c := controller{
		sessions:           sessionRepository,
		shutdowner:         mockShutdowner,
		logger:             zap.NewNop().Sugar(),
		idleTimer:          time.NewTimer(time.Hour),
		idleTimeoutMinutes: time.Hour,
		ideGateway:         mockIdeGateway,
	}

	mockConn := jsonrpc2mock.NewMockConn(ctrl)
	var conn jsonrpc2.Conn = mockConn

	t.Run("value set successfully", func(t *testing.T) {
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
		sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(1, nil)
		id, err := c.InitSession(ctx, &conn)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.UUID{}, id)

		// Timer should be stopped when a value is set.
		assert.False(t, c.idleTimer.Stop())
	})

	t.Run("error setting value", func(t *testing.T) {
		sessionRepository.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("error"))
		sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(0, nil)
		_, err := c.InitSession(ctx, &conn)
		assert.Error(t, err)

		// Timer should be running when no sessions are active.
		assert.True(t, c.idleTimer.Stop())
	})
}

func TestEndSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessionRepository := repositorymock.NewMockRepository(ctrl)
	s := &entity.Session{
		UUID: factory.UUID(),
	}
	sessionRepository.EXPECT().SessionCount(gomock.Any()).Return(1, nil).AnyTimes()
	sessionRepository.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sessionRepository.EXPECT().GetFromContext(gomock.Any()).Return(s, nil).AnyTimes()

	ctx := context.WithValue(context.Background(), entity.SessionContextKey, s.UUID)

	mockIdeGateway := ideclientmock.NewMockGateway(ctrl)
	mockIdeGateway.EXPECT().DeregisterClient(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	pluginMethods := map[uuid.UUID]oxdplugin.RuntimePrioritizedMethods{s.UUID: oxdplugin.RuntimePrioritizedMethods{}}
	pluginMethods[s.UUID][oxdplugin.MethodEndSession] = oxdplugin.MethodLists{
		Sync: []*oxdplugin.Methods{
			{
				EndSession: func(ctx context.Context, uuid uuid.UUID) error {
					return nil
				},
			},
			{
				EndSession: func(ctx context.Context, uuid uuid.UUID) error {
					return errors.New("sample")
				},
			},
		},
		Async: []*oxdplugin.Methods{
			{
				EndSession: func(ctx context.Context, uuid uuid.UUID) error {
					return nil
				},
			},
			{
				EndSession: func(ctx context.Context, uuid uuid.UUID) error {
					return errors.New("sample")
				},
			},
		},
	}

	t.Run("plugins registered", func(t *testing.T) {
		c := controller{
			sessions:           sessionRepository,
			idleTimeoutMinutes: time.Duration(5) * time.Minute,
			pluginMethods:      pluginMethods,
			ideGateway:         mockIdeGateway,
			idleTimer:          time.NewTimer(time.Hour),
		}
		c.refreshIdleTimer(ctx)

		core, recorded := observer.New(zap.ErrorLevel)
		c.logger = zap.New(core).Sugar()

		c.EndSession(ctx, s.UUID)
		c.wg.Wait()
		assert.Equal(t, 2, recorded.Len())
	})

	t.Run("no plugins registered", func(t *testing.T) {
		c := controller{
			sessions:           sessionRepository,
			idleTimeoutMinutes: time.Duration(5) * time.Minute,
			pluginMethods:      map[uuid.UUID]oxdplugin.RuntimePrioritizedMethods{},
			ideGateway:         mockIdeGateway,
			idleTimer:          time.NewTimer(time.Hour),
		}
		c.refreshIdleTimer(ctx)

		core, recorded := observer.New(zap.ErrorLevel)
		c.logger = zap.New(core).Sugar()

		err := c.EndSession(ctx, s.UUID)
		c.wg.Wait()
		assert.Equal(t, 0, recorded.Len())
		assert.NoError(t, err)
	})
}
