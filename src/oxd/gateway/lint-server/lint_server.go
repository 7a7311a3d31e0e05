package lintserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/oxc-community/oxlint-daemon/src/oxd/entity"
	ideclient "github.com/oxc-community/oxlint-daemon/src/oxd/gateway/ide-client"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/errors"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/executor"
	"github.com/oxc-community/oxlint-daemon/src/oxd/repository/session"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// The linter binary speaks LSP over stdio when launched with this flag.
const _lspFlag = "--lsp"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Gateway manages one linter subprocess per workspace root and relays
// requests and notifications between the daemon and each subprocess.
type Gateway interface {
	// StartServer launches the linter for the given workspace root if it is not already running.
	StartServer(ctx context.Context, workspaceRoot string, binaryPath string) error
	// StopServer shuts down the linter for the given workspace root.
	StopServer(ctx context.Context, workspaceRoot string) error
	// IsRunning reports whether a linter subprocess is active for the given workspace root.
	IsRunning(workspaceRoot string) bool

	DidOpen(ctx context.Context, workspaceRoot string, params *protocol.DidOpenTextDocumentParams) error
	DidClose(ctx context.Context, workspaceRoot string, params *protocol.DidCloseTextDocumentParams) error
	DidSave(ctx context.Context, workspaceRoot string, params *protocol.DidSaveTextDocumentParams) error
	// CodeActions requests available code actions from the linter for the given document range.
	CodeActions(ctx context.Context, workspaceRoot string, params *protocol.CodeActionParams) ([]protocol.CodeAction, error)
}

// Params define values to be used by the lint server gateway.
type Params struct {
	fx.In

	Executor   executor.Executor
	IdeGateway ideclient.Gateway
	Lifecycle  fx.Lifecycle
	Logger     *zap.SugaredLogger
	Sessions   session.Repository
}

type serverInstance struct {
	conn jsonrpc2.Conn
	cmd  *exec.Cmd
}

type gateway struct {
	executor   executor.Executor
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	sessions   session.Repository

	servers   map[string]*serverInstance
	serversMu sync.Mutex

	// launchFunc is overridable in tests to avoid spawning a real subprocess.
	launchFunc func(ctx context.Context, workspaceRoot string, binaryPath string) (io.ReadWriteCloser, *exec.Cmd, error)
}

// New returns a Gateway which manages linter subprocesses.
func New(p Params) Gateway {
	g := &gateway{
		executor:   p.Executor,
		ideGateway: p.IdeGateway,
		logger:     p.Logger,
		sessions:   p.Sessions,
		servers:    make(map[string]*serverInstance),
	}
	g.launchFunc = g.launch

	p.Lifecycle.Append(fx.Hook{
		OnStop: g.stopAll,
	})

	return g
}

func (g *gateway) StartServer(ctx context.Context, workspaceRoot string, binaryPath string) error {
	g.serversMu.Lock()
	if _, ok := g.servers[workspaceRoot]; ok {
		g.serversMu.Unlock()
		return nil
	}
	g.serversMu.Unlock()

	rwc, cmd, err := g.launchFunc(ctx, workspaceRoot, binaryPath)
	if err != nil {
		return fmt.Errorf("launching linter for %q: %w", workspaceRoot, err)
	}

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, g.serverNotificationHandler(workspaceRoot))

	if err := g.initialize(ctx, conn, workspaceRoot); err != nil {
		conn.Close()
		return fmt.Errorf("initializing linter for %q: %w", workspaceRoot, err)
	}

	instance := &serverInstance{conn: conn, cmd: cmd}

	// Another caller may have completed a launch for the same root while this
	// one was in flight. Keep the registered instance and discard this one.
	g.serversMu.Lock()
	if _, ok := g.servers[workspaceRoot]; ok {
		g.serversMu.Unlock()
		conn.Notify(ctx, protocol.MethodExit, nil)
		conn.Close()
		if cmd != nil {
			go cmd.Wait()
		}
		return nil
	}
	g.servers[workspaceRoot] = instance
	g.serversMu.Unlock()

	// Reap the subprocess and clean up once it exits. Only the entry for this
	// instance is removed, in case the root has since been restarted.
	if cmd != nil {
		go func() {
			err := cmd.Wait()
			g.logger.Infow("linter subprocess exited", zap.String("workspaceRoot", workspaceRoot), zap.Error(err))
			g.serversMu.Lock()
			if g.servers[workspaceRoot] == instance {
				delete(g.servers, workspaceRoot)
			}
			g.serversMu.Unlock()
		}()
	}

	g.logger.Infow("linter started", zap.String("workspaceRoot", workspaceRoot), zap.String("binary", binaryPath))
	return nil
}

func (g *gateway) StopServer(ctx context.Context, workspaceRoot string) error {
	g.serversMu.Lock()
	instance, ok := g.servers[workspaceRoot]
	delete(g.servers, workspaceRoot)
	g.serversMu.Unlock()

	if !ok {
		return nil
	}

	// Best effort shutdown sequence, the connection is closed regardless.
	var result interface{}
	instance.conn.Call(ctx, protocol.MethodShutdown, nil, &result)
	instance.conn.Notify(ctx, protocol.MethodExit, nil)
	if err := instance.conn.Close(); err != nil {
		return fmt.Errorf("closing linter connection for %q: %w", workspaceRoot, err)
	}

	g.logger.Infow("linter stopped", zap.String("workspaceRoot", workspaceRoot))
	return nil
}

func (g *gateway) IsRunning(workspaceRoot string) bool {
	g.serversMu.Lock()
	defer g.serversMu.Unlock()

	_, ok := g.servers[workspaceRoot]
	return ok
}

func (g *gateway) DidOpen(ctx context.Context, workspaceRoot string, params *protocol.DidOpenTextDocumentParams) error {
	instance, err := g.getServer(workspaceRoot)
	if err != nil {
		return err
	}
	return instance.conn.Notify(ctx, protocol.MethodTextDocumentDidOpen, params)
}

func (g *gateway) DidClose(ctx context.Context, workspaceRoot string, params *protocol.DidCloseTextDocumentParams) error {
	instance, err := g.getServer(workspaceRoot)
	if err != nil {
		return err
	}
	return instance.conn.Notify(ctx, protocol.MethodTextDocumentDidClose, params)
}

func (g *gateway) DidSave(ctx context.Context, workspaceRoot string, params *protocol.DidSaveTextDocumentParams) error {
	instance, err := g.getServer(workspaceRoot)
	if err != nil {
		return err
	}
	return instance.conn.Notify(ctx, protocol.MethodTextDocumentDidSave, params)
}

func (g *gateway) CodeActions(ctx context.Context, workspaceRoot string, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	instance, err := g.getServer(workspaceRoot)
	if err != nil {
		return nil, err
	}

	result := []protocol.CodeAction{}
	if _, err := instance.conn.Call(ctx, protocol.MethodTextDocumentCodeAction, params, &result); err != nil {
		return nil, fmt.Errorf("requesting code actions: %w", err)
	}
	return result, nil
}

// launch starts the linter subprocess in LSP mode rooted at the given workspace.
func (g *gateway) launch(ctx context.Context, workspaceRoot string, binaryPath string) (io.ReadWriteCloser, *exec.Cmd, error) {
	cmd := exec.Command(binaryPath, _lspFlag)
	cmd.Dir = workspaceRoot
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("creating stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	if err := g.executor.StartCommand(cmd, os.Environ()); err != nil {
		return nil, nil, err
	}

	return &stdioConn{reader: stdout, writer: stdin}, cmd, nil
}

// initialize performs the LSP handshake with a newly launched linter.
func (g *gateway) initialize(ctx context.Context, conn jsonrpc2.Conn, workspaceRoot string) error {
	params := &protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
		RootURI:   uri.File(workspaceRoot),
		WorkspaceFolders: []protocol.WorkspaceFolder{
			{
				URI:  string(uri.File(workspaceRoot)),
				Name: "workspace",
			},
		},
	}

	var result protocol.InitializeResult
	if _, err := conn.Call(ctx, protocol.MethodInitialize, params, &result); err != nil {
		return err
	}
	return conn.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{})
}

// serverNotificationHandler relays diagnostics published by the linter to every
// editor session attached to the same workspace root.
func (g *gateway) serverNotificationHandler(workspaceRoot string) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() != protocol.MethodTextDocumentPublishDiagnostics {
			return reply(ctx, nil, nil)
		}

		params := protocol.PublishDiagnosticsParams{}
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, fmt.Errorf("parsing diagnostics: %w", err))
		}

		sessions, err := g.sessions.GetAllFromWorkspaceRoot(ctx, workspaceRoot)
		if err != nil {
			return reply(ctx, nil, err)
		}

		for _, s := range sessions {
			sessionCtx := context.WithValue(ctx, entity.SessionContextKey, s.UUID)
			if err := g.ideGateway.PublishDiagnostics(sessionCtx, &params); err != nil {
				g.logger.Errorw("relaying diagnostics", zap.Stringer("uuid", s.UUID), zap.Error(err))
			}
		}
		return reply(ctx, nil, nil)
	}
}

func (g *gateway) getServer(workspaceRoot string) (*serverInstance, error) {
	g.serversMu.Lock()
	defer g.serversMu.Unlock()

	instance, ok := g.servers[workspaceRoot]
	if !ok {
		return nil, &errors.LintServerUnavailableError{WorkspaceRoot: workspaceRoot}
	}
	return instance, nil
}

func (g *gateway) stopAll(ctx context.Context) error {
	g.serversMu.Lock()
	roots := make([]string, 0, len(g.servers))
	for root := range g.servers {
		roots = append(roots, root)
	}
	g.serversMu.Unlock()

	for _, root := range roots {
		if err := g.StopServer(ctx, root); err != nil {
			g.logger.Errorw("stopping linter", zap.String("workspaceRoot", root), zap.Error(err))
		}
	}
	return nil
}

// stdioConn joins a subprocess's stdout and stdin into a single stream.
type stdioConn struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (c *stdioConn) Read(p []byte) (int, error)  { return c.reader.Read(p) }
func (c *stdioConn) Write(p []byte) (int, error) { return c.writer.Write(p) }

func (c *stdioConn) Close() error {
	rErr := c.reader.Close()
	wErr := c.writer.Close()
	if wErr != nil {
		return wErr
	}
	return rErr
}
