// Package oxlint integrates the oxlint language server into the daemon.
// It decides per-document whether linting should activate, manages the
// linter subprocess through the lint-server gateway, and applies autofixes
// both on save and on demand.
package oxlint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/oxc-community/oxlint-daemon/src/oxd/entity"
	oxdplugin "github.com/oxc-community/oxlint-daemon/src/oxd/entity/oxd-plugin"
	ideclient "github.com/oxc-community/oxlint-daemon/src/oxd/gateway/ide-client"
	lintserver "github.com/oxc-community/oxlint-daemon/src/oxd/gateway/lint-server"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/discover"
	oxderrors "github.com/oxc-community/oxlint-daemon/src/oxd/internal/errors"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/fs"
	"github.com/oxc-community/oxlint-daemon/src/oxd/mapper"
	"github.com/oxc-community/oxlint-daemon/src/oxd/repository/session"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "oxlint"

	// CommandFixAll applies every auto-fixable lint diagnostic in a document.
	CommandFixAll = "oxd.fixAll"

	// CodeActionKindFixAll is the code action kind advertised for linter autofixes.
	CodeActionKindFixAll protocol.CodeActionKind = "source.fixAll.oxc"
)

// Params defines the dependencies that will be available to this controller.
type Params struct {
	fx.In

	Config     config.Provider
	IdeGateway ideclient.Gateway
	LintServer lintserver.Gateway
	Sessions   session.Repository
	Logger     *zap.SugaredLogger
	FS         fs.OxdFS
}

// Controller defines the methods that this controller provides.
type Controller interface {
	StartupInfo(ctx context.Context) (oxdplugin.PluginInfo, error)
}

type controller struct {
	ideGateway ideclient.Gateway
	lintServer lintserver.Gateway
	sessions   session.Repository
	logger     *zap.SugaredLogger
	fs         fs.OxdFS
	settings   entity.LintSettings
}

// New creates a new controller for the lint integration.
func New(p Params) Controller {
	settings := entity.DefaultLintSettings()
	if err := p.Config.Get(entity.LintConfigKey).Populate(&settings); err != nil {
		panic(fmt.Sprintf("getting configuration for %q: %v", entity.LintConfigKey, err))
	}

	return &controller{
		ideGateway: p.IdeGateway,
		lintServer: p.LintServer,
		sessions:   p.Sessions,
		logger:     p.Logger.With("plugin", _nameKey),
		fs:         p.FS,
		settings:   settings,
	}
}

// StartupInfo returns PluginInfo for this controller.
func (c *controller) StartupInfo(ctx context.Context) (oxdplugin.PluginInfo, error) {
	// Set a priority for each method that this module provides.
	priorities := map[string]oxdplugin.Priority{
		protocol.MethodInitialize:                     oxdplugin.PriorityRegular,
		protocol.MethodTextDocumentDidOpen:            oxdplugin.PriorityRegular,
		protocol.MethodTextDocumentDidClose:           oxdplugin.PriorityAsync,
		protocol.MethodTextDocumentWillSaveWaitUntil:  oxdplugin.PriorityRegular,
		protocol.MethodTextDocumentDidSave:            oxdplugin.PriorityAsync,
		protocol.MethodTextDocumentCodeAction:         oxdplugin.PriorityRegular,
		protocol.MethodWorkspaceExecuteCommand:        oxdplugin.PriorityRegular,
		oxdplugin.MethodEndSession:                    oxdplugin.PriorityRegular,
	}

	// Assign method keys to implementations.
	methods := &oxdplugin.Methods{
		PluginNameKey: _nameKey,

		Initialize:        c.initialize,
		DidOpen:           c.didOpen,
		DidClose:          c.didClose,
		WillSaveWaitUntil: c.willSaveWaitUntil,
		DidSave:           c.didSave,
		CodeAction:        c.codeAction,
		ExecuteCommand:    c.executeCommand,
		EndSession:        c.endSession,
	}

	return oxdplugin.PluginInfo{
		Priorities: priorities,
		Methods:    methods,
		NameKey:    _nameKey,
	}, nil
}

func (c *controller) initialize(ctx context.Context, params *protocol.InitializeParams, result *protocol.InitializeResult) error {
	if err := mapper.InitializeResultAppendCodeActionProvider(result, &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{CodeActionKindFixAll},
	}); err != nil {
		return fmt.Errorf("failed to append CodeActionProvider: %w", err)
	}

	if err := mapper.InitializeResultAppendExecuteCommandProvider(result, &protocol.ExecuteCommandOptions{
		Commands: []string{CommandFixAll},
	}); err != nil {
		return fmt.Errorf("failed to append ExecuteCommandProvider: %w", err)
	}

	return nil
}

// didOpen runs the activation check for the opened document and starts or
// skips the linter accordingly. Activation requires all of: a non-empty
// directory component, a matching file suffix, a config file in an ancestor
// directory, and the linter binary in an ancestor node_modules/.bin.
func (c *controller) didOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	decision, err := discover.Decide(c.fs, c.settings, params.TextDocument.URI.Filename())
	if err != nil {
		return fmt.Errorf("running activation check: %w", err)
	}

	s.LintActive = decision.Activated
	s.ResolvedBinaryPath = decision.BinaryPath
	if decision.Activated && s.WorkspaceRoot == "" {
		// Sessions without a resolvable workspace root fall back to the
		// directory that contains the lint config.
		s.WorkspaceRoot = decision.ConfigDir
	}
	if err := c.sessions.Set(ctx, s); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	if !decision.Activated {
		c.logger.Debugw("lint not activated for document", "uri", params.TextDocument.URI)
		return nil
	}

	if err := c.lintServer.StartServer(ctx, s.WorkspaceRoot, decision.BinaryPath); err != nil {
		return fmt.Errorf("starting linter: %w", err)
	}

	return c.lintServer.DidOpen(ctx, s.WorkspaceRoot, params)
}

func (c *controller) didClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}
	if !s.LintActive {
		return nil
	}

	if err := c.lintServer.DidClose(ctx, s.WorkspaceRoot, params); err != nil {
		var unavailable *oxderrors.LintServerUnavailableError
		if errors.As(err, &unavailable) {
			return nil
		}
		return err
	}
	return nil
}

// willSaveWaitUntil applies pending autofixes before the document is written
// to disk. The hook is armed only when autofix on save is enabled, and a
// document with nothing left to fix produces no edits, so repeated saves
// converge after a single pass.
func (c *controller) willSaveWaitUntil(ctx context.Context, params *protocol.WillSaveTextDocumentParams, result *[]protocol.TextEdit) error {
	if !c.settings.AutofixOnSave {
		return nil
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}
	if !s.LintActive {
		return nil
	}

	edits, err := c.fixEdits(ctx, s, params.TextDocument.URI)
	if err != nil {
		if oxderrors.IsNoFixableActions(err) {
			return nil
		}
		var unavailable *oxderrors.LintServerUnavailableError
		if errors.As(err, &unavailable) {
			c.logger.Warnw("skipping autofix on save", "uri", params.TextDocument.URI, zap.Error(err))
			return nil
		}
		return fmt.Errorf("collecting autofix edits: %w", err)
	}

	*result = append(*result, edits...)
	return nil
}

func (c *controller) didSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}
	if !s.LintActive {
		return nil
	}

	if err := c.lintServer.DidSave(ctx, s.WorkspaceRoot, params); err != nil {
		var unavailable *oxderrors.LintServerUnavailableError
		if errors.As(err, &unavailable) {
			return nil
		}
		return err
	}
	return nil
}

func (c *controller) codeAction(ctx context.Context, params *protocol.CodeActionParams, result *[]protocol.CodeAction) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}
	if !s.LintActive {
		return nil
	}

	actions, err := c.lintServer.CodeActions(ctx, s.WorkspaceRoot, params)
	if err != nil {
		var unavailable *oxderrors.LintServerUnavailableError
		if errors.As(err, &unavailable) {
			return nil
		}
		return fmt.Errorf("getting lint code actions: %w", err)
	}

	*result = append(*result, actions...)
	return nil
}

func (c *controller) executeCommand(ctx context.Context, params *protocol.ExecuteCommandParams) error {
	if params.Command != CommandFixAll {
		return nil
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session: %w", err)
	}

	if len(params.Arguments) != 1 {
		return fmt.Errorf("invalid args format, expected the target document as a raw json message in the first entry")
	}
	rawArg, ok := params.Arguments[0].([]uint8)
	if !ok {
		return fmt.Errorf("invalid args type, should be provided as raw json")
	}

	doc := protocol.TextDocumentIdentifier{}
	if err := json.Unmarshal(rawArg, &doc); err != nil {
		return fmt.Errorf("parsing target document: %w", err)
	}

	if !s.LintActive {
		return c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
			Type:    protocol.MessageTypeInfo,
			Message: "Linting is not active for this file, so there is nothing to fix.",
		})
	}

	edits, err := c.fixEdits(ctx, s, doc.URI)
	if err != nil {
		// A document with nothing to fix is an expected outcome for the
		// user-invoked command, and gets an informational message.
		if oxderrors.IsNoFixableActions(err) {
			return c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
				Type:    protocol.MessageTypeInfo,
				Message: "No auto-fixable lint problems in the current file.",
			})
		}
		return fmt.Errorf("collecting autofix edits: %w", err)
	}

	applyResult, err := c.ideGateway.ApplyEdit(ctx, &protocol.ApplyWorkspaceEditParams{
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				doc.URI: edits,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("applying autofix edits: %w", err)
	}
	if applyResult != nil && !applyResult.Applied {
		c.logger.Warnw("autofix edits were rejected by the editor", "uri", doc.URI, "reason", applyResult.FailureReason)
	}
	return nil
}

// endSession stops the linter for this session's workspace once no other
// session is attached to it. The session is still present in the repository
// at this point.
func (c *controller) endSession(ctx context.Context, id uuid.UUID) error {
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return nil
	}
	if s.WorkspaceRoot == "" {
		return nil
	}

	remaining, err := c.sessions.GetAllFromWorkspaceRoot(ctx, s.WorkspaceRoot)
	if err != nil {
		return fmt.Errorf("listing sessions for workspace: %w", err)
	}
	if len(remaining) > 1 {
		return nil
	}

	return c.lintServer.StopServer(ctx, s.WorkspaceRoot)
}

// fixEdits requests autofix code actions from the linter and flattens the
// edits that target the given document.
func (c *controller) fixEdits(ctx context.Context, s *entity.Session, docURI protocol.DocumentURI) ([]protocol.TextEdit, error) {
	actions, err := c.lintServer.CodeActions(ctx, s.WorkspaceRoot, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Context: protocol.CodeActionContext{
			Only: []protocol.CodeActionKind{CodeActionKindFixAll},
		},
	})
	if err != nil {
		return nil, err
	}

	edits := []protocol.TextEdit{}
	for _, action := range actions {
		if action.Edit == nil {
			continue
		}
		for changedURI, changes := range action.Edit.Changes {
			if changedURI != docURI {
				continue
			}
			edits = append(edits, changes...)
		}
	}

	if len(edits) == 0 {
		return nil, &oxderrors.NoFixableActionsError{URI: string(docURI)}
	}
	return edits, nil
}
