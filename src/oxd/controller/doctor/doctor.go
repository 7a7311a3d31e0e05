// Package doctor reports on the health of the lint setup for the current
// document. It re-runs each activation precondition individually and tells
// the user which ones hold, which ones fail, and how to fix them. The report
// is purely diagnostic: no state is changed and no subprocess is launched.
package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oxc-community/oxlint-daemon/src/oxd/entity"
	oxdplugin "github.com/oxc-community/oxlint-daemon/src/oxd/entity/oxd-plugin"
	ideclient "github.com/oxc-community/oxlint-daemon/src/oxd/gateway/ide-client"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/discover"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/fs"
	"github.com/oxc-community/oxlint-daemon/src/oxd/mapper"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey = "doctor"

	// CommandVerifySetup reports the lint setup status for a document.
	CommandVerifySetup = "oxd.verifySetup"
)

// Params defines the dependencies that will be available to this controller.
type Params struct {
	fx.In

	Config     config.Provider
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	FS         fs.OxdFS
}

// Controller defines the methods that this controller provides.
type Controller interface {
	StartupInfo(ctx context.Context) (oxdplugin.PluginInfo, error)
}

type controller struct {
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	fs         fs.OxdFS
	settings   entity.LintSettings
}

// checkResult is the outcome of a single setup check.
type checkResult struct {
	name   string
	ok     bool
	detail string
	// hint suggests a remediation, set only on failing checks.
	hint string
}

// New creates a new controller for setup verification.
func New(p Params) Controller {
	settings := entity.DefaultLintSettings()
	if err := p.Config.Get(entity.LintConfigKey).Populate(&settings); err != nil {
		panic(fmt.Sprintf("getting configuration for %q: %v", entity.LintConfigKey, err))
	}

	return &controller{
		ideGateway: p.IdeGateway,
		logger:     p.Logger.With("plugin", _nameKey),
		fs:         p.FS,
		settings:   settings,
	}
}

// StartupInfo returns PluginInfo for this controller.
func (c *controller) StartupInfo(ctx context.Context) (oxdplugin.PluginInfo, error) {
	priorities := map[string]oxdplugin.Priority{
		protocol.MethodInitialize:              oxdplugin.PriorityRegular,
		protocol.MethodWorkspaceExecuteCommand: oxdplugin.PriorityRegular,
	}

	methods := &oxdplugin.Methods{
		PluginNameKey: _nameKey,

		Initialize:     c.initialize,
		ExecuteCommand: c.executeCommand,
	}

	return oxdplugin.PluginInfo{
		Priorities: priorities,
		Methods:    methods,
		NameKey:    _nameKey,
	}, nil
}

func (c *controller) initialize(ctx context.Context, params *protocol.InitializeParams, result *protocol.InitializeResult) error {
	if err := mapper.InitializeResultAppendExecuteCommandProvider(result, &protocol.ExecuteCommandOptions{
		Commands: []string{CommandVerifySetup},
	}); err != nil {
		return fmt.Errorf("failed to append ExecuteCommandProvider: %w", err)
	}
	return nil
}

func (c *controller) executeCommand(ctx context.Context, params *protocol.ExecuteCommandParams) error {
	if params.Command != CommandVerifySetup {
		return nil
	}

	if len(params.Arguments) > 1 {
		return fmt.Errorf("invalid args format, expected at most the target document as a raw json message in the first entry")
	}

	// The target document is optional. Without one the report still covers the
	// workspace-independent checks, with the file-dependent ones failing.
	filename := ""
	if len(params.Arguments) == 1 {
		rawArg, ok := params.Arguments[0].([]uint8)
		if !ok {
			return fmt.Errorf("invalid args type, should be provided as raw json")
		}

		doc := protocol.TextDocumentIdentifier{}
		if err := json.Unmarshal(rawArg, &doc); err != nil {
			return fmt.Errorf("parsing target document: %w", err)
		}
		if doc.URI != "" {
			filename = doc.URI.Filename()
		}
	}

	results, err := c.runChecks(filename)
	if err != nil {
		return fmt.Errorf("verifying setup: %w", err)
	}

	target := filepath.Base(filename)
	if filename == "" {
		target = "this workspace"
	}

	report, allPassed := formatReport(target, results)
	if err := c.ideGateway.LogMessage(ctx, &protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: report,
	}); err != nil {
		return err
	}

	summary := fmt.Sprintf("Lint setup OK for %s.", target)
	messageType := protocol.MessageTypeInfo
	if !allPassed {
		summary = fmt.Sprintf("Lint setup has problems for %s. See the log for details.", target)
		messageType = protocol.MessageTypeWarning
	}
	return c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
		Type:    messageType,
		Message: summary,
	})
}

// runChecks evaluates each setup precondition independently so that the
// report covers everything that needs attention, not only the first failure.
func (c *controller) runChecks(filename string) ([]checkResult, error) {
	results := []checkResult{}
	dir := filepath.Dir(filename)

	// Without a document there is no directory to anchor the remaining
	// checks, so they are reported as failing rather than evaluated.
	if filename == "" {
		results = append(results, checkResult{
			name:   "file type",
			detail: "no document provided",
			hint:   fmt.Sprintf("open a supported file type (%s) and rerun the check", strings.Join(c.settings.ActiveFilePatterns, ", ")),
		})
		return results, nil
	}

	if discover.Matches(filename, c.settings.ActiveFilePatterns) {
		results = append(results, checkResult{
			name:   "file type",
			ok:     true,
			detail: fmt.Sprintf("%q matches the active file patterns", filepath.Ext(filename)),
		})
	} else {
		results = append(results, checkResult{
			name:   "file type",
			detail: fmt.Sprintf("%q does not match any active file pattern", filepath.Ext(filename)),
			hint:   fmt.Sprintf("linting covers: %s", strings.Join(c.settings.ActiveFilePatterns, ", ")),
		})
	}

	configDir, found, err := discover.FindAncestorContaining(c.fs, dir, c.settings.ConfigFileName)
	if err != nil {
		return nil, err
	}
	if found {
		results = append(results, checkResult{
			name:   "config file",
			ok:     true,
			detail: fmt.Sprintf("found %s", filepath.Join(configDir, c.settings.ConfigFileName)),
		})
	} else {
		results = append(results, checkResult{
			name:   "config file",
			detail: fmt.Sprintf("no %s found in this directory or any ancestor", c.settings.ConfigFileName),
			hint:   fmt.Sprintf("create %s at your project root", c.settings.ConfigFileName),
		})
	}

	marker := discover.BinaryMarker(c.settings.BinaryName)
	binDir, found, err := discover.FindAncestorContaining(c.fs, dir, marker)
	if err != nil {
		return nil, err
	}
	if !found {
		results = append(results, checkResult{
			name:   "linter binary",
			detail: fmt.Sprintf("no %s found in this directory or any ancestor", marker),
			hint:   fmt.Sprintf("install the linter, e.g. npm install --save-dev %s", c.settings.BinaryName),
		})
		return results, nil
	}

	binaryPath := filepath.Join(binDir, marker)
	results = append(results, checkResult{
		name:   "linter binary",
		ok:     true,
		detail: fmt.Sprintf("found %s", binaryPath),
	})

	executable, err := c.fs.IsExecutable(binaryPath)
	if err != nil {
		return nil, err
	}
	if executable {
		results = append(results, checkResult{
			name:   "binary permissions",
			ok:     true,
			detail: fmt.Sprintf("%s is executable", binaryPath),
		})
	} else {
		results = append(results, checkResult{
			name:   "binary permissions",
			detail: fmt.Sprintf("%s is not executable", binaryPath),
			hint:   fmt.Sprintf("run: chmod +x %s", binaryPath),
		})
	}

	return results, nil
}

func formatReport(target string, results []checkResult) (report string, allPassed bool) {
	var b strings.Builder
	allPassed = true

	fmt.Fprintf(&b, "Lint setup report for %s:\n", target)
	for _, r := range results {
		status := "PASS"
		if !r.ok {
			status = "FAIL"
			allPassed = false
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", status, r.name, r.detail)
		if r.hint != "" {
			fmt.Fprintf(&b, "         hint: %s\n", r.hint)
		}
	}
	return b.String(), allPassed
}
