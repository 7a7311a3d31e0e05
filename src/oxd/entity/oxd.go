// Package entity contains the domain types for the oxlint-daemon service.
package entity

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// LintConfigKey is the config key that contains the lint integration settings.
const LintConfigKey = "lint"

// Session entity representing a single IDE session.
type Session struct {
	UUID             uuid.UUID                  `json:"uuid" zap:"uuid"`
	InitializeParams *protocol.InitializeParams `json:"-" zap:"-"`
	Conn             *jsonrpc2.Conn             `json:"-" zap:"-"`
	WorkspaceRoot    string                     `json:"workspaceRoot" zap:"workspaceRoot"`

	// ResolvedBinaryPath is set iff the most recent activation decision for
	// this session returned activate. It must not be read before the first
	// decision has been recorded.
	ResolvedBinaryPath string `json:"resolvedBinaryPath" zap:"resolvedBinaryPath"`
	LintActive         bool   `json:"lintActive" zap:"lintActive"`
}

// LintSettings are the process-wide settings for the lint integration.
// A snapshot is passed into each activation decision so that the decision
// itself stays pure.
type LintSettings struct {
	// ActiveFilePatterns holds the file suffixes for which the integration
	// may activate.
	ActiveFilePatterns []string `yaml:"activeFilePatterns"`
	// AutofixOnSave arms the pre-save hook that applies all auto-fixable
	// diagnostics.
	AutofixOnSave bool `yaml:"autofixOnSave"`
	// ConfigFileName is the marker file searched for in ancestor directories.
	ConfigFileName string `yaml:"configFileName"`
	// BinaryName is the linter executable expected under node_modules/.bin.
	BinaryName string `yaml:"binaryName"`
}

// DefaultLintSettings returns the settings used when the config file leaves
// the lint section unset.
func DefaultLintSettings() LintSettings {
	return LintSettings{
		ActiveFilePatterns: []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".mts", ".cts", ".md", ".mdx"},
		AutofixOnSave:      false,
		ConfigFileName:     ".oxlintrc.json",
		BinaryName:         "oxlint",
	}
}
