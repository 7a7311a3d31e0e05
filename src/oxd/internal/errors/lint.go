package errors

import (
	stderr "errors"
	"fmt"
)

// NoFixableActionsError indicates that the linter returned no auto-fixable
// actions for a document. This is an expected condition: the automatic save
// hook swallows it, while the user-invoked fix command reports it as an
// informational message.
type NoFixableActionsError struct {
	URI string
}

// Error is an implementation of the error interface.
func (n *NoFixableActionsError) Error() string {
	return fmt.Sprintf("no fixable actions available for %q", n.URI)
}

// IsNoFixableActions reports whether NoFixableActionsError is part of the
// error chain.
func IsNoFixableActions(e error) bool {
	var nf *NoFixableActionsError
	return stderr.As(e, &nf)
}

// LintServerUnavailableError indicates that no linter subprocess is running
// for a session's workspace.
type LintServerUnavailableError struct {
	WorkspaceRoot string
}

// Error is an implementation of the error interface.
func (n *LintServerUnavailableError) Error() string {
	return fmt.Sprintf("no linter running for workspace %q", n.WorkspaceRoot)
}
