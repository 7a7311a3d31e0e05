package workspaceutils

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	ideclient "github.com/oxc-community/oxlint-daemon/src/oxd/gateway/ide-client"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/fs"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a new WorkspaceUtils.
var Module = fx.Provide(New)

// WorkspaceUtils is a utility interface for getting workspace related information.
type WorkspaceUtils interface {
	GetWorkspaceRoot(ctx context.Context, workspaceFolders []protocol.WorkspaceFolder) (string, error)
}

// Params are the parameters required to create a new WorkspaceUtils.
type Params struct {
	fx.In

	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	FS         fs.OxdFS
}

type workspaceUtilsImpl struct {
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	fs         fs.OxdFS
}

// New creates a new WorkspaceUtils.
func New(p Params) WorkspaceUtils {
	return &workspaceUtilsImpl{
		ideGateway: p.IdeGateway,
		logger:     p.Logger,
		fs:         p.FS,
	}
}

// GetWorkspaceRoot resolves the session's workspace root from the folders sent
// by the editor. The first folder that exists on disk is used as the root.
func (c *workspaceUtilsImpl) GetWorkspaceRoot(ctx context.Context, workspaceFolders []protocol.WorkspaceFolder) (string, error) {
	if len(workspaceFolders) == 0 {
		return "", fmt.Errorf("no workspace folders provided")
	}

	// Find the workspace root and look for any conflicting folders.
	result := ""
	for _, folder := range workspaceFolders {
		// code-workspace files may contain improperly formatted or nonexistent folders.
		// only return an error if no workspace root can be found among any of the given folders.
		fileSystemPath, err := url.Parse(folder.URI)
		if err != nil {
			continue
		}

		exists, err := c.fs.DirExists(fileSystemPath.Path)
		if err != nil || !exists {
			continue
		}

		if result == "" {
			// First result will be used as the workspace root.
			result = fileSystemPath.Path
		} else if result != fileSystemPath.Path {
			// Any difference in subsequent results will be considered a conflict.
			msg := fmt.Sprintf("Workspace root is %q, but folder %q is also included. Lint activation will be based on %q only.", result, folder.URI, result)
			c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
				Type:    protocol.MessageTypeWarning,
				Message: msg,
			})
			c.logger.Warn(msg)
			break
		}
	}

	if result == "" {
		folderStrings := []string{}
		for _, folder := range workspaceFolders {
			folderStrings = append(folderStrings, folder.URI)
		}

		return "", fmt.Errorf("unable to determine a workspace root among the following searched folders: %v", strings.Join(folderStrings, ", "))
	}

	return strings.TrimSpace(result), nil
}
