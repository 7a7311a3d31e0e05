package workspaceutils

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/oxc-community/oxlint-daemon/src/oxd/gateway/ide-client/ideclientmock"
	"github.com/oxc-community/oxlint-daemon/src/oxd/internal/fs/fsmock"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	assert.NotPanics(t, func() {
		New(Params{
			IdeGateway: ideclientmock.NewMockGateway(ctrl),
			Logger:     zap.NewNop().Sugar(),
			FS:         fsmock.NewMockOxdFS(ctrl),
		})
	})
}

func TestGetWorkspaceRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	fsMock := fsmock.NewMockOxdFS(ctrl)
	ideClientMock := ideclientmock.NewMockGateway(ctrl)

	c := workspaceUtilsImpl{
		logger:     zap.NewNop().Sugar(),
		ideGateway: ideClientMock,
		fs:         fsMock,
	}

	t.Run("valid workspace folders", func(t *testing.T) {
		sampleRoot := "/sample/root/project"
		workspaceFolders := []protocol.WorkspaceFolder{
			{
				URI: "file://" + sampleRoot,
			},
			{
				URI: "file://" + sampleRoot,
			},
		}

		fsMock.EXPECT().DirExists(sampleRoot).Return(true, nil).Times(len(workspaceFolders))
		result, err := c.GetWorkspaceRoot(ctx, workspaceFolders)

		assert.NoError(t, err)
		assert.Equal(t, sampleRoot, result)
	})

	t.Run("conflicting roots", func(t *testing.T) {
		sampleRoots := []string{"/sample/root/project", "/another/root"}
		workspaceFolders := []protocol.WorkspaceFolder{
			{
				URI: "file://" + sampleRoots[0],
			},
			{
				URI: "file://" + sampleRoots[1],
			},
		}

		for i := range workspaceFolders {
			folderPath, _ := url.Parse(workspaceFolders[i].URI)
			fsMock.EXPECT().DirExists(folderPath.Path).Return(true, nil)
		}

		ideClientMock.EXPECT().ShowMessage(gomock.Any(), gomock.Any()).Return(nil)
		result, err := c.GetWorkspaceRoot(ctx, workspaceFolders)

		assert.NoError(t, err)
		assert.Equal(t, sampleRoots[0], result)
	})

	t.Run("invalid uri skipped", func(t *testing.T) {
		sampleRoot := "/sample/root"
		workspaceFolders := []protocol.WorkspaceFolder{
			{
				URI: "file://" + sampleRoot + "/foo%2Gbar",
			},
			{
				URI: "file://" + sampleRoot + "/foo",
			},
		}

		folderPath, _ := url.Parse(workspaceFolders[1].URI)
		fsMock.EXPECT().DirExists(folderPath.Path).Return(true, nil)
		result, err := c.GetWorkspaceRoot(ctx, workspaceFolders)

		assert.NoError(t, err)
		assert.Equal(t, folderPath.Path, result)
	})

	t.Run("no workspace found", func(t *testing.T) {
		workspaceFolders := []protocol.WorkspaceFolder{
			{
				URI: "file:///sample/root/foo",
			},
		}

		fsMock.EXPECT().DirExists("/sample/root/foo").Return(false, errors.New("sample"))
		_, err := c.GetWorkspaceRoot(ctx, workspaceFolders)

		assert.Error(t, err)
	})

	t.Run("no folders", func(t *testing.T) {
		workspaceFolders := []protocol.WorkspaceFolder{}
		_, err := c.GetWorkspaceRoot(ctx, workspaceFolders)

		assert.Error(t, err)
	})
}
