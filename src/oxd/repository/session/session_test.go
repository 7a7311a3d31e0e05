package session

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"

	"github.com/oxc-community/oxlint-daemon/src/oxd/entity"
)

func newTestRepository() Repository {
	return New(tally.NoopScope)
}

func TestSetAndGet(t *testing.T) {
	r := newTestRepository()
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	s := &entity.Session{
		UUID:               id,
		WorkspaceRoot:      "/repo",
		ResolvedBinaryPath: "/repo/node_modules/.bin/oxlint",
		LintActive:         true,
	}
	require.NoError(t, r.Set(ctx, s))

	got, err := r.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestSetNil(t *testing.T) {
	r := newTestRepository()
	assert.Error(t, r.Set(context.Background(), nil))
}

func TestGetMissing(t *testing.T) {
	r := newTestRepository()
	_, err := r.Get(context.Background(), uuid.Must(uuid.NewV4()))
	assert.Error(t, err)
}

func TestGetFromContext(t *testing.T) {
	r := newTestRepository()
	id := uuid.Must(uuid.NewV4())
	require.NoError(t, r.Set(context.Background(), &entity.Session{UUID: id}))

	t.Run("present", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)
		s, err := r.GetFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, id, s.UUID)
	})

	t.Run("no uuid in context", func(t *testing.T) {
		_, err := r.GetFromContext(context.Background())
		assert.Error(t, err)
	})
}

func TestDeleteAndCount(t *testing.T) {
	r := newTestRepository()
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	require.NoError(t, r.Set(ctx, &entity.Session{UUID: id}))
	count, err := r.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, r.Delete(ctx, id))
	count, err = r.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Deleting an absent session is a no-op.
	assert.NoError(t, r.Delete(ctx, id))
}

func TestGetAllFromWorkspaceRoot(t *testing.T) {
	r := newTestRepository()
	ctx := context.Background()

	matching := []*entity.Session{
		{UUID: uuid.Must(uuid.NewV4()), WorkspaceRoot: "/repo"},
		{UUID: uuid.Must(uuid.NewV4()), WorkspaceRoot: "/repo"},
	}
	other := &entity.Session{UUID: uuid.Must(uuid.NewV4()), WorkspaceRoot: "/other"}

	for _, s := range append(matching, other) {
		require.NoError(t, r.Set(ctx, s))
	}

	found, err := r.GetAllFromWorkspaceRoot(ctx, "/repo")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	for _, s := range found {
		assert.Equal(t, "/repo", s.WorkspaceRoot)
	}
}
