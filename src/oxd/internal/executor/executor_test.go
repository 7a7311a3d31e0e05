package executor

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Instantiates the new Executor through fx provider
func fxExecutor(t *testing.T) (Executor, *observer.ObservedLogs) {
	var e Executor
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()

	fxtest.New(t,
		fx.Provide(
			func() Executor {
				return NewExecutor(WithLogger(logger))
			},
		),
		fx.Populate(&e),
	).RequireStart().RequireStop()

	return e, recorded
}

func TestStartCommand(t *testing.T) {
	e, recorded := fxExecutor(t)

	t.Run("StartCommandWithoutStdin", func(t *testing.T) {
		binPath, err := exec.LookPath("sleep")
		if errors.Is(err, exec.ErrNotFound) {
			t.Skip("no sleep available")
		}
		require.NoError(t, err)

		cmd := exec.Command("sleep", "0.01")
		cmd.Dir = "/"
		err = e.StartCommand(cmd, []string{"KEY1=VAL1"})
		assert.NoError(t, err)
		assert.NotNil(t, cmd.Process)
		assert.NoError(t, cmd.Wait())

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, map[string]interface{}{
			"Path": binPath,
			"Dir":  "/",
			"Args": []interface{}{"0.01"},
		}, logs[0].ContextMap())
	})

	t.Run("StartCommandWithStdin", func(t *testing.T) {
		_, err := exec.LookPath("true")
		if errors.Is(err, exec.ErrNotFound) {
			t.Skip("no true available")
		}
		require.NoError(t, err)

		cmd := exec.Command("true")
		cmd.Stdin = strings.NewReader("SomeInput")
		err = e.StartCommand(cmd, nil)
		assert.NoError(t, err)
		assert.NoError(t, cmd.Wait())

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, "SomeInput", logs[0].ContextMap()["Stdin"])
	})

	t.Run("fail", func(t *testing.T) {
		cmd := exec.Command("/nonexistent/binary")
		err := e.StartCommand(cmd, nil)
		assert.Error(t, err)
		recorded.TakeAll()
	})

	t.Run("missing StartFunc skips execution", func(t *testing.T) {
		noop := NewExecutor(WithStartFunc(nil))
		cmd := exec.Command("sleep", "100")
		err := noop.StartCommand(cmd, nil)
		assert.NoError(t, err)
		assert.Nil(t, cmd.Process)
	})
}
