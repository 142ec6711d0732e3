package closenicely

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOrDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	f, err := os.Create(filepath.Join(t.TempDir(), "shape_display.go"))
	if !assert.NoError(t, err) {
		return
	}
	OrDebug(f)
	assert.Zero(t, logs.Len())

	// closing twice fails
	OrDebug(f)
	if assert.Equal(t, 1, logs.Len()) {
		entry := logs.All()[0]
		assert.Equal(t, "could not close resource", entry.Message)
		assert.Equal(t, f.Name(), entry.ContextMap()["path"])
	}
}

func TestFuncOrDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	FuncOrDebug(func() error { return nil })
	FuncOrDebug(func() error { return errors.New("broken pipe") }, zap.String("output", "stdout"))
	if assert.Equal(t, 1, logs.Len()) {
		assert.Equal(t, "stdout", logs.All()[0].ContextMap()["output"])
	}
}
