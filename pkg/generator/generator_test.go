package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klothoplatform/displaygen/pkg/config"
	"github.com/klothoplatform/displaygen/pkg/diagnostics"
)

const connSource = `
	package netutil

	//display("connection to {Host} refused")
	type ConnError struct {
		Host string
	}

	type Unrelated struct{}
	`

const shapeSource = `
	package netutil

	//display("shape")
	type Shape interface{ isShape() }

	//display("circle r={Radius}")
	type Circle struct{ Radius float64 }

	func (Circle) isShape() {}
	`

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(dedent.Dedent(content)), 0644))
	}
	return dir
}

func options(dir string, edit ...func(*config.Config)) Options {
	cfg := config.Defaults()
	for _, e := range edit {
		e(&cfg)
	}
	return Options{Config: cfg, Paths: []string{dir}}
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"errors.go": connSource,
		"shape.go":  shapeSource,
		"plain.go":  "package netutil\n\ntype Plain struct{}\n",
	})

	result, err := Run(context.Background(), options(dir))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]string{
		filepath.Join(dir, "errors_display.go"),
		filepath.Join(dir, "shape_display.go"),
	}, result.Written)
	assert.EqualValues(2, result.Types)
	assert.NoFileExists(filepath.Join(dir, "plain_display.go"))

	content, err := os.ReadFile(filepath.Join(dir, "shape_display.go"))
	require.NoError(t, err)
	assert.Contains(string(content), "// Code generated by displaygen; DO NOT EDIT.")
	assert.Contains(string(content), "func formatShape(v Shape) string {")
	assert.Contains(string(content), "func (e Circle) String() string {")

	// a second run finds everything up to date, and does not pick up its own outputs
	again, err := Run(context.Background(), options(dir))
	require.NoError(t, err)
	assert.Empty(again.Written)
	assert.Len(again.Outputs, 2)
}

func TestRun_Check(t *testing.T) {
	dir := writeSources(t, map[string]string{"errors.go": connSource})

	result, err := Run(context.Background(), Options{Config: config.Defaults(), Paths: []string{dir}, Check: true})
	require.ErrorIs(t, err, ErrStale)
	out := filepath.Join(dir, "errors_display.go")
	require.Contains(t, result.Stale, out)
	assert.Contains(t, result.Stale[out], "+func (e ConnError) String() string {")
	assert.NoFileExists(t, out)

	_, err = Run(context.Background(), options(dir))
	require.NoError(t, err)

	result, err = Run(context.Background(), Options{Config: config.Defaults(), Paths: []string{dir}, Check: true})
	require.NoError(t, err)
	assert.Empty(t, result.Stale)
}

func TestRun_Stdout(t *testing.T) {
	dir := writeSources(t, map[string]string{"errors.go": connSource})
	buf := new(bytes.Buffer)

	opts := options(dir)
	opts.Stdout = buf
	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(buf.String(), "// "+filepath.Join(dir, "errors_display.go")+"\n"))
	assert.Contains(t, buf.String(), `return fmt.Sprintf("connection to %v refused", e.Host)`)
	assert.NoFileExists(t, filepath.Join(dir, "errors_display.go"))
}

func TestRun_TypeFilter(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"errors.go": connSource,
		"shape.go":  shapeSource,
	})

	t.Run("variant selects its interface", func(t *testing.T) {
		opts := options(dir, func(c *config.Config) { c.Types = []string{"Circle"} })
		opts.Stdout = new(bytes.Buffer)
		result, err := Run(context.Background(), opts)
		require.NoError(t, err)
		require.Len(t, result.Outputs, 1)
		assert.Equal(t, filepath.Join(dir, "shape_display.go"), result.Outputs[0].FPath)
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := Run(context.Background(), options(dir, func(c *config.Config) { c.Types = []string{"ConnError", "Missing"} }))
		require.Error(t, err)
		ds := diagnostics.Of(err)
		require.Len(t, ds, 1)
		assert.Equal(t, diagnostics.TypeNotFound, ds[0].Kind)
		assert.Equal(t, "type Missing not found", ds[0].Message)
	})

	t.Run("named type without template", func(t *testing.T) {
		_, err := Run(context.Background(), options(dir, func(c *config.Config) { c.Types = []string{"Unrelated"} }))
		require.Error(t, err)
		ds := diagnostics.Of(err)
		require.Len(t, ds, 1)
		assert.Equal(t, diagnostics.MissingTemplate, ds[0].Kind)
		assert.Equal(t, "missing `display` directive for struct Unrelated", ds[0].Message)
	})
}

func TestRun_CombinesFailures(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"a.go": `
			package netutil

			//display("{Missing}")
			type A struct{}
			`,
		"b.go": `
			package netutil

			//display
			type B struct{}
			`,
	})

	_, err := Run(context.Background(), options(dir))
	require.Error(t, err)
	ds := diagnostics.Of(err)
	require.Len(t, ds, 2)
	assert.Equal(t, diagnostics.UnknownFieldReference, ds[0].Kind)
	assert.Equal(t, filepath.Join(dir, "a.go"), ds[0].Span.File)
	assert.Equal(t, diagnostics.MalformedAttributeForm, ds[1].Kind)
	assert.Equal(t, filepath.Join(dir, "b.go"), ds[1].Span.File)
	assert.NoFileExists(t, filepath.Join(dir, "a_display.go"))
}

func TestRun_CustomTriggerAndReceiver(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"errors.go": `
			package netutil

			//show("timeout after {Seconds}s")
			type Timeout struct{ Seconds int }
			`,
	})
	buf := new(bytes.Buffer)
	opts := options(dir, func(c *config.Config) {
		c.Trigger = "show"
		c.Receiver = "err"
		c.Suffix = "_string.go"
	})
	opts.Stdout = buf

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, filepath.Join(dir, "errors_string.go"), result.Outputs[0].FPath)
	assert.Contains(t, buf.String(), "func (err Timeout) Error() string {\n\treturn err.String()\n}")
}

func TestRun_VariantOfTwoInterfaces(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"events.go": `
			package netutil

			//display("a")
			type A interface{ isA() }

			//display("b")
			type B interface{ isB() }

			type Both struct{}

			func (Both) isA() {}
			func (Both) isB() {}
			`,
	})

	_, err := Run(context.Background(), options(dir, func(c *config.Config) { c.Types = []string{"A", "B"} }))
	require.Error(t, err)
	ds := diagnostics.Of(err)
	require.Len(t, ds, 1)
	assert.Equal(t, diagnostics.UnsupportedShape, ds[0].Kind)
	assert.Equal(t, "Both is a variant of both A and B, displaygen can derive only one of them", ds[0].Message)
}

func TestRun_SyntaxError(t *testing.T) {
	dir := writeSources(t, map[string]string{"broken.go": "package netutil\n\ntype X struct {\n"})

	_, err := Run(context.Background(), options(dir))
	require.Error(t, err)
	assert.Equal(t, diagnostics.InvalidSource, diagnostics.Of(err)[0].Kind)
}
