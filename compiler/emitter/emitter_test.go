package emitter_test

import (
	"context"
	"errors"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comnipl/servify/compiler"
	"github.com/comnipl/servify/compiler/emitter"
	"github.com/comnipl/servify/compiler/plan"
)

func generate(t *testing.T, dir string) *plan.Plan {
	t.Helper()
	p, err := compiler.Generate(context.Background(), filepath.Join("..", "testdata", dir), compiler.DefaultOptions())
	require.NoError(t, err)
	require.NotEqual(t, plan.StatusFail, p.Status, "%v", p.Diagnostics)
	return p
}

func TestRenderCounter(t *testing.T) {
	t.Parallel()

	p := generate(t, "counter")
	files, err := emitter.New("").Render(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "simple_counter_servify.go", f.Path)
	src := string(f.Content)

	_, err = parser.ParseFile(token.NewFileSet(), f.Path, f.Content, parser.AllErrors)
	require.NoError(t, err, src)

	for _, want := range []string{
		"// Code generated by servify. DO NOT EDIT.",
		"package counter",
		"type SimpleCounterServer struct {\n\tcount int\n}",
		"type __increment_and_get_request struct {\n\tcount int\n}",
		"type __increment_and_get_response = int",
		"type __reset_response = struct{}",
		"type simple_counter_get = actor.Export[__get_request, __get_response]",
		"func (s SimpleCounterServer) __internal_get() int {",
		"func (s *SimpleCounterServer) __internal_set(count int) {",
		"return s.__internal_increment_and_get(req.count)",
		"s.__internal_reset()\n\treturn __reset_response{}",
		"type SimpleCounterMessage interface {",
		"func (SimpleCounterIncrementAndGet) Operation() string {\n\treturn \"increment_and_get\"\n}",
		"case SimpleCounterSet:\n\t\t\treturn m.Respond(s.Set(m.Request))",
		"func NewSimpleCounter(capacity int) (*actor.Receiver[SimpleCounterMessage], *SimpleCounterClient) {",
		"func (c *SimpleCounterClient) IncrementAndGet(ctx context.Context, count int) (__increment_and_get_response, error) {",
	} {
		assert.Contains(t, src, want)
	}
}

func TestRenderAddsBodyImports(t *testing.T) {
	t.Parallel()

	p := generate(t, "accumulator")
	files, err := emitter.New("").Render(context.Background(), p)
	require.NoError(t, err)
	src := string(files[0].Content)
	assert.Contains(t, src, `"strings"`)
	assert.Contains(t, src, "func (a *AccumulatorServer) AddHello(req __add_hello_request) __add_hello_response {")
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	p := generate(t, "split")
	a, err := emitter.New("").Render(context.Background(), p)
	require.NoError(t, err)
	b, err := emitter.New("").Render(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "counter/counter_servify.go", a[0].Path)
}

func TestApply(t *testing.T) {
	t.Parallel()

	p := generate(t, "counter")
	root := t.TempDir()

	dry := emitter.New(root)
	dry.DryRun = true
	changes, err := dry.Apply(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, emitter.OpCreate, changes[0].Op)
	_, err = os.Stat(filepath.Join(root, changes[0].Path))
	assert.True(t, errors.Is(err, os.ErrNotExist), "dry run wrote a file")

	e := emitter.New(root)
	changes, err = e.Apply(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, emitter.OpCreate, changes[0].Op)
	written, err := os.ReadFile(filepath.Join(root, changes[0].Path))
	require.NoError(t, err)
	assert.Equal(t, changes[0].Hash, plan.ContentHash(written))

	changes, err = e.Apply(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, emitter.OpUnchanged, changes[0].Op)

	require.NoError(t, os.WriteFile(filepath.Join(root, changes[0].Path), []byte("package counter\n"), 0o644))
	changes, err = e.Apply(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, emitter.OpUpdate, changes[0].Op)
}

func TestRenderRefusesFailedPlan(t *testing.T) {
	t.Parallel()

	p := &plan.Plan{SchemaVersion: plan.SchemaVersion, Status: plan.StatusFail}
	_, err := emitter.New(t.TempDir()).Apply(context.Background(), p)
	assert.ErrorIs(t, err, emitter.ErrFailedPlan)
}

func TestRenderRejectsBrokenType(t *testing.T) {
	t.Parallel()

	p := generate(t, "counter")
	m := p.Modules[0]
	m.Services[0].State[0].Type = "int int"
	_, err := emitter.New("").RenderService(m, m.Services[0])
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "SimpleCounter"), err.Error())
}
