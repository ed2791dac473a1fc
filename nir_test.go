package nir

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/nir/ir"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const pipelineSource = `shader reduce compute
workgroup 8 1 1
decl output result u32
decl sysval gid global_invocation_id
func main {
block b0:
  %0 = @load_var gid
  %1 = mov %0.x
  @store_var result, %1
}
`

func TestLower_EndToEnd(t *testing.T) {
	shader, err := ParseShader(pipelineSource)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Logger = quietLogger()
	require.NoError(t, Lower(shader, opts))

	text := ir.Sprint(shader)
	assert.NotContains(t, text, "@load_var gid", "system-value read survived the pipeline")
	assert.Contains(t, text, "@load_work_group_id")
	assert.Contains(t, text, "@load_local_invocation_id")
	assert.Contains(t, text, "@store_var result")
	assert.Empty(t, shader.SystemValues)
}

func TestLower_CleanupCollectsDeadLoads(t *testing.T) {
	source := `shader wasteful vertex
decl sysval vid vertex_id
func main {
block b0:
  %0 = @load_var vid
}
`
	shader, err := ParseShader(source)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Logger = quietLogger()
	require.NoError(t, Lower(shader, opts))

	// The read's replacement has no users, so cleanup removes it too.
	assert.Empty(t, shader.Functions[0].Impl.EntryBlock().Instrs)
}

func TestLower_NoCleanupKeepsReplacement(t *testing.T) {
	shader, err := ParseShader(pipelineSource)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Logger = quietLogger()
	opts.Cleanup = false
	require.NoError(t, Lower(shader, opts))

	text := ir.Sprint(shader)
	assert.Contains(t, text, "mov", "without cleanup the lowered movs remain")
}

func TestLower_ZeroBasedVertexOption(t *testing.T) {
	source := `shader tri vertex
option vertex_id_zero_base
decl output pos u32
decl sysval vid vertex_id
func main {
block b0:
  %0 = @load_var vid
  @store_var pos, %0
}
`
	shader, err := ParseShader(source)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Logger = quietLogger()
	require.NoError(t, Lower(shader, opts))

	text := ir.Sprint(shader)
	assert.Contains(t, text, "@load_vertex_id_zero_base")
	assert.Contains(t, text, "@load_base_vertex")
	assert.NotContains(t, text, "@load_vertex_id\n", "raw vertex id must not be read with the option set")
}

func TestParseShader_Error(t *testing.T) {
	_, err := ParseShader("not a shader")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")
}

func TestLower_ValidateCatchesBrokenShader(t *testing.T) {
	shader := ir.NewShader(ir.StageVertex)
	fn := &ir.Function{Name: "main"}
	shader.Functions = append(shader.Functions, fn)
	// Body with no blocks fails validation.
	fn.Impl = &ir.FunctionImpl{Function: fn}

	opts := DefaultOptions()
	opts.Logger = quietLogger()
	err := Lower(shader, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
