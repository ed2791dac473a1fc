package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/nir/ir"
)

func emptyImpl(s *ir.Shader, name string) *ir.FunctionImpl {
	fn := &ir.Function{Name: name}
	s.Functions = append(s.Functions, fn)
	return ir.NewFunctionImpl(fn)
}

func TestDeadCode_RemovesUnusedChain(t *testing.T) {
	s := ir.NewShader(ir.StageCompute)
	impl := emptyImpl(s, "main")
	b := ir.NewBuilder(s, impl)

	// x and y feed only the unused sum; all three must go.
	x := b.ImmInt(1)
	y := b.ImmInt(2)
	b.IAdd(x, y)

	require.True(t, DeadCode(impl))
	assert.Empty(t, impl.EntryBlock().Instrs)
}

func TestDeadCode_KeepsLiveValues(t *testing.T) {
	s := ir.NewShader(ir.StageCompute)
	out := s.AddOutput("out", ir.ScalarType{Kind: ir.ScalarUint, Width: 4})
	impl := emptyImpl(s, "main")
	b := ir.NewBuilder(s, impl)

	live := b.ImmInt(1)
	b.ImmInt(2) // dead
	b.StoreVar(out, live)

	require.True(t, DeadCode(impl))

	block := impl.EntryBlock()
	require.Len(t, block.Instrs, 2)
	assert.Same(t, live.Instr, block.Instrs[0])
}

func TestDeadCode_KeepsSideEffects(t *testing.T) {
	s := ir.NewShader(ir.StageCompute)
	out := s.AddOutput("out", ir.ScalarType{Kind: ir.ScalarUint, Width: 4})
	impl := emptyImpl(s, "main")
	b := ir.NewBuilder(s, impl)

	b.StoreVar(out, b.ImmInt(1))

	assert.False(t, DeadCode(impl), "a store and its operand are both live")
	assert.Len(t, impl.EntryBlock().Instrs, 2)
}

func TestDeadCode_UnusedIntrinsicLoad(t *testing.T) {
	s := ir.NewShader(ir.StageCompute)
	impl := emptyImpl(s, "main")
	b := ir.NewBuilder(s, impl)

	b.LoadSysVal(ir.IntrinsicLoadWorkGroupID)

	require.True(t, DeadCode(impl), "an unused hardware load can be eliminated")
	assert.Empty(t, impl.EntryBlock().Instrs)
}

func TestDeadCode_NoProgressOnCleanBody(t *testing.T) {
	s := ir.NewShader(ir.StageCompute)
	impl := emptyImpl(s, "main")

	assert.False(t, DeadCode(impl))
}

func TestCopyElim_ForwardsIdentityMov(t *testing.T) {
	s := ir.NewShader(ir.StageCompute)
	out := s.AddOutput("out", ir.ScalarType{Kind: ir.ScalarUint, Width: 4})
	impl := emptyImpl(s, "main")
	b := ir.NewBuilder(s, impl)

	x := b.ImmInt(1)
	cp := b.Mov(x)
	store := b.StoreVar(out, cp)

	require.True(t, CopyElim(impl))
	assert.Same(t, x, store.Srcs()[0].Def(), "store must read through the mov")
	assert.Zero(t, cp.Uses(), "the mov must be left dead")

	// DeadCode then collects the mov.
	require.True(t, DeadCode(impl))
	assert.Len(t, impl.EntryBlock().Instrs, 2)
}

func TestCopyElim_KeepsSwizzledMov(t *testing.T) {
	s := ir.NewShader(ir.StageCompute)
	out := s.AddOutput("out", ir.ScalarType{Kind: ir.ScalarUint, Width: 4})
	impl := emptyImpl(s, "main")
	b := ir.NewBuilder(s, impl)

	vec := b.Imm(1, 2, 3)
	y := b.Channel(vec, 1)
	b.StoreVar(out, y)

	assert.False(t, CopyElim(impl), "a swizzled mov is not a copy")
}

func TestCopyElim_MovChain(t *testing.T) {
	s := ir.NewShader(ir.StageCompute)
	out := s.AddOutput("out", ir.ScalarType{Kind: ir.ScalarUint, Width: 4})
	impl := emptyImpl(s, "main")
	b := ir.NewBuilder(s, impl)

	x := b.ImmInt(1)
	store := b.StoreVar(out, b.Mov(b.Mov(x)))

	require.True(t, CopyElim(impl))
	assert.Same(t, x, store.Srcs()[0].Def(), "the chain must forward to the root value")
}
