package passes

import (
	"testing"

	"github.com/gogpu/nir/ir"
)

// benchShader builds a compute shader with n system-value reads mixed
// into ordinary arithmetic.
func benchShader(n int) *ir.Shader {
	s := ir.NewShader(ir.StageCompute)
	s.Info.WorkgroupSize = [3]uint32{8, 8, 1}
	gid := s.AddSystemValue("gid", ir.SysValGlobalInvocationID)
	index := s.AddSystemValue("idx", ir.SysValLocalInvocationIndex)
	out := s.AddOutput("out", ir.ScalarType{Kind: ir.ScalarUint, Width: 4})

	fn := &ir.Function{Name: "main"}
	s.Functions = append(s.Functions, fn)
	impl := ir.NewFunctionImpl(fn)
	b := ir.NewBuilder(s, impl)

	acc := b.ImmInt(0)
	for i := 0; i < n; i++ {
		g := b.LoadVar(gid)
		idx := b.LoadVar(index)
		acc = b.IAdd(acc, b.IAdd(b.Channel(g, 0), idx))
	}
	b.StoreVar(out, acc)
	return s
}

// BenchmarkLowerSystemValues benchmarks the full pass over a body with
// 16 system-value reads.
func BenchmarkLowerSystemValues(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s := benchShader(16)
		b.StartTimer()
		LowerSystemValues(s)
	}
}

// BenchmarkDeadCode benchmarks dead-code collection after lowering.
func BenchmarkDeadCode(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s := benchShader(16)
		LowerSystemValues(s)
		impl := s.Functions[0].Impl
		b.StartTimer()
		DeadCode(impl)
	}
}
