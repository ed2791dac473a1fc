package passes

import "github.com/gogpu/nir/ir"

// DeadCode removes instructions whose values are never used and whose
// execution has no side effects. Worklist style: removing an
// instruction may strand its operands, which are then reconsidered.
// Reports whether anything was removed.
func DeadCode(impl *ir.FunctionImpl) bool {
	var worklist []*ir.Instr
	for _, b := range impl.Blocks {
		for _, in := range b.Instrs {
			worklist = append(worklist, in)
		}
	}

	progress := false
	for len(worklist) > 0 {
		in := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if in.Block() == nil || !isDead(in) {
			continue
		}

		// Operands lose a use; they may become dead themselves.
		for _, s := range in.Srcs() {
			worklist = append(worklist, s.Def().Instr)
		}
		in.Remove()
		progress = true
	}

	if progress {
		impl.Preserve(ir.MetadataBlockIndex | ir.MetadataDominance)
	}
	return progress
}

func isDead(in *ir.Instr) bool {
	d := in.Def()
	if d == nil || d.Uses() != 0 {
		return false
	}
	if call, ok := in.Kind.(*ir.IntrinsicInstr); ok {
		return call.Op.Info().CanEliminate
	}
	return true
}
