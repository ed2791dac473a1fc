package passes

import "github.com/gogpu/nir/ir"

// CopyElim forwards the source of every identity mov to the mov's
// users. The movs themselves become dead and are left for DeadCode to
// collect. Reports whether any use was redirected.
func CopyElim(impl *ir.FunctionImpl) bool {
	progress := false
	for _, b := range impl.Blocks {
		for _, in := range b.Instrs {
			alu, ok := in.Kind.(*ir.AluInstr)
			if !ok || alu.Op != ir.AluMov {
				continue
			}
			src := alu.Srcs[0]
			if src.Def().NumComponents != alu.Dest.NumComponents {
				continue
			}
			if !src.IsIdentitySwizzle(alu.Dest.NumComponents) {
				continue
			}
			if alu.Dest.Uses() == 0 {
				continue
			}
			alu.Dest.RewriteUses(src.Def())
			progress = true
		}
	}

	if progress {
		impl.Preserve(ir.MetadataBlockIndex | ir.MetadataDominance)
	}
	return progress
}
