package passes

import "github.com/gogpu/nir/ir"

// LowerSystemValues replaces every read of a system-value variable
// with the hardware intrinsics that compute the equivalent value, then
// clears the shader's system-value declarations. Reports whether any
// rewrite occurred.
func LowerSystemValues(s *ir.Shader) bool {
	progress := false

	for _, fn := range s.Functions {
		if fn.Impl == nil {
			continue
		}
		if lowerSystemValuesImpl(s, fn.Impl) {
			progress = true
		}
	}

	// After this pass no instruction may reference the system-value
	// declaration class, whether or not anything was rewritten.
	s.SystemValues = s.SystemValues[:0]

	return progress
}

func lowerSystemValuesImpl(s *ir.Shader, impl *ir.FunctionImpl) bool {
	if len(impl.Blocks) == 0 {
		return false
	}
	b := ir.NewBuilder(s, impl)
	progress := false

	for _, block := range impl.Blocks {
		for _, instr := range block.SafeInstrs() {
			load, ok := instr.Kind.(*ir.IntrinsicInstr)
			if !ok || load.Op != ir.IntrinsicLoadVar {
				continue
			}
			if load.Var.Mode != ir.ModeSystemValue {
				continue
			}

			b.AfterInstr(instr)
			sysval := computeSystemValue(b, s, load.Var.SysVal)

			load.Dest.RewriteUses(sysval)
			instr.Remove()
			progress = true
		}
	}

	impl.Preserve(ir.MetadataBlockIndex | ir.MetadataDominance)
	return progress
}

// computeSystemValue builds the instruction sequence producing the
// given system value at the builder's cursor.
func computeSystemValue(b *ir.Builder, s *ir.Shader, sv ir.SystemValue) *ir.Def {
	switch sv {
	case ir.SysValGlobalInvocationID:
		// global_id = work_group_id * workgroup_size + local_invocation_id
		ws := s.Info.WorkgroupSize
		groupID := b.LoadSysVal(ir.IntrinsicLoadWorkGroupID)
		localID := b.LoadSysVal(ir.IntrinsicLoadLocalInvocationID)
		size := b.Imm(ws[0], ws[1], ws[2])
		return b.IAdd(b.IMul(groupID, size), localID)

	case ir.SysValLocalInvocationIndex:
		// index = local_id.z * size.x * size.y
		//       + local_id.y * size.x
		//       + local_id.x
		ws := s.Info.WorkgroupSize
		localID := b.LoadSysVal(ir.IntrinsicLoadLocalInvocationID)
		sizeX := b.ImmInt(ws[0])
		sizeY := b.ImmInt(ws[1])

		index := b.IMul(b.Channel(localID, 2), b.IMul(sizeX, sizeY))
		index = b.IAdd(index, b.IMul(b.Channel(localID, 1), sizeX))
		return b.IAdd(index, b.Channel(localID, 0))

	case ir.SysValVertexID:
		if s.Options != nil && s.Options.VertexIDZeroBased {
			return b.IAdd(
				b.LoadSysVal(ir.IntrinsicLoadVertexIDZeroBase),
				b.LoadSysVal(ir.IntrinsicLoadBaseVertex))
		}
		return b.LoadSysVal(ir.IntrinsicLoadVertexID)

	case ir.SysValInstanceIndex:
		return b.IAdd(
			b.LoadSysVal(ir.IntrinsicLoadInstanceID),
			b.LoadSysVal(ir.IntrinsicLoadBaseInstance))

	default:
		return b.LoadSysVal(ir.IntrinsicFromSystemValue(sv))
	}
}
