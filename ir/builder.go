package ir

import "fmt"

// Builder inserts new instructions into a function body at a cursor
// position. Successive insertions keep program order, so a computation
// composed of several sub-instructions reads top to bottom.
type Builder struct {
	Shader *Shader
	Impl   *FunctionImpl

	block *Block
	index int
}

// NewBuilder creates a builder positioned at the end of the entry
// block of impl.
func NewBuilder(shader *Shader, impl *FunctionImpl) *Builder {
	b := &Builder{Shader: shader, Impl: impl}
	b.AtBlockEnd(impl.EntryBlock())
	return b
}

// AtBlockEnd positions the cursor after the last instruction of blk.
func (b *Builder) AtBlockEnd(blk *Block) {
	b.block = blk
	b.index = len(blk.Instrs)
}

// AfterInstr positions the cursor immediately after in.
func (b *Builder) AfterInstr(in *Instr) {
	blk := in.Block()
	if blk == nil {
		panic("ir: cursor after removed instruction")
	}
	b.block = blk
	b.index = blk.indexOf(in) + 1
}

// BeforeInstr positions the cursor immediately before in.
func (b *Builder) BeforeInstr(in *Instr) {
	blk := in.Block()
	if blk == nil {
		panic("ir: cursor before removed instruction")
	}
	b.block = blk
	b.index = blk.indexOf(in)
}

// Insert splices the instruction in at the cursor and advances the
// cursor past it.
func (b *Builder) Insert(in *Instr) *Instr {
	b.block.insertAt(b.index, in)
	b.index++
	return in
}

func (b *Builder) newDef(components uint8) Def {
	return Def{
		ID:            b.Impl.allocDefID(),
		NumComponents: components,
		BitSize:       32,
	}
}

// Imm materializes an immediate with the given 32-bit components.
func (b *Builder) Imm(components ...uint32) *Def {
	n := len(components)
	if n < 1 || n > 4 {
		panic(fmt.Sprintf("ir: immediate with %d components", n))
	}
	lc := &LoadConstInstr{Dest: b.newDef(uint8(n))}
	copy(lc.Value[:], components)
	b.Insert(newInstr(lc))
	return &lc.Dest
}

// ImmInt materializes a scalar 32-bit immediate.
func (b *Builder) ImmInt(v uint32) *Def {
	return b.Imm(v)
}

// Alu inserts a component-wise ALU instruction over the given sources.
// The destination width is the width of the first source.
func (b *Builder) Alu(op AluOp, srcs ...*Def) *Def {
	if len(srcs) != op.NumSrcs() {
		panic(fmt.Sprintf("ir: %s expects %d srcs, got %d", op, op.NumSrcs(), len(srcs)))
	}
	alu := &AluInstr{Op: op, Dest: b.newDef(srcs[0].NumComponents)}
	in := newInstr(alu)
	for _, s := range srcs {
		alu.Srcs = append(alu.Srcs, newSrc(in, s))
	}
	b.Insert(in)
	return &alu.Dest
}

// Mov copies a value.
func (b *Builder) Mov(x *Def) *Def { return b.Alu(AluMov, x) }

// IAdd inserts a component-wise integer add.
func (b *Builder) IAdd(x, y *Def) *Def { return b.Alu(AluIAdd, x, y) }

// IMul inserts a component-wise integer multiply.
func (b *Builder) IMul(x, y *Def) *Def { return b.Alu(AluIMul, x, y) }

// Channel extracts a single component of a vector value as a scalar,
// using a swizzled mov.
func (b *Builder) Channel(v *Def, c uint8) *Def {
	if c >= v.NumComponents {
		panic(fmt.Sprintf("ir: channel %d of %d-component value", c, v.NumComponents))
	}
	alu := &AluInstr{Op: AluMov, Dest: b.newDef(1)}
	in := newInstr(alu)
	s := newSrc(in, v)
	s.Swizzle = [4]uint8{c, c, c, c}
	alu.Srcs = append(alu.Srcs, s)
	b.Insert(in)
	return &alu.Dest
}

// Intrinsic inserts an intrinsic call with the given operands.
func (b *Builder) Intrinsic(op Intrinsic, srcs ...*Def) *Instr {
	info := op.Info()
	if len(srcs) != info.NumSrcs {
		panic(fmt.Sprintf("ir: %s expects %d srcs, got %d", op, info.NumSrcs, len(srcs)))
	}
	call := &IntrinsicInstr{Op: op}
	if info.HasDest {
		call.Dest = b.newDef(info.DestComponents)
	}
	in := newInstr(call)
	for _, s := range srcs {
		call.Srcs = append(call.Srcs, newSrc(in, s))
	}
	b.Insert(in)
	return in
}

// LoadSysVal inserts a read of a hardware-provided value and returns
// the loaded def.
func (b *Builder) LoadSysVal(op Intrinsic) *Def {
	return b.Intrinsic(op).Def()
}

// LoadVar inserts a read of a declared variable. The destination width
// comes from the variable's type.
func (b *Builder) LoadVar(v *Variable) *Def {
	load := &IntrinsicInstr{Op: IntrinsicLoadVar, Var: v}
	load.Dest = b.newDef(v.Type.Components())
	b.Insert(newInstr(load))
	return &load.Dest
}

// StoreVar inserts a write of value to a declared variable.
func (b *Builder) StoreVar(v *Variable, value *Def) *Instr {
	store := &IntrinsicInstr{Op: IntrinsicStoreVar, Var: v}
	in := newInstr(store)
	store.Srcs = append(store.Srcs, newSrc(in, value))
	b.Insert(in)
	return in
}

// Undef inserts an undefined value of the given width.
func (b *Builder) Undef(components uint8) *Def {
	u := &UndefInstr{Dest: b.newDef(components)}
	b.Insert(newInstr(u))
	return &u.Dest
}
