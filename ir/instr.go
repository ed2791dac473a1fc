package ir

import "fmt"

// Instr is one instruction. Kind selects the variant; value-producing
// variants carry a Def as their SSA destination.
type Instr struct {
	Kind  InstrKind
	block *Block
}

// InstrKind represents the different kinds of instructions.
type InstrKind interface {
	instrKind()

	// def returns the variant's SSA destination, or nil for
	// instructions that produce no value.
	def() *Def
}

// Block returns the block currently containing the instruction, or nil
// if it has been removed.
func (in *Instr) Block() *Block { return in.block }

// Def returns the instruction's SSA destination, or nil if the
// instruction produces no value.
func (in *Instr) Def() *Def { return in.Kind.def() }

// Srcs returns the instruction's operand use sites.
func (in *Instr) Srcs() []*Src {
	switch k := in.Kind.(type) {
	case *AluInstr:
		return k.Srcs
	case *IntrinsicInstr:
		return k.Srcs
	default:
		return nil
	}
}

// Def is the SSA destination of a value-producing instruction.
// Every use of the value is a *Src tracked in the def's use set.
type Def struct {
	// ID is the value number, unique within the function body.
	ID uint32

	// NumComponents is the vector width of the value (1-4).
	NumComponents uint8

	// BitSize is the width of each component in bits.
	BitSize uint8

	// Instr points back at the defining instruction.
	Instr *Instr

	uses map[*Src]struct{}
}

// Uses returns the number of use sites currently referencing the def.
func (d *Def) Uses() int { return len(d.uses) }

// UseList returns the use sites referencing the def. Order is
// unspecified.
func (d *Def) UseList() []*Src {
	out := make([]*Src, 0, len(d.uses))
	for s := range d.uses {
		out = append(out, s)
	}
	return out
}

// RewriteUses redirects every use of d to rep. After the call d has no
// uses and every former use site resolves to rep.
func (d *Def) RewriteUses(rep *Def) {
	if d == rep {
		return
	}
	for s := range d.uses {
		s.def = rep
		rep.addUse(s)
	}
	d.uses = nil
}

func (d *Def) addUse(s *Src) {
	if d.uses == nil {
		d.uses = make(map[*Src]struct{}, 2)
	}
	d.uses[s] = struct{}{}
}

func (d *Def) removeUse(s *Src) {
	delete(d.uses, s)
}

// Src is one use site of an SSA value: the using instruction plus a
// per-component swizzle applied to the value.
type Src struct {
	// Parent is the instruction the operand belongs to.
	Parent *Instr

	// Swizzle selects, per destination component, which source
	// component is read. The identity swizzle is {0,1,2,3}.
	Swizzle [4]uint8

	def *Def
}

// Def returns the value the use site references.
func (s *Src) Def() *Def { return s.def }

// SetDef repoints the use site at a new value, updating both defs' use
// sets.
func (s *Src) SetDef(d *Def) {
	if s.def != nil {
		s.def.removeUse(s)
	}
	s.def = d
	if d != nil {
		d.addUse(s)
	}
}

// IsIdentitySwizzle reports whether the first n swizzle components are
// the identity mapping.
func (s *Src) IsIdentitySwizzle(n uint8) bool {
	for i := uint8(0); i < n; i++ {
		if s.Swizzle[i] != i {
			return false
		}
	}
	return true
}

func identitySwizzle() [4]uint8 { return [4]uint8{0, 1, 2, 3} }

// newSrc creates a use site of d owned by parent with the identity
// swizzle and registers it in d's use set.
func newSrc(parent *Instr, d *Def) *Src {
	s := &Src{Parent: parent, Swizzle: identitySwizzle()}
	s.SetDef(d)
	return s
}

// AluInstr is a component-wise ALU operation.
type AluInstr struct {
	Op   AluOp
	Dest Def
	Srcs []*Src
}

func (a *AluInstr) instrKind() {}
func (a *AluInstr) def() *Def  { return &a.Dest }

// AluOp enumerates the ALU operations.
type AluOp uint8

const (
	AluMov AluOp = iota
	AluINeg
	AluIAdd
	AluISub
	AluIMul
	AluUMin
	AluUMax
)

var aluOpNames = [...]string{
	AluMov:  "mov",
	AluINeg: "ineg",
	AluIAdd: "iadd",
	AluISub: "isub",
	AluIMul: "imul",
	AluUMin: "umin",
	AluUMax: "umax",
}

// String returns the ALU op mnemonic.
func (op AluOp) String() string {
	if int(op) < len(aluOpNames) {
		return aluOpNames[op]
	}
	return fmt.Sprintf("alu(%d)", uint8(op))
}

// NumSrcs returns the operand count of the ALU op.
func (op AluOp) NumSrcs() int {
	switch op {
	case AluMov, AluINeg:
		return 1
	default:
		return 2
	}
}

// LoadConstInstr materializes an immediate value of up to four 32-bit
// components.
type LoadConstInstr struct {
	Dest  Def
	Value [4]uint32
}

func (lc *LoadConstInstr) instrKind() {}
func (lc *LoadConstInstr) def() *Def  { return &lc.Dest }

// IntrinsicInstr is a call to a hardware or compiler intrinsic.
type IntrinsicInstr struct {
	Op   Intrinsic
	Dest Def
	Srcs []*Src

	// Var is the referenced variable for LoadVar / StoreVar.
	Var *Variable
}

func (in *IntrinsicInstr) instrKind() {}

func (in *IntrinsicInstr) def() *Def {
	if !in.Op.Info().HasDest {
		return nil
	}
	return &in.Dest
}

// UndefInstr produces an undefined value.
type UndefInstr struct {
	Dest Def
}

func (u *UndefInstr) instrKind() {}
func (u *UndefInstr) def() *Def  { return &u.Dest }

// newInstr wraps a variant payload and fixes up the Def back-pointer.
func newInstr(kind InstrKind) *Instr {
	in := &Instr{Kind: kind}
	if d := kind.def(); d != nil {
		d.Instr = in
	}
	return in
}

// insertAt splices in into b.Instrs at index i.
func (b *Block) insertAt(i int, in *Instr) {
	b.Instrs = append(b.Instrs, nil)
	copy(b.Instrs[i+1:], b.Instrs[i:])
	b.Instrs[i] = in
	in.block = b
}

// indexOf returns the position of in within the block.
func (b *Block) indexOf(in *Instr) int {
	for i, cur := range b.Instrs {
		if cur == in {
			return i
		}
	}
	return -1
}

// Remove unlinks the instruction from its block and releases the
// instruction's own operands from their defs' use sets. The
// instruction's def must be dead: removing a value that still has uses
// is an IR defect.
func (in *Instr) Remove() {
	if d := in.Def(); d != nil && d.Uses() != 0 {
		panic(fmt.Sprintf("ir: removing %%%d with %d remaining uses", d.ID, d.Uses()))
	}
	for _, s := range in.Srcs() {
		s.SetDef(nil)
	}
	b := in.block
	if b == nil {
		return
	}
	i := b.indexOf(in)
	if i < 0 {
		panic("ir: instruction not in its block")
	}
	b.Instrs = append(b.Instrs[:i], b.Instrs[i+1:]...)
	in.block = nil
}
