package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads the textual shader form produced by Fprint.
func Parse(source string) (*Shader, error) {
	p := &parser{lines: strings.Split(source, "\n")}
	return p.parse()
}

type parser struct {
	lines []string
	pos   int

	shader *Shader

	// per-function state
	impl   *FunctionImpl
	defs   map[uint32]*Def
	blocks map[int]*Block
	succs  map[*Block][]int
	maxDef uint32
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) next() (string, bool) {
	for p.pos < len(p.lines) {
		line := strings.TrimSpace(p.lines[p.pos])
		p.pos++
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		return line, true
	}
	return "", false
}

func (p *parser) parse() (*Shader, error) {
	line, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("empty shader source")
	}
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "shader" {
		return nil, p.errf("expected \"shader <name> <stage>\", got %q", line)
	}
	var stage ShaderStage
	switch fields[2] {
	case "vertex":
		stage = StageVertex
	case "fragment":
		stage = StageFragment
	case "compute":
		stage = StageCompute
	default:
		return nil, p.errf("unknown shader stage %q", fields[2])
	}
	p.shader = NewShader(stage)
	p.shader.Name = fields[1]

	for {
		line, ok := p.next()
		if !ok {
			return p.shader, nil
		}
		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "workgroup":
			err = p.parseWorkgroup(fields)
		case "option":
			err = p.parseOption(fields)
		case "decl":
			err = p.parseDecl(fields)
		case "func":
			err = p.parseFunc(fields)
		default:
			err = p.errf("unexpected %q", fields[0])
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseWorkgroup(fields []string) error {
	if len(fields) != 4 {
		return p.errf("expected \"workgroup <x> <y> <z>\"")
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(fields[i+1], 10, 32)
		if err != nil {
			return p.errf("bad workgroup size %q: %v", fields[i+1], err)
		}
		p.shader.Info.WorkgroupSize[i] = uint32(v)
	}
	return nil
}

func (p *parser) parseOption(fields []string) error {
	if len(fields) != 2 {
		return p.errf("expected \"option <name>\"")
	}
	switch fields[1] {
	case "vertex_id_zero_base":
		p.shader.Options.VertexIDZeroBased = true
	default:
		return p.errf("unknown option %q", fields[1])
	}
	return nil
}

func (p *parser) parseDecl(fields []string) error {
	if len(fields) != 4 {
		return p.errf("expected \"decl <mode> <name> <type>\"")
	}
	mode, name := fields[1], fields[2]
	if mode == "sysval" {
		sv, ok := SystemValueByName(fields[3])
		if !ok {
			return p.errf("unknown system value %q", fields[3])
		}
		p.shader.AddSystemValue(name, sv)
		return nil
	}
	inner, err := p.parseType(fields[3])
	if err != nil {
		return err
	}
	switch mode {
	case "input":
		p.shader.AddInput(name, inner)
	case "output":
		p.shader.AddOutput(name, inner)
	case "uniform":
		p.shader.AddUniform(name, inner)
	default:
		return p.errf("unknown variable mode %q", mode)
	}
	return nil
}

func (p *parser) parseType(s string) (TypeInner, error) {
	if rest, ok := strings.CutPrefix(s, "vec"); ok {
		size, scalar, found := strings.Cut(rest, "<")
		if !found || !strings.HasSuffix(scalar, ">") {
			return nil, p.errf("bad vector type %q", s)
		}
		n, err := strconv.Atoi(size)
		if err != nil || n < 2 || n > 4 {
			return nil, p.errf("bad vector size in %q", s)
		}
		inner, err := p.parseScalar(strings.TrimSuffix(scalar, ">"))
		if err != nil {
			return nil, err
		}
		return VectorType{Size: VectorSize(n), Scalar: inner}, nil
	}
	return p.parseScalar(s)
}

func (p *parser) parseScalar(s string) (ScalarType, error) {
	switch s {
	case "i32":
		return ScalarType{Kind: ScalarSint, Width: 4}, nil
	case "u32":
		return ScalarType{Kind: ScalarUint, Width: 4}, nil
	case "f32":
		return ScalarType{Kind: ScalarFloat, Width: 4}, nil
	case "bool":
		return ScalarType{Kind: ScalarBool, Width: 1}, nil
	}
	return ScalarType{}, p.errf("unknown scalar type %q", s)
}

func (p *parser) parseFunc(fields []string) error {
	if len(fields) < 2 {
		return p.errf("expected \"func <name> {\"")
	}
	fn := &Function{Name: fields[1]}
	p.shader.Functions = append(p.shader.Functions, fn)
	if len(fields) == 2 {
		return nil // declaration without body
	}
	if len(fields) != 3 || fields[2] != "{" {
		return p.errf("expected \"func <name> {\"")
	}

	p.impl = &FunctionImpl{Function: fn}
	fn.Impl = p.impl
	p.defs = make(map[uint32]*Def)
	p.blocks = make(map[int]*Block)
	p.succs = make(map[*Block][]int)
	p.maxDef = 0

	var cur *Block
	for {
		line, ok := p.next()
		if !ok {
			return p.errf("unterminated function %q", fn.Name)
		}
		if line == "}" {
			break
		}
		if rest, ok := strings.CutPrefix(line, "block b"); ok {
			idx, err := strconv.Atoi(strings.TrimSuffix(rest, ":"))
			if err != nil {
				return p.errf("bad block header %q", line)
			}
			cur = p.block(idx)
			continue
		}
		if cur == nil {
			return p.errf("instruction outside block: %q", line)
		}
		if rest, ok := strings.CutPrefix(line, "-> "); ok {
			for _, name := range strings.Fields(rest) {
				idx, err := strconv.Atoi(strings.TrimPrefix(name, "b"))
				if err != nil {
					return p.errf("bad successor %q", name)
				}
				p.succs[cur] = append(p.succs[cur], idx)
			}
			continue
		}
		if err := p.parseInstr(cur, line); err != nil {
			return err
		}
	}

	// Resolve CFG edges once all blocks exist.
	for b, succs := range p.succs {
		for _, idx := range succs {
			target, ok := p.blocks[idx]
			if !ok {
				return p.errf("successor b%d of b%d does not exist", idx, b.Index)
			}
			b.AddSucc(target)
		}
	}
	if len(p.impl.Blocks) == 0 {
		p.impl.AddBlock()
	}
	p.impl.nextDefID = p.maxDef + 1
	p.impl.RequireMetadata(MetadataBlockIndex)
	return nil
}

// block returns the block with the given textual index, creating it if
// needed. Blocks must appear in index order.
func (p *parser) block(idx int) *Block {
	if b, ok := p.blocks[idx]; ok {
		return b
	}
	b := p.impl.AddBlock()
	b.Index = uint32(idx)
	p.blocks[idx] = b
	return b
}

func (p *parser) parseInstr(b *Block, line string) error {
	var destID uint32
	hasDest := false
	body := line
	if lhs, rhs, found := strings.Cut(line, " = "); found && strings.HasPrefix(lhs, "%") {
		id, err := strconv.ParseUint(strings.TrimPrefix(lhs, "%"), 10, 32)
		if err != nil {
			return p.errf("bad destination %q", lhs)
		}
		destID = uint32(id)
		hasDest = true
		body = rhs
	}

	op, args, _ := strings.Cut(body, " ")
	in, err := p.buildInstr(op, args, destID, hasDest)
	if err != nil {
		return err
	}
	if d := in.Def(); d != nil {
		if _, dup := p.defs[d.ID]; dup {
			return p.errf("value %%%d defined twice", d.ID)
		}
		p.defs[d.ID] = d
	}
	b.insertAt(len(b.Instrs), in)
	return nil
}

func (p *parser) buildInstr(op, args string, destID uint32, hasDest bool) (*Instr, error) {
	switch {
	case op == "imm":
		if !hasDest {
			return nil, p.errf("imm without destination")
		}
		parts := splitArgs(args)
		if len(parts) < 1 || len(parts) > 4 {
			return nil, p.errf("imm with %d components", len(parts))
		}
		lc := &LoadConstInstr{Dest: p.newDef(destID, uint8(len(parts)))}
		for i, part := range parts {
			v, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				return nil, p.errf("bad immediate %q: %v", part, err)
			}
			lc.Value[i] = uint32(v)
		}
		return newInstr(lc), nil

	case op == "undef":
		if !hasDest {
			return nil, p.errf("undef without destination")
		}
		n, err := strconv.Atoi(args)
		if err != nil || n < 1 || n > 4 {
			return nil, p.errf("bad undef width %q", args)
		}
		return newInstr(&UndefInstr{Dest: p.newDef(destID, uint8(n))}), nil

	case strings.HasPrefix(op, "@"):
		return p.buildIntrinsic(strings.TrimPrefix(op, "@"), args, destID, hasDest)

	default:
		return p.buildAlu(op, args, destID, hasDest)
	}
}

func (p *parser) buildAlu(op, args string, destID uint32, hasDest bool) (*Instr, error) {
	var aluOp AluOp
	found := false
	for candidate, name := range aluOpNames {
		if name == op {
			aluOp = AluOp(candidate)
			found = true
			break
		}
	}
	if !found {
		return nil, p.errf("unknown instruction %q", op)
	}
	if !hasDest {
		return nil, p.errf("%s without destination", op)
	}
	parts := splitArgs(args)
	if len(parts) != aluOp.NumSrcs() {
		return nil, p.errf("%s expects %d srcs, got %d", aluOp, aluOp.NumSrcs(), len(parts))
	}

	alu := &AluInstr{Op: aluOp}
	in := newInstr(alu)
	var destComponents uint8
	for _, part := range parts {
		s, width, err := p.parseSrc(in, part)
		if err != nil {
			return nil, err
		}
		if destComponents == 0 {
			destComponents = width
		}
		alu.Srcs = append(alu.Srcs, s)
	}
	alu.Dest = p.newDef(destID, destComponents)
	alu.Dest.Instr = in
	return in, nil
}

func (p *parser) buildIntrinsic(name, args string, destID uint32, hasDest bool) (*Instr, error) {
	op, ok := IntrinsicByName(name)
	if !ok {
		return nil, p.errf("unknown intrinsic %q", name)
	}
	info := op.Info()
	if info.HasDest != hasDest {
		return nil, p.errf("@%s destination mismatch", name)
	}

	call := &IntrinsicInstr{Op: op}
	in := newInstr(call)
	parts := splitArgs(args)

	if op == IntrinsicLoadVar || op == IntrinsicStoreVar {
		if len(parts) == 0 {
			return nil, p.errf("@%s requires a variable", name)
		}
		call.Var = p.shader.LookupVariable(parts[0])
		if call.Var == nil {
			return nil, p.errf("undeclared variable %q", parts[0])
		}
		parts = parts[1:]
	}
	if len(parts) != info.NumSrcs {
		return nil, p.errf("@%s expects %d srcs, got %d", name, info.NumSrcs, len(parts))
	}
	for _, part := range parts {
		s, _, err := p.parseSrc(in, part)
		if err != nil {
			return nil, err
		}
		call.Srcs = append(call.Srcs, s)
	}
	if info.HasDest {
		components := info.DestComponents
		if op == IntrinsicLoadVar {
			components = call.Var.Type.Components()
		}
		call.Dest = p.newDef(destID, components)
		call.Dest.Instr = in
	}
	return in, nil
}

// parseSrc reads "%id" or "%id.swz" and returns the use site plus the
// width implied for the destination.
func (p *parser) parseSrc(parent *Instr, s string) (*Src, uint8, error) {
	if !strings.HasPrefix(s, "%") {
		return nil, 0, p.errf("bad operand %q", s)
	}
	ref, swz, hasSwz := strings.Cut(strings.TrimPrefix(s, "%"), ".")
	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		return nil, 0, p.errf("bad operand %q", s)
	}
	def, ok := p.defs[uint32(id)]
	if !ok {
		return nil, 0, p.errf("use of undefined value %%%d", id)
	}
	src := newSrc(parent, def)
	width := def.NumComponents
	if hasSwz {
		if len(swz) < 1 || len(swz) > 4 {
			return nil, 0, p.errf("bad swizzle %q", s)
		}
		for i := 0; i < len(swz); i++ {
			c := strings.IndexByte("xyzw", swz[i])
			if c < 0 {
				return nil, 0, p.errf("bad swizzle %q", s)
			}
			src.Swizzle[i] = uint8(c)
		}
		width = uint8(len(swz))
	}
	return src, width, nil
}

func (p *parser) newDef(id uint32, components uint8) Def {
	d := Def{ID: id, NumComponents: components, BitSize: 32}
	if id > p.maxDef {
		p.maxDef = id
	}
	return d
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
