package ir

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual dump of the shader to w. The output is
// accepted back by Parse.
func Fprint(w io.Writer, s *Shader) error {
	p := &printer{w: w}
	p.shader(s)
	return p.err
}

// Sprint returns the textual dump of the shader.
func Sprint(s *Shader) string {
	var sb strings.Builder
	_ = Fprint(&sb, s)
	return sb.String()
}

// String returns the textual dump of the shader.
func (s *Shader) String() string { return Sprint(s) }

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) shader(s *Shader) {
	name := s.Name
	if name == "" {
		name = "shader"
	}
	p.printf("shader %s %s\n", name, s.Stage)
	if s.Stage == StageCompute {
		ws := s.Info.WorkgroupSize
		p.printf("workgroup %d %d %d\n", ws[0], ws[1], ws[2])
	}
	if s.Options != nil && s.Options.VertexIDZeroBased {
		p.printf("option vertex_id_zero_base\n")
	}
	for _, v := range s.Inputs {
		p.printf("decl input %s %s\n", v.Name, typeString(v.Type))
	}
	for _, v := range s.Outputs {
		p.printf("decl output %s %s\n", v.Name, typeString(v.Type))
	}
	for _, v := range s.Uniforms {
		p.printf("decl uniform %s %s\n", v.Name, typeString(v.Type))
	}
	for _, v := range s.SystemValues {
		p.printf("decl sysval %s %s\n", v.Name, v.SysVal)
	}
	for _, fn := range s.Functions {
		p.function(fn)
	}
}

func (p *printer) function(fn *Function) {
	if fn.Impl == nil {
		p.printf("func %s\n", fn.Name)
		return
	}
	p.printf("func %s {\n", fn.Name)
	impl := fn.Impl
	impl.RequireMetadata(MetadataBlockIndex)
	for _, b := range impl.Blocks {
		p.printf("block b%d:\n", b.Index)
		for _, in := range b.Instrs {
			p.printf("  %s\n", instrString(in))
		}
		if len(b.Succs) > 0 {
			names := make([]string, len(b.Succs))
			for i, succ := range b.Succs {
				names[i] = fmt.Sprintf("b%d", succ.Index)
			}
			p.printf("  -> %s\n", strings.Join(names, " "))
		}
	}
	p.printf("}\n")
}

// typeString renders a variable type in the syntax Parse accepts.
func typeString(t *Type) string {
	if t == nil {
		return "u32"
	}
	switch inner := t.Inner.(type) {
	case ScalarType:
		return scalarString(inner)
	case VectorType:
		return fmt.Sprintf("vec%d<%s>", inner.Size, scalarString(inner.Scalar))
	}
	return "u32"
}

func scalarString(s ScalarType) string {
	switch s.Kind {
	case ScalarSint:
		return "i32"
	case ScalarUint:
		return "u32"
	case ScalarFloat:
		return "f32"
	case ScalarBool:
		return "bool"
	}
	return "u32"
}

var swizzleLetters = [4]byte{'x', 'y', 'z', 'w'}

// srcString renders a use site, with a swizzle suffix when the swizzle
// is not the identity over the destination width.
func srcString(s *Src, destComponents uint8) string {
	base := fmt.Sprintf("%%%d", s.Def().ID)
	if s.IsIdentitySwizzle(destComponents) && s.Def().NumComponents == destComponents {
		return base
	}
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteByte('.')
	for i := uint8(0); i < destComponents; i++ {
		sb.WriteByte(swizzleLetters[s.Swizzle[i]])
	}
	return sb.String()
}

func instrString(in *Instr) string {
	switch k := in.Kind.(type) {
	case *LoadConstInstr:
		parts := make([]string, k.Dest.NumComponents)
		for i := range parts {
			parts[i] = fmt.Sprintf("%d", k.Value[i])
		}
		return fmt.Sprintf("%%%d = imm %s", k.Dest.ID, strings.Join(parts, ", "))

	case *AluInstr:
		srcs := make([]string, len(k.Srcs))
		for i, s := range k.Srcs {
			srcs[i] = srcString(s, k.Dest.NumComponents)
		}
		return fmt.Sprintf("%%%d = %s %s", k.Dest.ID, k.Op, strings.Join(srcs, ", "))

	case *IntrinsicInstr:
		var sb strings.Builder
		if d := in.Def(); d != nil {
			fmt.Fprintf(&sb, "%%%d = ", d.ID)
		}
		sb.WriteByte('@')
		sb.WriteString(k.Op.String())
		args := make([]string, 0, len(k.Srcs)+1)
		if k.Var != nil {
			args = append(args, k.Var.Name)
		}
		for _, s := range k.Srcs {
			args = append(args, srcString(s, s.Def().NumComponents))
		}
		if len(args) > 0 {
			sb.WriteByte(' ')
			sb.WriteString(strings.Join(args, ", "))
		}
		return sb.String()

	case *UndefInstr:
		return fmt.Sprintf("%%%d = undef %d", k.Dest.ID, k.Dest.NumComponents)
	}
	return "<unknown instr>"
}
