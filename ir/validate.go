package ir

import "fmt"

// ValidationError represents a validation error.
type ValidationError struct {
	Message string
	// Optional context
	Function string
	Block    int
	Def      *uint32
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Function != "" {
		if e.Def != nil {
			return fmt.Sprintf("in function %s, value %%%d: %s", e.Function, *e.Def, e.Message)
		}
		if e.Block >= 0 {
			return fmt.Sprintf("in function %s, block b%d: %s", e.Function, e.Block, e.Message)
		}
		return fmt.Sprintf("in function %s: %s", e.Function, e.Message)
	}
	return e.Message
}

// Validator validates shaders.
type Validator struct {
	shader *Shader
	errors []ValidationError

	fnName string
	block  int
}

// Validate checks the shader for def-use and CFG consistency.
// Returns validation errors if any, or nil if the shader is valid.
func Validate(s *Shader) ([]ValidationError, error) {
	if s == nil {
		return nil, fmt.Errorf("shader is nil")
	}

	v := &Validator{shader: s, block: -1}
	v.validateShader()

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

func (v *Validator) errorf(format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Message:  fmt.Sprintf(format, args...),
		Function: v.fnName,
		Block:    v.block,
	})
}

func (v *Validator) defErrorf(id uint32, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Message:  fmt.Sprintf(format, args...),
		Function: v.fnName,
		Block:    v.block,
		Def:      &id,
	})
}

func (v *Validator) validateShader() {
	for _, sv := range v.shader.SystemValues {
		if sv.Mode != ModeSystemValue {
			v.errorf("variable %s in system-value list has mode %s", sv.Name, sv.Mode)
		}
	}
	for _, fn := range v.shader.Functions {
		v.fnName = fn.Name
		v.block = -1
		if fn.Impl != nil {
			v.validateImpl(fn.Impl)
		}
	}
}

func (v *Validator) validateImpl(impl *FunctionImpl) {
	if len(impl.Blocks) == 0 {
		v.errorf("body has no blocks")
		return
	}

	// Collect all defs so use sites can be checked against them.
	defined := make(map[*Def]bool)
	for _, b := range impl.Blocks {
		for _, in := range b.Instrs {
			if d := in.Def(); d != nil {
				defined[d] = true
			}
		}
	}

	for i, b := range impl.Blocks {
		v.block = i
		v.validateCFGEdges(b)
		for _, in := range b.Instrs {
			v.validateInstr(b, in, defined)
		}
	}
	v.block = -1
}

func (v *Validator) validateCFGEdges(b *Block) {
	for _, succ := range b.Succs {
		if !containsBlock(succ.Preds, b) {
			v.errorf("successor edge without matching predecessor edge")
		}
		if succ.impl != b.impl {
			v.errorf("successor belongs to a different function")
		}
	}
	for _, pred := range b.Preds {
		if !containsBlock(pred.Succs, b) {
			v.errorf("predecessor edge without matching successor edge")
		}
	}
}

func containsBlock(list []*Block, b *Block) bool {
	for _, cur := range list {
		if cur == b {
			return true
		}
	}
	return false
}

func (v *Validator) validateInstr(b *Block, in *Instr, defined map[*Def]bool) {
	if in.Block() != b {
		v.errorf("instruction block back-pointer is stale")
	}

	if d := in.Def(); d != nil {
		if d.Instr != in {
			v.defErrorf(d.ID, "def does not point back at its instruction")
		}
		if d.NumComponents < 1 || d.NumComponents > 4 {
			v.defErrorf(d.ID, "def has %d components", d.NumComponents)
		}
		for _, use := range d.UseList() {
			if use.Def() != d {
				v.defErrorf(d.ID, "use set contains a src pointing elsewhere")
			}
			if use.Parent == nil || use.Parent.Block() == nil {
				v.defErrorf(d.ID, "use by a removed instruction")
			}
		}
	}

	for _, s := range in.Srcs() {
		if s.Parent != in {
			v.errorf("src parent back-pointer is stale")
		}
		d := s.Def()
		if d == nil {
			v.errorf("src with no def")
			continue
		}
		if !defined[d] {
			v.defErrorf(d.ID, "use of a value defined by a removed instruction")
			continue
		}
		registered := false
		for _, use := range d.UseList() {
			if use == s {
				registered = true
				break
			}
		}
		if !registered {
			v.defErrorf(d.ID, "src not registered in the def's use set")
		}
		for i := uint8(0); i < 4; i++ {
			if s.Swizzle[i] >= 4 {
				v.defErrorf(d.ID, "swizzle component out of range")
			}
		}
	}

	if call, ok := in.Kind.(*IntrinsicInstr); ok {
		v.validateIntrinsic(call)
	}
}

func (v *Validator) validateIntrinsic(call *IntrinsicInstr) {
	info := call.Op.Info()
	if len(call.Srcs) != info.NumSrcs {
		v.errorf("@%s has %d srcs, expects %d", call.Op, len(call.Srcs), info.NumSrcs)
	}
	switch call.Op {
	case IntrinsicLoadVar, IntrinsicStoreVar:
		if call.Var == nil {
			v.errorf("@%s without a variable", call.Op)
		}
	default:
		if call.Var != nil {
			v.errorf("@%s carries a variable operand", call.Op)
		}
	}
}
