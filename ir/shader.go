package ir

// Shader represents one shader in CFG/SSA form.
type Shader struct {
	// Name is an optional label used in diagnostics and printing.
	Name string

	// Stage is the pipeline stage this shader executes in.
	Stage ShaderStage

	// Info holds stage-specific compile-time metadata.
	Info ShaderInfo

	// Options holds driver-level lowering options.
	Options *DriverOptions

	// Functions holds all function definitions.
	// Not every function has a body; external declarations carry a nil Impl.
	Functions []*Function

	// Variables by mode. SystemValues is cleared by the system-value
	// lowering pass once no instruction can reference that class anymore.
	Inputs       []*Variable
	Outputs      []*Variable
	Uniforms     []*Variable
	SystemValues []*Variable

	// Types deduplicates variable types declared on this shader.
	Types *TypeRegistry
}

// NewShader creates an empty shader for the given stage.
func NewShader(stage ShaderStage) *Shader {
	return &Shader{
		Stage:   stage,
		Options: &DriverOptions{},
		Types:   NewTypeRegistry(),
	}
}

// ShaderStage represents a shader stage.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageCompute
)

// String returns the lowercase stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	}
	return "unknown"
}

// ShaderInfo holds compile-time shader metadata populated by the frontend.
type ShaderInfo struct {
	// WorkgroupSize is the compute workgroup size; unused for other stages.
	WorkgroupSize [3]uint32
}

// DriverOptions holds driver-supplied flags that change how certain
// system values are lowered.
type DriverOptions struct {
	// VertexIDZeroBased requests that vertex ids are rebuilt as
	// vertex_id_zero_base + base_vertex instead of reading the raw
	// hardware vertex id.
	VertexIDZeroBased bool
}

// Function represents a function definition or declaration.
type Function struct {
	Name string

	// Impl is the function body; nil for external declarations.
	Impl *FunctionImpl
}

// FunctionImpl owns the control-flow graph of a function body.
type FunctionImpl struct {
	// Function points back at the owning function.
	Function *Function

	// Blocks holds the basic blocks in layout order. The first block
	// is the entry block.
	Blocks []*Block

	// Metadata records which cached analyses are currently valid.
	Metadata MetadataFlags

	nextDefID uint32
}

// NewFunctionImpl creates an empty body for fn with a single entry block
// and attaches it to the function.
func NewFunctionImpl(fn *Function) *FunctionImpl {
	impl := &FunctionImpl{Function: fn}
	impl.AddBlock()
	fn.Impl = impl
	return impl
}

// AddBlock appends a new empty block to the function and returns it.
// Adding a block invalidates all cached metadata.
func (impl *FunctionImpl) AddBlock() *Block {
	b := &Block{impl: impl}
	impl.Blocks = append(impl.Blocks, b)
	impl.Metadata = 0
	return b
}

// EntryBlock returns the function's entry block.
func (impl *FunctionImpl) EntryBlock() *Block {
	return impl.Blocks[0]
}

// allocDefID hands out the next SSA value number.
func (impl *FunctionImpl) allocDefID() uint32 {
	id := impl.nextDefID
	impl.nextDefID++
	return id
}

// Block is a basic block: an ordered instruction sequence with no
// intra-block branching, linked to other blocks by CFG edges.
type Block struct {
	// Index is the block's position in layout order. Valid only while
	// MetadataBlockIndex is set on the owning impl.
	Index uint32

	// Instrs holds the block's instructions in execution order.
	Instrs []*Instr

	// Preds and Succs are the CFG edges.
	Preds []*Block
	Succs []*Block

	// idom is the immediate dominator. Valid only while
	// MetadataDominance is set on the owning impl.
	idom *Block

	impl *FunctionImpl
}

// Impl returns the function body owning this block.
func (b *Block) Impl() *FunctionImpl { return b.impl }

// AddSucc links b to succ with a pair of CFG edges.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
	b.impl.Metadata &^= MetadataDominance
}

// SafeInstrs returns a snapshot of the block's instruction list.
// Ranging over the snapshot tolerates removal of the visited
// instruction and insertion of new instructions behind the cursor
// without skipping or revisiting nodes.
func (b *Block) SafeInstrs() []*Instr {
	out := make([]*Instr, len(b.Instrs))
	copy(out, b.Instrs)
	return out
}

// VariableMode classifies where a variable's storage lives.
type VariableMode uint8

const (
	ModeInput VariableMode = iota
	ModeOutput
	ModeUniform
	ModeSystemValue
)

// String returns the lowercase mode name.
func (m VariableMode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeOutput:
		return "output"
	case ModeUniform:
		return "uniform"
	case ModeSystemValue:
		return "sysval"
	}
	return "unknown"
}

// Variable is a shader-level variable declaration.
type Variable struct {
	Name string
	Mode VariableMode
	Type *Type

	// SysVal identifies which system value this variable reads.
	// Meaningful only when Mode is ModeSystemValue.
	SysVal SystemValue
}

// AddSystemValue declares a system-value variable on the shader.
func (s *Shader) AddSystemValue(name string, sv SystemValue) *Variable {
	if s.Types == nil {
		s.Types = NewTypeRegistry()
	}
	v := &Variable{
		Name:   name,
		Mode:   ModeSystemValue,
		SysVal: sv,
		Type:   s.Types.GetOrCreate(sv.String(), sv.varType()),
	}
	s.SystemValues = append(s.SystemValues, v)
	return v
}

// AddInput declares a shader input variable.
func (s *Shader) AddInput(name string, inner TypeInner) *Variable {
	v := s.newVariable(name, ModeInput, inner)
	s.Inputs = append(s.Inputs, v)
	return v
}

// AddOutput declares a shader output variable.
func (s *Shader) AddOutput(name string, inner TypeInner) *Variable {
	v := s.newVariable(name, ModeOutput, inner)
	s.Outputs = append(s.Outputs, v)
	return v
}

// AddUniform declares a uniform variable.
func (s *Shader) AddUniform(name string, inner TypeInner) *Variable {
	v := s.newVariable(name, ModeUniform, inner)
	s.Uniforms = append(s.Uniforms, v)
	return v
}

func (s *Shader) newVariable(name string, mode VariableMode, inner TypeInner) *Variable {
	if s.Types == nil {
		s.Types = NewTypeRegistry()
	}
	return &Variable{Name: name, Mode: mode, Type: s.Types.GetOrCreate("", inner)}
}

// LookupVariable finds a declared variable by name across all modes.
func (s *Shader) LookupVariable(name string) *Variable {
	for _, list := range [][]*Variable{s.Inputs, s.Outputs, s.Uniforms, s.SystemValues} {
		for _, v := range list {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}
