package ir

import "fmt"

// Intrinsic enumerates the intrinsic operations.
type Intrinsic uint8

const (
	// IntrinsicLoadVar reads a declared shader variable.
	IntrinsicLoadVar Intrinsic = iota
	// IntrinsicStoreVar writes a declared shader variable.
	IntrinsicStoreVar

	// Hardware-provided value reads. These are what the system-value
	// lowering pass rewrites LoadVar reads into.
	IntrinsicLoadVertexID
	IntrinsicLoadVertexIDZeroBase
	IntrinsicLoadBaseVertex
	IntrinsicLoadInstanceID
	IntrinsicLoadBaseInstance
	IntrinsicLoadFrontFace
	IntrinsicLoadSampleID
	IntrinsicLoadSampleMaskIn
	IntrinsicLoadPrimitiveID
	IntrinsicLoadInvocationID
	IntrinsicLoadWorkGroupID
	IntrinsicLoadLocalInvocationID
	IntrinsicLoadNumWorkGroups

	numIntrinsics = iota
)

// IntrinsicInfo describes the static shape of an intrinsic.
type IntrinsicInfo struct {
	Name string

	// HasDest reports whether the intrinsic produces a value.
	HasDest bool

	// DestComponents is the vector width of the produced value.
	DestComponents uint8

	// NumSrcs is the operand count.
	NumSrcs int

	// CanEliminate reports whether an unused call may be removed.
	CanEliminate bool
}

var intrinsicInfos = [numIntrinsics]IntrinsicInfo{
	IntrinsicLoadVar:              {Name: "load_var", HasDest: true, CanEliminate: true},
	IntrinsicStoreVar:             {Name: "store_var", NumSrcs: 1},
	IntrinsicLoadVertexID:         {Name: "load_vertex_id", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadVertexIDZeroBase: {Name: "load_vertex_id_zero_base", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadBaseVertex:       {Name: "load_base_vertex", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadInstanceID:       {Name: "load_instance_id", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadBaseInstance:     {Name: "load_base_instance", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadFrontFace:        {Name: "load_front_face", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadSampleID:         {Name: "load_sample_id", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadSampleMaskIn:     {Name: "load_sample_mask_in", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadPrimitiveID:      {Name: "load_primitive_id", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadInvocationID:     {Name: "load_invocation_id", HasDest: true, DestComponents: 1, CanEliminate: true},
	IntrinsicLoadWorkGroupID:       {Name: "load_work_group_id", HasDest: true, DestComponents: 3, CanEliminate: true},
	IntrinsicLoadLocalInvocationID: {Name: "load_local_invocation_id", HasDest: true, DestComponents: 3, CanEliminate: true},
	IntrinsicLoadNumWorkGroups:     {Name: "load_num_work_groups", HasDest: true, DestComponents: 3, CanEliminate: true},
}

// Info returns the static description of the intrinsic.
func (op Intrinsic) Info() IntrinsicInfo {
	return intrinsicInfos[op]
}

// String returns the intrinsic name.
func (op Intrinsic) String() string {
	if int(op) < numIntrinsics {
		return intrinsicInfos[op].Name
	}
	return fmt.Sprintf("intrinsic(%d)", uint8(op))
}

// IntrinsicByName resolves an intrinsic name to its enumerator.
func IntrinsicByName(name string) (Intrinsic, bool) {
	for op, info := range intrinsicInfos {
		if info.Name == name {
			return Intrinsic(op), true
		}
	}
	return 0, false
}

// SystemValue enumerates the system-value kinds a variable can read.
type SystemValue uint8

const (
	SysValVertexID SystemValue = iota
	SysValInstanceIndex
	SysValFrontFace
	SysValSampleID
	SysValSampleMaskIn
	SysValPrimitiveID
	SysValInvocationID
	SysValWorkGroupID
	SysValLocalInvocationID
	SysValLocalInvocationIndex
	SysValGlobalInvocationID
	SysValNumWorkGroups

	numSystemValues = iota
)

var systemValueNames = [numSystemValues]string{
	SysValVertexID:             "vertex_id",
	SysValInstanceIndex:        "instance_index",
	SysValFrontFace:            "front_face",
	SysValSampleID:             "sample_id",
	SysValSampleMaskIn:         "sample_mask_in",
	SysValPrimitiveID:          "primitive_id",
	SysValInvocationID:         "invocation_id",
	SysValWorkGroupID:          "work_group_id",
	SysValLocalInvocationID:    "local_invocation_id",
	SysValLocalInvocationIndex: "local_invocation_index",
	SysValGlobalInvocationID:   "global_invocation_id",
	SysValNumWorkGroups:        "num_work_groups",
}

// String returns the system value name.
func (sv SystemValue) String() string {
	if int(sv) < numSystemValues {
		return systemValueNames[sv]
	}
	return fmt.Sprintf("sysval(%d)", uint8(sv))
}

// SystemValueByName resolves a system value name to its enumerator.
func SystemValueByName(name string) (SystemValue, bool) {
	for sv, n := range systemValueNames {
		if n == name {
			return SystemValue(sv), true
		}
	}
	return 0, false
}

// varType returns the inner type of a variable reading this system
// value.
func (sv SystemValue) varType() TypeInner {
	switch sv {
	case SysValWorkGroupID, SysValLocalInvocationID, SysValGlobalInvocationID, SysValNumWorkGroups:
		return VectorType{Size: Vec3, Scalar: ScalarType{Kind: ScalarUint, Width: 4}}
	case SysValFrontFace:
		return ScalarType{Kind: ScalarBool, Width: 1}
	case SysValVertexID, SysValInstanceIndex, SysValPrimitiveID, SysValInvocationID:
		return ScalarType{Kind: ScalarSint, Width: 4}
	default:
		return ScalarType{Kind: ScalarUint, Width: 4}
	}
}

// intrinsicFromSystemValue is the one-to-one default mapping applied
// when no compound lowering rule exists for a system value. The
// compound kinds (global invocation id, local invocation index, vertex
// id, instance index) are intentionally absent.
var intrinsicFromSystemValue = map[SystemValue]Intrinsic{
	SysValFrontFace:         IntrinsicLoadFrontFace,
	SysValSampleID:          IntrinsicLoadSampleID,
	SysValSampleMaskIn:      IntrinsicLoadSampleMaskIn,
	SysValPrimitiveID:       IntrinsicLoadPrimitiveID,
	SysValInvocationID:      IntrinsicLoadInvocationID,
	SysValWorkGroupID:       IntrinsicLoadWorkGroupID,
	SysValLocalInvocationID: IntrinsicLoadLocalInvocationID,
	SysValNumWorkGroups:     IntrinsicLoadNumWorkGroups,
}

// IntrinsicFromSystemValue maps a system value to the intrinsic that
// reads it directly. An unmapped kind is an IR-construction defect and
// panics.
func IntrinsicFromSystemValue(sv SystemValue) Intrinsic {
	op, ok := intrinsicFromSystemValue[sv]
	if !ok {
		panic(fmt.Sprintf("ir: no direct intrinsic for system value %s", sv))
	}
	return op
}
