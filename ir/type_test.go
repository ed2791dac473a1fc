package ir

import (
	"testing"
)

func TestTypeRegistry_ScalarDeduplication(t *testing.T) {
	registry := NewTypeRegistry()

	// Register u32 twice
	u32a := registry.GetOrCreate("u32", ScalarType{Kind: ScalarUint, Width: 4})
	u32b := registry.GetOrCreate("u32", ScalarType{Kind: ScalarUint, Width: 4})

	if u32a != u32b {
		t.Errorf("Expected same type for identical scalars, got %p and %p", u32a, u32b)
	}

	if registry.Count() != 1 {
		t.Errorf("Expected 1 type, got %d", registry.Count())
	}
}

func TestTypeRegistry_DifferentScalars(t *testing.T) {
	registry := NewTypeRegistry()

	f32 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 4})
	i32 := registry.GetOrCreate("i32", ScalarType{Kind: ScalarSint, Width: 4})
	u32 := registry.GetOrCreate("u32", ScalarType{Kind: ScalarUint, Width: 4})
	b := registry.GetOrCreate("bool", ScalarType{Kind: ScalarBool, Width: 1})

	types := []*Type{f32, i32, u32, b}
	for i := 0; i < len(types); i++ {
		for j := i + 1; j < len(types); j++ {
			if types[i] == types[j] {
				t.Errorf("Expected different types at %d and %d", i, j)
			}
		}
	}

	if registry.Count() != 4 {
		t.Errorf("Expected 4 types, got %d", registry.Count())
	}
}

func TestTypeRegistry_VectorDeduplication(t *testing.T) {
	registry := NewTypeRegistry()

	scalar := ScalarType{Kind: ScalarUint, Width: 4}
	vec3a := registry.GetOrCreate("", VectorType{Size: Vec3, Scalar: scalar})
	vec3b := registry.GetOrCreate("", VectorType{Size: Vec3, Scalar: scalar})

	if vec3a != vec3b {
		t.Errorf("Expected same type for identical vectors, got %p and %p", vec3a, vec3b)
	}

	if registry.Count() != 1 {
		t.Errorf("Expected 1 type, got %d", registry.Count())
	}
}

func TestTypeRegistry_VectorVsScalar(t *testing.T) {
	registry := NewTypeRegistry()

	scalar := ScalarType{Kind: ScalarUint, Width: 4}
	vec := registry.GetOrCreate("", VectorType{Size: Vec2, Scalar: scalar})
	sc := registry.GetOrCreate("", scalar)

	if vec == sc {
		t.Error("Expected vector and scalar to register separately")
	}

	if vec.Components() != 2 {
		t.Errorf("Expected 2 components, got %d", vec.Components())
	}
	if sc.Components() != 1 {
		t.Errorf("Expected 1 component, got %d", sc.Components())
	}
}

func TestShader_SystemValueTypes(t *testing.T) {
	s := NewShader(StageCompute)

	gid := s.AddSystemValue("gid", SysValGlobalInvocationID)
	index := s.AddSystemValue("index", SysValLocalInvocationIndex)

	if gid.Type.Components() != 3 {
		t.Errorf("Expected vec3 for global_invocation_id, got %d components", gid.Type.Components())
	}
	if index.Type.Components() != 1 {
		t.Errorf("Expected scalar for local_invocation_index, got %d components", index.Type.Components())
	}

	if s.LookupVariable("gid") != gid {
		t.Error("LookupVariable failed to find gid")
	}
	if s.LookupVariable("missing") != nil {
		t.Error("LookupVariable found a variable that was never declared")
	}
}
