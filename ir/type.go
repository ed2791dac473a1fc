package ir

import "strconv"

// Type represents a variable type.
type Type struct {
	Name  string
	Inner TypeInner
}

// TypeInner represents the inner type kind.
type TypeInner interface {
	typeInner()
}

// ScalarType represents scalar types.
type ScalarType struct {
	Kind  ScalarKind
	Width uint8 // in bytes
}

func (ScalarType) typeInner() {}

// ScalarKind represents scalar type kinds.
type ScalarKind uint8

const (
	ScalarSint  ScalarKind = iota // Signed integer
	ScalarUint                    // Unsigned integer
	ScalarFloat                   // Floating point
	ScalarBool                    // Boolean
)

// VectorType represents vector types.
type VectorType struct {
	Size   VectorSize
	Scalar ScalarType
}

func (VectorType) typeInner() {}

// VectorSize represents vector sizes.
type VectorSize uint8

const (
	Vec2 VectorSize = 2
	Vec3 VectorSize = 3
	Vec4 VectorSize = 4
)

// Components returns the number of components of a type: 1 for
// scalars, the vector size otherwise.
func (t *Type) Components() uint8 {
	if v, ok := t.Inner.(VectorType); ok {
		return uint8(v.Size)
	}
	return 1
}

// TypeRegistry deduplicates structurally identical types so that two
// variables of the same type share one *Type.
type TypeRegistry struct {
	types   []*Type
	typeMap map[string]*Type
}

// NewTypeRegistry creates a new type registry for deduplication.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types:   make([]*Type, 0, 8),
		typeMap: make(map[string]*Type, 8),
	}
}

// GetOrCreate returns the existing *Type for inner if one is
// registered, or registers a new one.
func (r *TypeRegistry) GetOrCreate(name string, inner TypeInner) *Type {
	key := normalizeType(inner)

	if t, exists := r.typeMap[key]; exists {
		return t
	}

	t := &Type{Name: name, Inner: inner}
	r.types = append(r.types, t)
	r.typeMap[key] = t

	return t
}

// Types returns all registered types.
func (r *TypeRegistry) Types() []*Type {
	return r.types
}

// Count returns the number of unique types registered.
func (r *TypeRegistry) Count() int {
	return len(r.types)
}

// normalizeType creates a unique key for a type based on its structure.
// Two structurally identical types produce the same key.
func normalizeType(inner TypeInner) string {
	switch t := inner.(type) {
	case ScalarType:
		return "scalar:" + strconv.Itoa(int(t.Kind)) + ":" + strconv.Itoa(int(t.Width))
	case VectorType:
		return "vec:" + strconv.Itoa(int(t.Size)) + ":" + normalizeType(t.Scalar)
	default:
		return "unknown"
	}
}
