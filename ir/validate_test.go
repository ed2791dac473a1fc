package ir

import (
	"strings"
	"testing"
)

func TestValidate_NilShader(t *testing.T) {
	if _, err := Validate(nil); err == nil {
		t.Error("Expected error for nil shader")
	}
}

func TestValidate_WellFormed(t *testing.T) {
	s, impl := testImpl()
	gid := s.AddSystemValue("gid", SysValGlobalInvocationID)
	b := NewBuilder(s, impl)

	v := b.LoadVar(gid)
	b.Channel(v, 0)

	errs, err := Validate(s)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("Expected no validation errors, got %v", errs)
	}
}

func TestValidate_DanglingUse(t *testing.T) {
	s, impl := testImpl()
	b := NewBuilder(s, impl)

	x := b.ImmInt(1)
	b.Mov(x)

	// Forcibly unlink the imm without going through Remove, leaving
	// the mov referencing a value no instruction defines.
	block := impl.EntryBlock()
	block.Instrs = block.Instrs[1:]

	errs, err := Validate(s)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("Expected a validation error for a dangling use")
	}
	if !strings.Contains(errs[0].Error(), "removed instruction") {
		t.Errorf("Unexpected error: %v", errs[0])
	}
}

func TestValidate_UnregisteredSrc(t *testing.T) {
	s, impl := testImpl()
	b := NewBuilder(s, impl)

	x := b.ImmInt(1)
	mov := b.Mov(x)

	// Detach the src from the def's use set behind the IR's back.
	alu := mov.Instr.Kind.(*AluInstr)
	x.removeUse(alu.Srcs[0])

	errs, _ := Validate(s)
	if len(errs) == 0 {
		t.Fatal("Expected a validation error for an unregistered src")
	}
	if !strings.Contains(errs[0].Error(), "use set") {
		t.Errorf("Unexpected error: %v", errs[0])
	}
}

func TestValidate_AsymmetricCFGEdge(t *testing.T) {
	s, impl := testImpl()
	second := impl.AddBlock()
	entry := impl.EntryBlock()

	// Successor edge with no matching predecessor edge.
	entry.Succs = append(entry.Succs, second)

	errs, _ := Validate(s)
	if len(errs) == 0 {
		t.Fatal("Expected a validation error for an asymmetric edge")
	}
	if !strings.Contains(errs[0].Error(), "predecessor") {
		t.Errorf("Unexpected error: %v", errs[0])
	}
}

func TestValidate_VariableModeMismatch(t *testing.T) {
	s, _ := testImpl()
	v := &Variable{Name: "fake", Mode: ModeInput}
	s.SystemValues = append(s.SystemValues, v)

	errs, _ := Validate(s)
	if len(errs) == 0 {
		t.Fatal("Expected a validation error for a misfiled variable")
	}
	if !strings.Contains(errs[0].Error(), "mode") {
		t.Errorf("Unexpected error: %v", errs[0])
	}
}

func TestValidationError_Formatting(t *testing.T) {
	id := uint32(4)
	cases := []struct {
		err  ValidationError
		want string
	}{
		{ValidationError{Message: "bare"}, "bare"},
		{ValidationError{Message: "msg", Function: "f", Block: -1}, "in function f: msg"},
		{ValidationError{Message: "msg", Function: "f", Block: 2}, "in function f, block b2: msg"},
		{ValidationError{Message: "msg", Function: "f", Block: 0, Def: &id}, "in function f, value %4: msg"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Got %q, want %q", got, tc.want)
		}
	}
}
