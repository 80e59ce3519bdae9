// ==============================================================================================
// FILE: object/object_sanity_test.go
// ==============================================================================================
// PURPOSE: Sanity checks for the object system: reflexive typing, the
//          subtype DAG, and deep namespace chains don't crash or drift.
// ==============================================================================================

package object

import "testing"

func TestSanity_ReflexiveType(t *testing.T) {
	if TypeType.TekoType() != TypeType {
		t.Errorf("type(type) != type")
	}
	if !IsTekoType(TypeType) {
		t.Errorf("type is not itself a type")
	}
	if !IsTekoType(IntType) {
		t.Errorf("int is not a type")
	}
}

func TestSanity_SubtypeDAG(t *testing.T) {
	if !IsTekoSubtype(IntType, ObjType) {
		t.Errorf("every type should subtype obj")
	}
	if !IsTekoSubtype(StructType, TypeType) {
		t.Errorf("struct's explicit parent is type")
	}
	if IsTekoSubtype(IntType, StrType) {
		t.Errorf("int should not subtype str")
	}
}

func TestSanity_NestedNamespaces(t *testing.T) {
	root := NewNamespace(NewInt(0))
	if err := root.Declare("target", BoolType, NewBool(true), false); err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	current := root
	for i := 0; i < 100; i++ {
		current = NewNamespace(NewInt(int64(i)), current)
	}

	val, err := current.GetVar("target")
	if err != nil {
		t.Fatalf("deep nested lookup failed: %v", err)
	}
	if !val.(*Bool).Val {
		t.Errorf("deep nested value corrupted")
	}
}

func TestSanity_IntOperators(t *testing.T) {
	two := NewInt(2)
	three := NewInt(3)

	addFn, err := two.Namespace().GetAttr("_add")
	if err != nil {
		t.Fatalf("int has no _add: %v", err)
	}
	result, err := addFn.(*Function).Call([]Value{three})
	if err != nil {
		t.Fatalf("_add call failed: %v", err)
	}
	if result.(*Int).Val != 5 {
		t.Errorf("2 + 3 = %d, want 5", result.(*Int).Val)
	}
}

func TestDeclare_ForbidsRecursiveShadowing(t *testing.T) {
	root := NewNamespace(NewInt(0))
	if err := root.Declare("x", IntType, NewInt(1), false); err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	child := NewNamespace(NewInt(0), root)
	if err := child.Declare("x", IntType, NewInt(2), false); err == nil {
		t.Errorf("expected shadowing an outer-scope label to fail")
	}
}

func TestDeclare_UnsetVariableIsUnbound(t *testing.T) {
	ns := NewNamespace(NewInt(0))
	if err := ns.Declare("x", IntType, nil, false); err != nil {
		t.Fatalf("declare without initializer failed: %v", err)
	}
	v := ns.FetchVar("x")
	if v == nil {
		t.Fatalf("declared variable not found")
	}
	if v.Bound() {
		t.Errorf("variable declared without an initializer should be unbound")
	}
}

func TestSanity_EmptyIterables(t *testing.T) {
	arr := NewArray(IntType, nil)
	s, err := Tostr(arr)
	if err != nil || s != "[]" {
		t.Errorf("empty array tostr = %q, %v", s, err)
	}

	set := NewSet(IntType, nil)
	s, err = Tostr(set)
	if err != nil || s != "<>" {
		t.Errorf("empty set tostr = %q, %v", s, err)
	}
}
