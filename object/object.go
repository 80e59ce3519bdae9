// ==============================================================================================
// FILE: object/object.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The runtime value model, components D and E. One concrete
//          struct per value kind, each embedding Base and implementing the
//          shared Value interface - the same struct-per-kind technique the
//          teacher uses for Integer/Float/Boolean/String/Function/Array,
//          generalized from the teacher's closed ObjectType string enum to
//          a reflexive *Type graph, since type(type) == type and
//          structural subtyping both need an actual object, not a tag.
// ==============================================================================================

package object

import (
	"fmt"
	"strings"

	"github.com/cstuartroe/goteko/ast"
)

// Value is anything that can be bound to a Variable: a primitive, a
// function, a struct instance, an iterable, a module, or a Type itself.
type Value interface {
	TekoType() *Type
	Namespace() *Namespace
	Name() string
}

// Base carries the three fields every Value needs. Embedding it is what
// lets every concrete kind get TekoType/Namespace/Name for free, mirroring
// how the teacher's Integer/String/Array/... each carry just the one
// field their kind needs plus a Type() method.
type Base struct {
	typ  *Type
	ns   *Namespace
	name string
}

func (b *Base) TekoType() *Type      { return b.typ }
func (b *Base) Namespace() *Namespace { return b.ns }
func (b *Base) Name() string          { return b.name }

// Kind distinguishes the handful of Type shapes that carry extra payload
// beyond a bare name: a plain named type (int, str, a user class), a
// function type (return type + parameter struct), or a struct-literal
// type (the parenthesized element list of a `(int x, int y)` literal).
type Kind int

const (
	KindPlain Kind = iota
	KindFunc
	KindStruct
)

// Type is itself a Value - reflexive and pointer-identity-compared, per
// spec invariant 1 (type(type) == type). It is deliberately one flat
// discriminated struct rather than three separate types, the same
// technique tag.Tag uses for lexical classification: the Kind field says
// which of ReturnType/ArgStruct/Elems are meaningful.
type Type struct {
	Base
	Parent *Type

	Kind Kind

	// KindFunc
	ReturnType *Type
	ArgStruct  *Type // always Kind == KindStruct

	// KindStruct
	Elems []*StructElem
}

func (t *Type) String() string {
	switch t.Kind {
	case KindFunc:
		return t.ReturnType.String() + t.ArgStruct.String()
	case KindStruct:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return t.name
	}
}

// StructElem is one element of a struct-type literal: a type, a label,
// and an optional default value used when a TekoNewStruct is called with
// fewer positional arguments than it declares.
type StructElem struct {
	Type    *Type
	Label   string
	Default Value
}

func (e *StructElem) String() string {
	s := e.Type.String() + " " + e.Label
	if e.Default != nil {
		s += " ? " + Repr(e.Default)
	}
	return s
}

// IsTekoType reports whether v is usable as a type: either the bootstrap
// root TypeType itself, or a value whose own TekoType() descends from it.
func IsTekoType(v Value) bool {
	if v == Value(TypeType) {
		return true
	}
	return IsTekoSubtype(v.TekoType(), TypeType)
}

// IsTekoSubtype climbs sub's Parent chain looking for sup. Every type is
// a subtype of ObjType regardless of its own Parent chain, per spec's
// subtype DAG rooted at obj.
func IsTekoSubtype(sub, sup *Type) bool {
	if sup == ObjType {
		return true
	}
	if sub == sup {
		return true
	}
	if sub.Parent == nil {
		return false
	}
	return IsTekoSubtype(sub.Parent, sup)
}

// IsTekoInstance reports whether v's runtime type subtypes tekotype.
func IsTekoInstance(v Value, tekotype *Type) bool {
	if v == nil {
		return false
	}
	return IsTekoSubtype(v.TekoType(), tekotype)
}

// Repr renders a value for diagnostics: "<type :: tostr-output>", the
// teacher's Inspect() role, grounded on TekoObject.__repr__.
func Repr(v Value) string {
	s, err := Tostr(v)
	if err != nil {
		s = v.Name()
	}
	return fmt.Sprintf("<%s :: %s>", v.TekoType().String(), s)
}

// Tostr invokes a value's bootstrapped _tostr attribute, the runtime
// equivalent of the teacher's Inspect().
func Tostr(v Value) (string, error) {
	fn, err := v.Namespace().GetAttr("_tostr")
	if err != nil {
		return "", err
	}
	f, ok := fn.(*Function)
	if !ok {
		return "", fmt.Errorf("_tostr is not callable")
	}
	result, err := f.Call(nil)
	if err != nil {
		return "", err
	}
	str, ok := result.(*Str)
	if !ok {
		return "", fmt.Errorf("_tostr did not return a str")
	}
	return str.Val, nil
}

// ----------------------------------------------------------------------------
// Primitives
// ----------------------------------------------------------------------------

type Bool struct {
	Base
	Val bool
}

type Int struct {
	Base
	Val int64
}

type Real struct {
	Base
	Val float64
}

type Str struct {
	Base
	Val string
}

// VoidVal is the sole inhabitant of VoidType, returned by statements and
// functions that produce no meaningful value.
type VoidVal struct{ Base }

// ----------------------------------------------------------------------------
// Functions
// ----------------------------------------------------------------------------

// ExecCodeblock runs an interpreted function body and returns its value.
// Assigned by package evaluator at import time: object cannot import
// evaluator (evaluator already imports object), so this is dependency
// injection through a package-level hook rather than a call down into a
// sibling package - the idiomatic Go way to break what would otherwise be
// an import cycle between "run a function" and "evaluate a codeblock".
var ExecCodeblock func(cb *ast.CodeBlock, ns *Namespace) (Value, error)

// Function is both a builtin (native Go closure) and an interpreted
// (Teko codeblock + closure) callable, the same split the teacher makes
// between object.Function and object.Builtin - unified here into one
// struct since both are called identically from the evaluator's
// CallExpression handling.
type Function struct {
	Base
	Builtin   func(args []Value) (Value, error)
	Codeblock *ast.CodeBlock
	Closure   *Namespace
	Outer     Value // receiver for a bound operator method, or nil
}

// NewInterpretedFunction builds a Function whose body is a Teko codeblock
// run lazily on each Call via the ExecCodeblock hook, closed over the
// namespace active at its declaration - the evaluator's function-sugar
// declarations use this rather than a composite literal since Base's
// fields are unexported.
func NewInterpretedFunction(ftype *Type, name string, cb *ast.CodeBlock, closure *Namespace) *Function {
	f := &Function{Base: Base{typ: ftype, name: name}, Codeblock: cb, Closure: closure}
	f.ns = NewNamespace(f)
	return f
}

// Call binds args against the function's ArgStruct and executes it,
// either natively or by delegating to the injected ExecCodeblock hook.
func (f *Function) Call(args []Value) (Value, error) {
	ftype := f.typ
	argStruct := ftype.ArgStruct

	if len(args) > len(argStruct.Elems) {
		return nil, fmt.Errorf("too many arguments: got %d, want at most %d", len(args), len(argStruct.Elems))
	}

	bound := make([]Value, len(argStruct.Elems))
	for i, elem := range argStruct.Elems {
		if i < len(args) {
			if !IsTekoInstance(args[i], elem.Type) {
				return nil, fmt.Errorf("argument %q: %s is not of type %s", elem.Label, Repr(args[i]), elem.Type.String())
			}
			bound[i] = args[i]
		} else if elem.Default != nil {
			bound[i] = elem.Default
		} else {
			return nil, fmt.Errorf("missing required argument %q", elem.Label)
		}
	}

	if f.Builtin != nil {
		result, err := f.Builtin(bound)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	if ExecCodeblock == nil {
		return nil, fmt.Errorf("interpreted functions are not wired to an evaluator")
	}

	callNS := NewNamespace(f, f.Closure)
	for i, elem := range argStruct.Elems {
		if err := callNS.Declare(elem.Label, elem.Type, bound[i], false); err != nil {
			return nil, err
		}
	}

	result, err := ExecCodeblock(f.Codeblock, callNS)
	if err != nil {
		return nil, err
	}
	if !IsTekoInstance(result, ftype.ReturnType) {
		return nil, fmt.Errorf("%s does not match return type %s", Repr(result), ftype.ReturnType.String())
	}
	return result, nil
}

// ----------------------------------------------------------------------------
// Structs
// ----------------------------------------------------------------------------

// StructInstance is a value built from a KindStruct Type: the runtime
// counterpart of a parenthesized struct literal used both for plain data
// structs and (via a KindFunc Type's ArgStruct) function argument lists.
type StructInstance struct {
	Base
	Values []Value // parallel to typ.Elems order
}

// ByLabel reads a struct element by name through the instance's own
// namespace rather than the Values slice, so it always reflects any
// assignment made via `instance.label = v` since that mutates the
// namespace Variable in place.
func (si *StructInstance) ByLabel(label string) (Value, bool) {
	v := si.ns.FetchAttr(label)
	if v == nil {
		return nil, false
	}
	return v.Value(), true
}

// ----------------------------------------------------------------------------
// Modules
// ----------------------------------------------------------------------------

// Module is a top-level namespace owner: the bootstrapped standard
// library, or a user source file once it has been loaded.
type Module struct {
	Base
}

// NewModule builds a user module namespace chained to stdlib, ready to
// be passed to evaluator.EvalProgram as the owner of a source file's
// top-level statements.
func NewModule(name string, stdlib *Namespace) *Module {
	m := &Module{Base: Base{typ: ModuleType, name: name}}
	m.ns = NewNamespace(m, stdlib)
	return m
}

// ----------------------------------------------------------------------------
// Iterables: list, array, set
// ----------------------------------------------------------------------------

// List is Teko's head-to-tail iterable, its items held in a Go slice.
type List struct {
	Base
	ElemType *Type
	Items    []Value
}

// Array is Teko's fixed-size, index-addressed iterable.
type Array struct {
	Base
	ElemType *Type
	Items    []Value
}

// Set is Teko's unordered-membership iterable; Order records insertion
// order since Go maps are not insertion-ordered and spec.md leaves
// iteration order on the original's Python set unspecified, so Teko pins
// insertion order explicitly.
type Set struct {
	Base
	ElemType *Type
	Order    []Value
}

func (s *Set) Contains(v Value) bool {
	for _, item := range s.Order {
		if valuesEqual(item, v) {
			return true
		}
	}
	return false
}

func (s *Set) Add(v Value) {
	if !s.Contains(v) {
		s.Order = append(s.Order, v)
	}
}

// valuesEqual is a best-effort structural comparison used for set
// membership, independent of the evaluator's _eq/_compare dispatch (so
// the object package has no dependency on evaluator for this).
func valuesEqual(a, b Value) bool {
	if a.TekoType() != b.TekoType() {
		return false
	}
	switch av := a.(type) {
	case *Int:
		return av.Val == b.(*Int).Val
	case *Real:
		return av.Val == b.(*Real).Val
	case *Str:
		return av.Val == b.(*Str).Val
	case *Bool:
		return av.Val == b.(*Bool).Val
	default:
		return a == b
	}
}
