// ==============================================================================================
// FILE: object/bootstrap.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: Builds the reflexive type graph and the bootstrapped standard
//          library, components D and E. Two-phase construction
//          (placeholder, then patch) because TypeType's own TekoType()
//          must be itself - a pointer cycle that cannot be written in one
//          composite literal. Mirrors the teacher's object/builtins.go
//          registration-table shape for the primitive-type and stdlib-
//          function declarations that follow.
// ==============================================================================================

package object

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Bootstrap-rooted type graph. Populated once by init().
var (
	TypeType   *Type
	ObjType    *Type
	VoidType   *Type
	StructType *Type
	ModuleType *Type
	BoolType   *Type
	StrType    *Type
	IntType    *Type
	RealType   *Type
	ListType   *Type
	ArrayType  *Type
	SetType    *Type

	Void *VoidVal
)

func init() {
	// Phase 1: placeholders with a nil tekotype, so TypeType can refer to
	// itself once patched.
	TypeType = &Type{Base: Base{name: "type"}}
	ObjType = &Type{Base: Base{name: "obj"}}

	// Phase 2: patch every bootstrap type's own TekoType to TypeType,
	// per spec invariant 1 (type(type) == type).
	TypeType.typ = TypeType
	ObjType.typ = TypeType

	VoidType = &Type{Base: Base{typ: TypeType, name: "void"}}
	StructType = &Type{Base: Base{typ: TypeType, name: "struct"}, Parent: TypeType}
	ModuleType = &Type{Base: Base{typ: TypeType, name: "module"}}
	BoolType = &Type{Base: Base{typ: TypeType, name: "bool"}}
	StrType = &Type{Base: Base{typ: TypeType, name: "str"}}
	IntType = &Type{Base: Base{typ: TypeType, name: "int"}}
	RealType = &Type{Base: Base{typ: TypeType, name: "real"}}
	ListType = &Type{Base: Base{typ: TypeType, name: "list"}}
	ArrayType = &Type{Base: Base{typ: TypeType, name: "array"}}
	SetType = &Type{Base: Base{typ: TypeType, name: "set"}}

	for _, t := range []*Type{TypeType, ObjType, VoidType, StructType, ModuleType,
		BoolType, StrType, IntType, RealType, ListType, ArrayType, SetType} {
		t.ns = NewNamespace(t)
		declareTostr(t.ns, t, func() string { return t.name })
	}

	Void = &VoidVal{Base: Base{typ: VoidType, name: "void"}}
	Void.ns = NewNamespace(Void)
	declareTostr(Void.ns, Void, func() string { return "void" })
}

// declareTostr gives owner a _tostr attribute: a zero-argument function
// returning strFn() as a Str, the runtime counterpart of the teacher's
// Inspect(). Primitives, iterables, bootstrap types, Void and struct
// instances get one; struct types, function types, functions and modules
// do not, and Repr falls back to their name.
func declareTostr(ns *Namespace, owner Value, strFn func() string) {
	ftype := NewFuncType(StrType, nil)
	fn := &Function{
		Base:    Base{typ: ftype, name: "_tostr"},
		Outer:   owner,
		Builtin: func(args []Value) (Value, error) { return NewStr(strFn()), nil },
	}
	fn.ns = NewNamespace(fn)
	_ = ns.Declare("_tostr", ftype, fn, true)
}

// ----------------------------------------------------------------------------
// Struct and function types
// ----------------------------------------------------------------------------

// NewStructType builds the runtime Type for a `(type label ? default, ...)`
// struct-literal, the counterpart of TekoNewStruct in
// original_source/src/framework.py.
// Note: deliberately does not call declareTostr - doing so would call
// NewFuncType below, which calls NewStructType for its argument list,
// recursing without end. Struct-type and function-type values fall back
// to their bare name via Repr when stringified, which happens rarely
// enough (typeof output, diagnostics) not to need a bootstrapped _tostr.
func NewStructType(elems []*StructElem) *Type {
	st := &Type{Base: Base{typ: StructType, name: "struct literal"}, Kind: KindStruct, Elems: elems}
	st.ns = NewNamespace(st)
	return st
}

// NewFuncType builds the runtime Type for `returnType(elems...)`, the
// counterpart of TekoFunctionType.
func NewFuncType(returnType *Type, elems []*StructElem) *Type {
	argStruct := NewStructType(elems)
	ft := &Type{Base: Base{typ: TypeType, name: "function type"}, Kind: KindFunc, ReturnType: returnType, ArgStruct: argStruct}
	ft.ns = NewNamespace(ft)
	_ = ft.ns.Declare("_args", StructType, argStruct, true)
	_ = ft.ns.Declare("_rtype", TypeType, returnType, true)
	return ft
}

// NewStructInstance fills a struct literal's positional arguments,
// falling back to each element's default where an argument is omitted -
// ported from TekoStructInstance.__init__.
func NewStructInstance(st *Type, args []Value) (*StructInstance, error) {
	if st.Kind != KindStruct {
		return nil, fmt.Errorf("%s is not a struct type", st.String())
	}
	if len(args) > len(st.Elems) {
		return nil, fmt.Errorf("too many struct arguments: got %d, want at most %d", len(args), len(st.Elems))
	}
	values := make([]Value, len(st.Elems))
	for i, elem := range st.Elems {
		if i < len(args) {
			if !IsTekoInstance(args[i], elem.Type) {
				return nil, fmt.Errorf("%s is not of type %s", Repr(args[i]), elem.Type.String())
			}
			values[i] = args[i]
		} else if elem.Default != nil {
			values[i] = elem.Default
		} else {
			return nil, fmt.Errorf("missing required struct element %q", elem.Label)
		}
	}
	si := &StructInstance{Base: Base{typ: st, name: st.String()}, Values: values}
	si.ns = NewNamespace(si)
	for i, elem := range st.Elems {
		if err := si.ns.Declare(elem.Label, elem.Type, values[i], false); err != nil {
			return nil, err
		}
	}
	declareTostr(si.ns, si, si.Name)
	bindOperator(si.ns, si, "_eq", opFuncType(BoolType, st, "other"), func(args []Value) (Value, error) {
		other, ok := args[0].(*StructInstance)
		if !ok || len(other.typ.Elems) != len(st.Elems) {
			return NewBool(false), nil
		}
		for _, elem := range st.Elems {
			mine, _ := si.ByLabel(elem.Label)
			theirs, ok := other.ByLabel(elem.Label)
			if !ok || !valuesEqual(mine, theirs) {
				return NewBool(false), nil
			}
		}
		return NewBool(true), nil
	})
	return si, nil
}

// ----------------------------------------------------------------------------
// Operator function helpers
// ----------------------------------------------------------------------------

func opFuncType(returnType, argType *Type, argLabel string) *Type {
	return NewFuncType(returnType, []*StructElem{{Type: argType, Label: argLabel}})
}

func bindOperator(ns *Namespace, owner Value, label string, ftype *Type, fn func(args []Value) (Value, error)) {
	f := &Function{Base: Base{typ: ftype, name: label}, Outer: owner, Builtin: fn}
	f.ns = NewNamespace(f)
	_ = ns.Declare(label, ftype, f, true)
}

// ----------------------------------------------------------------------------
// Primitive constructors
// ----------------------------------------------------------------------------

func NewBool(b bool) *Bool {
	name := "false"
	if b {
		name = "true"
	}
	v := &Bool{Base: Base{typ: BoolType, name: name}, Val: b}
	v.ns = NewNamespace(v)
	declareTostr(v.ns, v, func() string { return name })

	andOrType := opFuncType(BoolType, BoolType, "other")
	bindOperator(v.ns, v, "_and", andOrType, func(args []Value) (Value, error) {
		return NewBool(v.Val && args[0].(*Bool).Val), nil
	})
	bindOperator(v.ns, v, "_or", andOrType, func(args []Value) (Value, error) {
		return NewBool(v.Val || args[0].(*Bool).Val), nil
	})
	bindOperator(v.ns, v, "_eq", opFuncType(BoolType, BoolType, "other"), func(args []Value) (Value, error) {
		return NewBool(v.Val == args[0].(*Bool).Val), nil
	})
	return v
}

func NewInt(n int64) *Int {
	v := &Int{Base: Base{typ: IntType, name: fmt.Sprintf("%d", n)}, Val: n}
	v.ns = NewNamespace(v)
	declareTostr(v.ns, v, v.Name)

	binopType := opFuncType(IntType, IntType, "other")
	ops := map[string]func(a, b int64) int64{
		"_add": func(a, b int64) int64 { return a + b },
		"_sub": func(a, b int64) int64 { return a - b },
		"_mul": func(a, b int64) int64 { return a * b },
		"_div": func(a, b int64) int64 { return floorDiv(a, b) },
		"_exp": func(a, b int64) int64 { return intPow(a, b) },
		"_mod": func(a, b int64) int64 { return floorMod(a, b) },
	}
	for name, op := range ops {
		op := op
		bindOperator(v.ns, v, name, binopType, func(args []Value) (Value, error) {
			return NewInt(op(v.Val, args[0].(*Int).Val)), nil
		})
	}
	bindOperator(v.ns, v, "_compare", opFuncType(IntType, IntType, "other"), func(args []Value) (Value, error) {
		return NewInt(int64(compareInts(v.Val, args[0].(*Int).Val))), nil
	})
	return v
}

func NewReal(x float64) *Real {
	v := &Real{Base: Base{typ: RealType, name: fmt.Sprintf("%v", x)}, Val: x}
	v.ns = NewNamespace(v)
	declareTostr(v.ns, v, v.Name)

	binopType := opFuncType(RealType, RealType, "other")
	ops := map[string]func(a, b float64) float64{
		"_add": func(a, b float64) float64 { return a + b },
		"_sub": func(a, b float64) float64 { return a - b },
		"_mul": func(a, b float64) float64 { return a * b },
		"_div": func(a, b float64) float64 { return a / b },
	}
	for name, op := range ops {
		op := op
		bindOperator(v.ns, v, name, binopType, func(args []Value) (Value, error) {
			return NewReal(op(v.Val, args[0].(*Real).Val)), nil
		})
	}
	bindOperator(v.ns, v, "_exp", binopType, func(args []Value) (Value, error) {
		return NewReal(realPow(v.Val, args[0].(*Real).Val)), nil
	})
	bindOperator(v.ns, v, "_compare", opFuncType(IntType, RealType, "other"), func(args []Value) (Value, error) {
		return NewInt(int64(compareReals(v.Val, args[0].(*Real).Val))), nil
	})
	return v
}

func NewStr(s string) *Str {
	v := &Str{Base: Base{typ: StrType, name: s}, Val: s}
	v.ns = NewNamespace(v)
	declareTostr(v.ns, v, func() string { return s })

	bindOperator(v.ns, v, "_add", opFuncType(StrType, StrType, "other"), func(args []Value) (Value, error) {
		return NewStr(v.Val + args[0].(*Str).Val), nil
	})
	bindOperator(v.ns, v, "_eq", opFuncType(BoolType, StrType, "other"), func(args []Value) (Value, error) {
		return NewBool(v.Val == args[0].(*Str).Val), nil
	})
	return v
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func intPow(a, b int64) int64 {
	result := int64(1)
	for i := int64(0); i < b; i++ {
		result *= a
	}
	return result
}

func realPow(a, b float64) float64 {
	result := 1.0
	neg := b < 0
	if neg {
		b = -b
	}
	for i := 0.0; i < b; i++ {
		result *= a
	}
	if neg {
		return 1 / result
	}
	return result
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareReals(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ----------------------------------------------------------------------------
// Iterable constructors
// ----------------------------------------------------------------------------

func NewList(elemType *Type, items []Value) *List {
	v := &List{Base: Base{typ: ListType, name: "list"}, ElemType: elemType, Items: items}
	v.ns = NewNamespace(v)
	declareTostr(v.ns, v, func() string { return inspectItems("{", "}", v.Items) })
	return v
}

func NewArray(elemType *Type, items []Value) *Array {
	v := &Array{Base: Base{typ: ArrayType, name: "array"}, ElemType: elemType, Items: items}
	v.ns = NewNamespace(v)
	declareTostr(v.ns, v, func() string { return inspectItems("[", "]", v.Items) })
	return v
}

func NewSet(elemType *Type, items []Value) *Set {
	v := &Set{Base: Base{typ: SetType, name: "set"}, ElemType: elemType}
	v.ns = NewNamespace(v)
	for _, item := range items {
		v.Add(item)
	}
	declareTostr(v.ns, v, func() string { return inspectItems("<", ">", v.Order) })
	return v
}

func inspectItems(open, closeBrace string, items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		s, err := Tostr(item)
		if err != nil {
			s = item.Name()
		}
		parts[i] = s
	}
	return open + strings.Join(parts, ", ") + closeBrace
}

// ----------------------------------------------------------------------------
// Standard library bootstrap
// ----------------------------------------------------------------------------

// Option configures the bootstrapped standard library's I/O-facing
// builtins, generalizing the teacher's repl.Start(in io.Reader, out
// io.Writer) parameterization to functional options.
type Option func(*stdlibConfig)

type stdlibConfig struct {
	stdout io.Writer
	stdin  io.Reader
}

func WithStdout(w io.Writer) Option { return func(c *stdlibConfig) { c.stdout = w } }
func WithStdin(r io.Reader) Option  { return func(c *stdlibConfig) { c.stdin = r } }

// Bootstrap builds the standard library module and returns its
// namespace, ready to be used as the outermost scope for a program.
func Bootstrap(opts ...Option) *Namespace {
	cfg := &stdlibConfig{stdout: os.Stdout, stdin: os.Stdin}
	for _, opt := range opts {
		opt(cfg)
	}

	stdlib := &Module{Base: Base{typ: ModuleType, name: "stdlib"}}
	ns := NewNamespace(stdlib)
	stdlib.ns = ns

	declare := func(label string, tekotype *Type, val Value) {
		if err := ns.Declare(label, tekotype, val, true); err != nil {
			panic(err)
		}
	}

	declare("type", TypeType, TypeType)
	declare("obj", TypeType, ObjType)
	declare("module", TypeType, ModuleType)
	declare("void", TypeType, VoidType)
	declare("struct", TypeType, StructType)
	declare("bool", TypeType, BoolType)
	declare("str", TypeType, StrType)
	declare("int", TypeType, IntType)
	declare("real", TypeType, RealType)
	declare("list", TypeType, ListType)
	declare("array", TypeType, ArrayType)
	declare("set", TypeType, SetType)

	printElem := &StructElem{Type: ObjType, Label: "obj", Default: NewStr("\n")}
	printType := NewFuncType(VoidType, []*StructElem{printElem})
	printFn := &Function{
		Base: Base{typ: printType, name: "print"},
		Builtin: func(args []Value) (Value, error) {
			s, err := Tostr(args[0])
			if err != nil {
				return nil, err
			}
			fmt.Fprint(cfg.stdout, s)
			return Void, nil
		},
	}
	printFn.ns = NewNamespace(printFn)
	declare("print", printType, printFn)

	typeofType := NewFuncType(TypeType, []*StructElem{{Type: ObjType, Label: "obj"}})
	typeofFn := &Function{
		Base:    Base{typ: typeofType, name: "typeof"},
		Builtin: func(args []Value) (Value, error) { return args[0].TekoType(), nil },
	}
	typeofFn.ns = NewNamespace(typeofFn)
	declare("typeof", typeofType, typeofFn)

	assertType := NewFuncType(VoidType, []*StructElem{{Type: BoolType, Label: "statement"}})
	assertFn := &Function{
		Base: Base{typ: assertType, name: "assert"},
		Builtin: func(args []Value) (Value, error) {
			if !args[0].(*Bool).Val {
				return nil, fmt.Errorf("assertion failed")
			}
			return Void, nil
		},
	}
	assertFn.ns = NewNamespace(assertFn)
	declare("assert", assertType, assertFn)

	inputElem := &StructElem{Type: StrType, Label: "prompt", Default: NewStr("")}
	inputType := NewFuncType(StrType, []*StructElem{inputElem})
	reader := bufio.NewReader(cfg.stdin)
	inputFn := &Function{
		Base: Base{typ: inputType, name: "input"},
		Builtin: func(args []Value) (Value, error) {
			prompt := args[0].(*Str).Val
			if prompt != "" {
				fmt.Fprint(cfg.stdout, prompt)
			}
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return NewStr(""), nil
			}
			return NewStr(strings.TrimRight(line, "\r\n")), nil
		},
	}
	inputFn.ns = NewNamespace(inputFn)
	declare("input", inputType, inputFn)

	return ns
}
