// ==============================================================================================
// FILE: object/namespace.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The scope-chain symbol table, components D's Namespace/Variable
//          model. Generalizes the teacher's Environment (store
//          map[string]Object, single outer *Environment) to spec's ordered
//          multi-outer chain and typed, optionally-immutable Variables.
// ==============================================================================================

package object

import "fmt"

// Variable is a typed storage cell: every declared label gets one, with
// a fixed tekotype that every future Set must be an instance of, plus an
// immutable flag enforcing write-once semantics for readonly/constant
// declarations.
type Variable struct {
	typ       *Type
	value     Value
	immutable bool
	bound     bool // true once value has been assigned at least once
}

func (v *Variable) TekoType() *Type { return v.typ }
func (v *Variable) Value() Value    { return v.value }
func (v *Variable) Bound() bool     { return v.bound }

// NewVariable builds a field-less, immutable Variable wrapping an
// already-computed value - the "Ephemeral" half of spec's Variable model,
// returned by expression evaluations that aren't a lookup (literals,
// binop results, call results). Ephemeral Variables are never a valid
// assignment target since no Namespace holds a pointer to them.
func NewVariable(val Value) *Variable {
	return &Variable{typ: val.TekoType(), value: val, immutable: true, bound: true}
}

func (v *Variable) Set(val Value) error {
	if v.bound && v.immutable {
		return fmt.Errorf("cannot reassign immutable variable")
	}
	if !IsTekoInstance(val, v.typ) {
		return fmt.Errorf("%s is not of type %s", Repr(val), v.typ.String())
	}
	v.value = val
	v.bound = true
	return nil
}

// Namespace is one lexical scope: an owner value, its own variable
// store, and a list of enclosing scopes to search when a label is not
// found locally - generalized from the teacher's single outer pointer
// because spec's owners (functions nested in other functions, classes
// nested in modules) can have more than one enclosing scope in play.
type Namespace struct {
	vars   map[string]*Variable
	owner  Value
	outers []*Namespace
}

// NewNamespace builds a fresh scope owned by owner, chained to outers in
// the order given (searched in that order on a miss).
func NewNamespace(owner Value, outers ...*Namespace) *Namespace {
	return &Namespace{vars: make(map[string]*Variable), owner: owner, outers: outers}
}

func (ns *Namespace) Owner() Value { return ns.owner }

// Declare introduces a new label in this scope only. The label must be
// free recursively - unbound in this scope and every outer scope - so a
// declaration can never shadow an enclosing or stdlib name; shadowing is
// not part of Teko's declaration model.
func (ns *Namespace) Declare(label string, tekotype *Type, val Value, immutable bool) error {
	if !ns.IsFreeVar(label) {
		return fmt.Errorf("label already declared: %s", label)
	}
	v := &Variable{typ: tekotype, immutable: immutable}
	if val != nil {
		if err := v.Set(val); err != nil {
			return err
		}
	}
	ns.vars[label] = v
	return nil
}

// IsFreeAttr reports whether label is unbound in this scope's own vars
// (no outer search). Declare requires the recursive IsFreeVar instead.
func (ns *Namespace) IsFreeAttr(label string) bool {
	_, exists := ns.vars[label]
	return !exists
}

// IsFreeVar reports whether label is unclaimed anywhere in scope: this
// namespace and every outer namespace.
func (ns *Namespace) IsFreeVar(label string) bool {
	if !ns.IsFreeAttr(label) {
		return false
	}
	for _, outer := range ns.outers {
		if !outer.IsFreeVar(label) {
			return false
		}
	}
	return true
}

func (ns *Namespace) FetchAttr(label string) *Variable {
	return ns.vars[label]
}

func (ns *Namespace) FetchVar(label string) *Variable {
	if v := ns.FetchAttr(label); v != nil {
		return v
	}
	for _, outer := range ns.outers {
		if v := outer.FetchVar(label); v != nil {
			return v
		}
	}
	return nil
}

func (ns *Namespace) GetAttr(label string) (Value, error) {
	v := ns.FetchAttr(label)
	if v == nil {
		return nil, fmt.Errorf("%s has no attribute %s", Repr(ns.owner), label)
	}
	return v.Value(), nil
}

func (ns *Namespace) GetVar(label string) (Value, error) {
	v := ns.FetchVar(label)
	if v == nil {
		return nil, fmt.Errorf("no variable in scope called %s", label)
	}
	return v.Value(), nil
}

func (ns *Namespace) Set(label string, val Value) error {
	v := ns.FetchAttr(label)
	if v == nil {
		return fmt.Errorf("%s has no attribute %s", Repr(ns.owner), label)
	}
	return v.Set(val)
}
