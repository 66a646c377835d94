// Package ir defines the intermediate representation the effect inferencer
// (internal/inferrer) walks: a small expression tree with a Visitor
// dispatch in the same spirit as the teacher's internal/ast, but scoped to
// exactly the shapes the effect algebra distinguishes (SPEC_FULL.md §6, §10).
package ir

import "github.com/google/uuid"

// NodeID identifies a Node across process boundaries — a Go pointer would
// not survive marshaling to a separate LSP process, so every Node carries
// a UUIDv4 assigned at construction time.
type NodeID uuid.UUID

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// NewNodeID mints a fresh, globally unique node identifier.
func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

// Node is any IR expression. Accept dispatches to the matching Visit method;
// ID returns the node's stable identifier, used to key EffectMap and
// diagnostics.
type Node interface {
	ID() NodeID
	Accept(v Visitor)
}

// Visitor is implemented by consumers that walk the IR node by node; in
// this repository that is the effect inferencer (internal/inferrer).
type Visitor interface {
	VisitLiteral(*Literal)
	VisitVarRef(*VarRef)
	VisitVarUpdate(*VarUpdate)
	VisitOpApply(*OpApply)
	VisitLet(*Let)
	VisitLambda(*Lambda)
}

type base struct {
	id NodeID
}

func (b base) ID() NodeID { return b.id }

func newBase() base { return base{id: NewNodeID()} }

// Literal is a constant value: numbers, strings, booleans. It always has
// the pure effect.
type Literal struct {
	base
	Value string // source-text form; the effect algebra never inspects this
}

func NewLiteral(value string) *Literal {
	return &Literal{base: newBase(), Value: value}
}

func (l *Literal) Accept(v Visitor) { v.VisitLiteral(l) }

// VarRef refers to a name: the inferencer treats it as a let- or
// lambda-bound name when one is in scope, and otherwise as a read of the
// state variable of that name.
type VarRef struct {
	base
	Name string
}

func NewVarRef(name string) *VarRef {
	return &VarRef{base: newBase(), Name: name}
}

func (r *VarRef) Accept(v Visitor) { v.VisitVarRef(r) }

// VarUpdate assigns a new value to a state variable. Value is the
// expression producing the new value; the update node's own effect adds an
// update of Name on top of Value's effect.
type VarUpdate struct {
	base
	Name  string
	Value Node
}

func NewVarUpdate(name string, value Node) *VarUpdate {
	return &VarUpdate{base: newBase(), Name: name, Value: value}
}

func (u *VarUpdate) Accept(v Visitor) { v.VisitVarUpdate(u) }

// OpApply applies a named operator to a fixed list of arguments. Opcode is
// looked up in the signature table (internal/sigtable) to find the
// operator's effect scheme.
type OpApply struct {
	base
	Opcode string
	Args   []Node
}

func NewOpApply(opcode string, args ...Node) *OpApply {
	return &OpApply{base: newBase(), Opcode: opcode, Args: args}
}

func (a *OpApply) Accept(v Visitor) { v.VisitOpApply(a) }

// Let binds Name to the effect of Value while inferring Body; the Let
// node's own reported effect is the effect of Body (SPEC_FULL.md §4.4).
type Let struct {
	base
	Name  string
	Value Node
	Body  Node
}

func NewLet(name string, value, body Node) *Let {
	return &Let{base: newBase(), Name: name, Value: value, Body: body}
}

func (l *Let) Accept(v Visitor) { v.VisitLet(l) }

// Lambda introduces one fresh quantified effect per formal parameter while
// inferring Body, producing an Arrow effect.
type Lambda struct {
	base
	Params []string
	Body   Node
}

func NewLambda(params []string, body Node) *Lambda {
	return &Lambda{base: newBase(), Params: params, Body: body}
}

func (l *Lambda) Accept(v Visitor) { v.VisitLambda(l) }

// Def is one named top-level definition inside a Module.
type Def struct {
	base
	Name string
	Body Node
}

func NewDef(name string, body Node) *Def {
	return &Def{base: newBase(), Name: name, Body: body}
}

// ID exposes the Def's own node identifier, distinct from its Body's.
func (d *Def) ID() NodeID { return d.base.ID() }

// Module is an ordered list of definitions, the external collaborator the
// inferencer consumes (SPEC_FULL.md §6).
type Module struct {
	Path string
	Defs []*Def
}
