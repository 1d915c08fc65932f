package ast

import "github.com/funvibe/tower/internal/typesystem"

// TypedNode is any node of the typed tree.
type TypedNode interface {
	Node
	Accept(v TypedVisitor)
}

// TypedElement is a resolved top-level definition: a function or a type.
type TypedElement interface {
	TypedNode
	ElementName() string
	typedElementNode()
}

// TypedWord is one resolved node of a function body.
type TypedWord interface {
	TypedNode
	// WordEffect is the stack effect of this node alone.
	WordEffect() typesystem.StackEffect
	typedWordNode()
}

// TypedVisitor walks a typed tree.
type TypedVisitor interface {
	VisitTypedModule(m *TypedModule)
	VisitTypedFunction(f *TypedFunction)
	VisitTypeDecl(t *TypeDecl)
	VisitCallWord(w *CallWord)
	VisitBuiltinWord(w *BuiltinWord)
	VisitTypedLiteral(l *TypedLiteral)
	VisitTypedConstructor(c *TypedConstructor)
	VisitTypedFieldAccess(f *TypedFieldAccess)
}

// TypedModule is the output of analysis. Names keeps declaration order;
// Elements holds every name in Names.
type TypedModule struct {
	Base
	Name     string
	Names    []string
	Elements map[string]TypedElement
}

func (m *TypedModule) Accept(v TypedVisitor) { v.VisitTypedModule(m) }
func (m *TypedModule) String() string        { return "module " + m.Name }

// Function returns the typed function called name.
func (m *TypedModule) Function(name string) (*TypedFunction, bool) {
	f, ok := m.Elements[name].(*TypedFunction)
	return f, ok
}

// TypedFunction is a function with its net stack effect.
type TypedFunction struct {
	Base
	Name   string
	Effect typesystem.StackEffect
	Body   []TypedWord
}

func (f *TypedFunction) Accept(v TypedVisitor) { v.VisitTypedFunction(f) }
func (f *TypedFunction) ElementName() string   { return f.Name }
func (f *TypedFunction) typedElementNode()     {}
func (f *TypedFunction) String() string        { return "fn " + f.Name + " " + f.Effect.String() }

// TypeDecl is a resolved struct.
type TypeDecl struct {
	Base
	Name string
	Type typesystem.Transparent
}

func (t *TypeDecl) Accept(v TypedVisitor) { v.VisitTypeDecl(t) }
func (t *TypeDecl) ElementName() string   { return t.Name }
func (t *TypeDecl) typedElementNode()     {}
func (t *TypeDecl) String() string        { return t.Type.Describe() }

// CallWord is a call to a function of the same module.
type CallWord struct {
	Base
	Name   string
	Effect typesystem.StackEffect
}

func (w *CallWord) Accept(v TypedVisitor)              { v.VisitCallWord(w) }
func (w *CallWord) WordEffect() typesystem.StackEffect { return w.Effect }
func (w *CallWord) typedWordNode()                     {}
func (w *CallWord) String() string                     { return w.Name }

// BuiltinWord is a call into the builtin table.
type BuiltinWord struct {
	Base
	Name   string
	Effect typesystem.StackEffect
}

func (w *BuiltinWord) Accept(v TypedVisitor)              { v.VisitBuiltinWord(w) }
func (w *BuiltinWord) WordEffect() typesystem.StackEffect { return w.Effect }
func (w *BuiltinWord) typedWordNode()                     {}
func (w *BuiltinWord) String() string                     { return w.Name }

// TypedLiteral pushes one constant. For function pointers Type is the
// Function type of the target.
type TypedLiteral struct {
	Base
	Type  typesystem.Type
	Value *Literal
}

func (l *TypedLiteral) Accept(v TypedVisitor) { v.VisitTypedLiteral(l) }
func (l *TypedLiteral) WordEffect() typesystem.StackEffect {
	return typesystem.Pushing(l.Type)
}
func (l *TypedLiteral) typedWordNode() {}
func (l *TypedLiteral) String() string { return l.Value.String() }

// TypedConstructor builds one instance of Type from its fields.
type TypedConstructor struct {
	Base
	Type   typesystem.Transparent
	Effect typesystem.StackEffect
}

func (c *TypedConstructor) Accept(v TypedVisitor)              { v.VisitTypedConstructor(c) }
func (c *TypedConstructor) WordEffect() typesystem.StackEffect { return c.Effect }
func (c *TypedConstructor) typedWordNode()                     {}
func (c *TypedConstructor) String() string                     { return "-> " + c.Type.Name }

// TypedFieldAccess copies one field of the aggregate on top of the stack.
type TypedFieldAccess struct {
	Base
	Field  string
	Effect typesystem.StackEffect
}

func (f *TypedFieldAccess) Accept(v TypedVisitor)              { v.VisitTypedFieldAccess(f) }
func (f *TypedFieldAccess) WordEffect() typesystem.StackEffect { return f.Effect }
func (f *TypedFieldAccess) typedWordNode()                     {}
func (f *TypedFieldAccess) String() string                     { return "." + f.Field }
