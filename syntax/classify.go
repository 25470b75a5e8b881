package syntax

import "strings"

// ArgClass describes which slot of an argument list a node occupies.
type ArgClass interface{ isArgClass() }

// PositionalArg is a positional (or spread) argument slot: the number of
// positional arguments before it and the spread arguments crossed on the way.
type PositionalArg struct {
	Spreads    []*Node
	Positional int
	IsSpread   bool
}

// NamedArg is a named argument slot, pointing at the name leaf.
type NamedArg struct {
	Name *Node
}

func (PositionalArg) isArgClass() {}
func (NamedArg) isArgClass()      {}

// SyntaxContext classifies the syntactic surroundings of a node, the outer
// half of deciding what IDE functionality applies at a position.
type SyntaxContext interface{ isSyntaxContext() }

// ContextArg is a node inside a call's argument list.
type ContextArg struct {
	Callee *Node
	Args   *Node
	Target ArgClass
	IsSet  bool
}

// ContextElement is a node inside an array or dictionary literal.
type ContextElement struct {
	Container *Node
	Target    ArgClass
}

// ContextParen is a node inside a parenthesized expression, ambiguous between
// grouping and a one-element collection literal.
type ContextParen struct {
	Container *Node
	IsBefore  bool
}

// ContextVarAccess is a plain variable or field access.
type ContextVarAccess struct {
	Node *Node
}

// ContextImportPath is the path expression of an import.
type ContextImportPath struct {
	Node *Node
}

// ContextIncludePath is the path expression of an include.
type ContextIncludePath struct {
	Node *Node
}

// ContextLabel is a label, possibly recovered from an error token.
type ContextLabel struct {
	Node    *Node
	IsError bool
}

// ContextNormal is any other node.
type ContextNormal struct {
	Node *Node
}

func (ContextArg) isSyntaxContext()         {}
func (ContextElement) isSyntaxContext()     {}
func (ContextParen) isSyntaxContext()       {}
func (ContextVarAccess) isSyntaxContext()   {}
func (ContextImportPath) isSyntaxContext()  {}
func (ContextIncludePath) isSyntaxContext() {}
func (ContextLabel) isSyntaxContext()       {}
func (ContextNormal) isSyntaxContext()      {}

// ClassifyContext classifies the context of the given node. Returns nil when
// nothing about the surroundings is actionable.
func ClassifyContext(node *Node) SyntaxContext {
	if node == nil {
		return nil
	}

	switch node.kind {
	case Label:
		return ContextLabel{Node: node}
	case Error:
		if strings.HasPrefix(node.text, "<") {
			return ContextLabel{Node: node, IsError: true}
		}
	}

	if parent := node.parent; parent != nil {
		switch parent.kind {
		case ModuleImport:
			return ContextImportPath{Node: node}
		case ModuleInclude:
			return ContextIncludePath{Node: node}
		}
	}

	// walk out of named pairs so `name: v|` classifies against the list
	target := node
	parent := node.parent
	for parent != nil && (parent.kind == Named || parent.kind == Colon) {
		target = parent
		parent = parent.parent
	}
	if parent == nil {
		return ContextNormal{Node: node}
	}

	switch parent.kind {
	case Args:
		call, ok := AsCall(parent.parent)
		if !ok {
			return ContextNormal{Node: node}
		}
		// a named argument's name leaf addresses the parameter itself
		paramNode := target
		if node.ParentKind() == Named && node.kind == Ident && node.NextSiblingKind() == Colon {
			paramNode = node
		}
		argTarget := argContext(parent, paramNode, Args)
		if argTarget == nil {
			return ContextNormal{Node: node}
		}
		return ContextArg{
			Callee: call.Callee(),
			Args:   parent,
			Target: argTarget,
			IsSet:  call.IsSet(),
		}
	case Array, Dict:
		argTarget := argContext(parent, target, parent.kind)
		if argTarget == nil {
			return ContextNormal{Node: node}
		}
		return ContextElement{Container: parent, Target: argTarget}
	case Parenthesized:
		return ContextParen{
			Container: parent,
			IsBefore:  node.offset <= parent.offset+1,
		}
	}

	switch node.kind {
	case Ident, FieldAccess:
		return ContextVarAccess{Node: node}
	}
	return ContextNormal{Node: node}
}

// ClassifyCursor classifies the context at a byte offset in the tree.
func ClassifyCursor(root *Node, offset int) SyntaxContext {
	leaf := root.LeafAt(offset)
	if leaf == nil {
		return nil
	}
	// a cursor sitting on list punctuation classifies as the upcoming slot
	switch leaf.kind {
	case LeftParen, Comma:
		if parent := leaf.parent; parent != nil {
			switch parent.kind {
			case Args:
				if call, ok := AsCall(parent.parent); ok {
					argTarget := argContext(parent, leaf, Args)
					if argTarget != nil {
						return ContextArg{Callee: call.Callee(), Args: parent, Target: argTarget, IsSet: call.IsSet()}
					}
				}
			case Array, Dict:
				argTarget := argContext(parent, leaf, parent.kind)
				if argTarget != nil {
					return ContextElement{Container: parent, Target: argTarget}
				}
			case Parenthesized:
				return ContextParen{Container: parent, IsBefore: leaf.offset <= parent.offset+1}
			}
		}
	case Colon:
		if prev := leaf.PrevLeaf(); prev != nil && prev.kind == Ident {
			if args := leaf.parent; args != nil {
				if call, ok := AsCall(args.parent); ok {
					return ContextArg{Callee: call.Callee(), Args: args, Target: NamedArg{Name: prev}, IsSet: call.IsSet()}
				}
			}
		}
	}
	return ClassifyContext(leaf)
}

// argContext computes the ArgClass of a node within an argument or collection
// list by scanning the items before it.
func argContext(list *Node, node *Node, sourceKind Kind) ArgClass {
	if node.kind == RightParen {
		if prev := node.PrevSibling(); prev != nil {
			node = prev
		}
	}
	switch node.kind {
	case Named:
		named, _ := AsNamed(node)
		if name := named.Name(); name != nil {
			return NamedArg{Name: name}
		}
		return nil
	case Ident:
		// the name leaf of a named pair
		if node.ParentKind() == Named && node.NextSiblingKind() == Colon {
			return NamedArg{Name: node}
		}
	}

	var spreads []*Node
	positional := 0
	isSpread := node.kind == Spread

	for _, child := range list.children {
		if child == node || childEnd(child) > node.offset {
			break
		}
		switch sourceKind {
		case Args, Array:
			switch child.kind {
			case Spread:
				spreads = append(spreads, child)
			case LeftParen, RightParen, Comma, Colon, Named:
			default:
				positional++
			}
		case Dict:
			if child.kind == Spread {
				spreads = append(spreads, child)
			}
		}
	}

	return PositionalArg{Spreads: spreads, Positional: positional, IsSpread: isSpread}
}

func childEnd(n *Node) int {
	_, end := n.Range()
	return end
}

// IsFieldAccessName reports whether node is the field-name child of a
// FieldAccess context, where context classification must not penetrate.
func IsFieldAccessName(context, node *Node) bool {
	if context == nil || context.kind != FieldAccess {
		return false
	}
	return FieldAccessName(context) == node
}
