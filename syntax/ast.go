package syntax

// Typed views over the generic tree. Each view is a thin cursor that knows how
// to pick its meaningful children out of the token soup.

// LetBinding wraps a LetBinding node.
type LetExpr struct{ n *Node }

// AsLetBinding casts a node to a let binding view.
func AsLetBinding(n *Node) (LetExpr, bool) {
	if n == nil || n.kind != LetBinding {
		return LetExpr{}, false
	}
	return LetExpr{n}, true
}

// ClosureForm returns the closure child for `let f(..) = ..` bindings.
func (lb LetExpr) ClosureForm() (*Node, bool) {
	for _, child := range lb.n.children {
		if child.kind == Closure {
			return child, true
		}
	}
	return nil, false
}

// Pattern returns the bound pattern for normal-form bindings.
func (lb LetExpr) Pattern() *Node {
	for _, child := range lb.n.children {
		switch child.kind {
		case Let, Eq:
			continue
		case Closure:
			return nil
		}
		return child
	}
	return nil
}

// Init returns the initializer expression of a normal-form binding.
func (lb LetExpr) Init() *Node {
	seenEq := false
	for _, child := range lb.n.children {
		if child.kind == Eq {
			seenEq = true
			continue
		}
		if seenEq {
			return child
		}
	}
	return nil
}

// Closure wraps a Closure node.
type ClosureExpr struct{ n *Node }

func AsClosure(n *Node) (ClosureExpr, bool) {
	if n == nil || n.kind != Closure {
		return ClosureExpr{}, false
	}
	return ClosureExpr{n}, true
}

// Name returns the closure's name leaf for named closures.
func (c ClosureExpr) Name() *Node {
	if len(c.n.children) > 0 && c.n.children[0].kind == Ident {
		return c.n.children[0]
	}
	return nil
}

// Params returns the parameter nodes, Comma and paren tokens skipped.
func (c ClosureExpr) Params() []*Node {
	var params *Node
	for _, child := range c.n.children {
		if child.kind == Params {
			params = child
			break
		}
	}
	if params == nil {
		return nil
	}
	var out []*Node
	for _, child := range params.children {
		switch child.kind {
		case LeftParen, RightParen, Comma:
			continue
		}
		out = append(out, child)
	}
	return out
}

// Body returns the closure body expression.
func (c ClosureExpr) Body() *Node {
	seenSig := false
	for _, child := range c.n.children {
		switch child.kind {
		case Params:
			seenSig = true
			continue
		case Eq, Arrow:
			continue
		case Ident:
			if !seenSig {
				continue
			}
		}
		if seenSig {
			return child
		}
	}
	return nil
}

// Named wraps a Named node (`name: expr`), both as argument and parameter.
type NamedPair struct{ n *Node }

func AsNamed(n *Node) (NamedPair, bool) {
	if n == nil || n.kind != Named {
		return NamedPair{}, false
	}
	return NamedPair{n}, true
}

func (nd NamedPair) Name() *Node {
	if len(nd.n.children) > 0 && nd.n.children[0].kind == Ident {
		return nd.n.children[0]
	}
	return nil
}

func (nd NamedPair) Expr() *Node {
	seenColon := false
	for _, child := range nd.n.children {
		if child.kind == Colon || child.kind == Error {
			seenColon = true
			continue
		}
		if seenColon {
			return child
		}
	}
	return nil
}

// Spread wraps a Spread node (`..expr` or `..sink`).
type SpreadExpr struct{ n *Node }

func AsSpread(n *Node) (SpreadExpr, bool) {
	if n == nil || n.kind != Spread {
		return SpreadExpr{}, false
	}
	return SpreadExpr{n}, true
}

// SinkIdent returns the bound identifier of a spread parameter, if any.
func (s SpreadExpr) SinkIdent() *Node {
	for _, child := range s.n.children {
		if child.kind == Ident {
			return child
		}
	}
	return nil
}

// Expr returns the spread argument's inner expression.
func (s SpreadExpr) Expr() *Node {
	for _, child := range s.n.children {
		if child.kind != Dots {
			return child
		}
	}
	return nil
}

// Call wraps a FuncCall or SetRule node.
type Call struct{ n *Node }

func AsCall(n *Node) (Call, bool) {
	if n == nil || n.kind != FuncCall && n.kind != SetRule {
		return Call{}, false
	}
	return Call{n}, true
}

// Callee returns the called expression (the set target for set rules).
func (c Call) Callee() *Node {
	for _, child := range c.n.children {
		switch child.kind {
		case Set, Args:
			continue
		}
		return child
	}
	return nil
}

// ArgsNode returns the Args child.
func (c Call) ArgsNode() *Node {
	for _, child := range c.n.children {
		if child.kind == Args {
			return child
		}
	}
	return nil
}

// IsSet reports whether this is a set rule.
func (c Call) IsSet() bool { return c.n.kind == SetRule }

// ArgItems returns the argument nodes of an Args node in source order,
// skipping the paren and comma tokens. Content blocks count as positional
// arguments.
func ArgItems(args *Node) []*Node {
	if args == nil {
		return nil
	}
	var out []*Node
	for _, child := range args.children {
		switch child.kind {
		case LeftParen, RightParen, Comma:
			continue
		}
		out = append(out, child)
	}
	return out
}

// FieldAccessName returns the field-name leaf of a FieldAccess node.
func FieldAccessName(n *Node) *Node {
	if n == nil || n.kind != FieldAccess {
		return nil
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if n.children[i].kind == Ident {
			return n.children[i]
		}
	}
	return nil
}

// FieldAccessTarget returns the receiver expression of a FieldAccess node.
func FieldAccessTarget(n *Node) *Node {
	if n == nil || n.kind != FieldAccess || len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// ImportPathNode returns the path expression of an import or include.
func ImportPathNode(n *Node) *Node {
	if n == nil || n.kind != ModuleImport && n.kind != ModuleInclude {
		return nil
	}
	for _, child := range n.children {
		switch child.kind {
		case Import, Include:
			continue
		}
		return child
	}
	return nil
}
