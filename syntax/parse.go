package syntax

import (
	"log/slog"

	"github.com/Myriad-Dreamin/tinymist-sub003/internal/log"
	"github.com/pkg/errors"
)

var logger = log.DefaultLogger.With(slog.String("section", "syntax"))

// Parse parses a code-mode document into a numbered syntax tree. The tree
// always covers the whole source; malformed pieces become Error leaves and are
// additionally reported through the returned error slice.
func Parse(src string) (*Node, []error) {
	p := &parser{lex: &lexer{src: src}}
	p.advance()
	children := p.stmts()
	root := NewInner(Code, children...)
	numberNodes(root)
	if len(p.errors) > 0 {
		logger.Debug("parsed with errors", slog.Int("count", len(p.errors)))
	}
	return root, p.errors
}

// MustParse parses and panics on any syntax error. Intended for fixtures.
func MustParse(src string) *Node {
	root, errs := Parse(src)
	if len(errs) > 0 {
		panic(errs[0])
	}
	return root
}

// maxExprDepth bounds expression nesting so that pathological input degrades
// to Error nodes instead of exhausting the call stack.
const maxExprDepth = 256

type parser struct {
	lex    *lexer
	cur    *Node
	depth  int
	errors []error
}

// advance moves to the next non-trivia token. Trivia never enters the tree,
// node offsets come from the lexer directly.
func (p *parser) advance() {
	for {
		tok := p.lex.next()
		if tok.kind.IsTrivia() {
			continue
		}
		p.cur = tok
		return
	}
}

// take consumes and returns the current token.
func (p *parser) take() *Node {
	tok := p.cur
	p.advance()
	return tok
}

// bump appends the current token and advances.
func (p *parser) bump(children *[]*Node) {
	*children = append(*children, p.take())
}

// expect consumes a token of the given kind or records an error and inserts a
// zero-width Error leaf so ranges stay consistent.
func (p *parser) expect(kind Kind, children *[]*Node) {
	if p.cur.kind == kind {
		p.bump(children)
		return
	}
	p.errors = append(p.errors, errors.Errorf("expected %v, found %v at offset %d", kind, p.cur.kind, p.lex.cursor))
	errLeaf := NewLeaf(Error, "")
	errLeaf.offset = p.cur.offset
	*children = append(*children, errLeaf)
}

func (p *parser) at(kind Kind) bool { return p.cur.kind == kind }

func (p *parser) stmts() []*Node {
	var children []*Node
	for !p.at(End) {
		switch p.cur.kind {
		case Let:
			children = append(children, p.letBinding())
		case Set:
			children = append(children, p.setRule())
		case Import:
			children = append(children, p.moduleImport())
		case Include:
			children = append(children, p.moduleInclude())
		case Semicolon:
			p.bump(&children)
		default:
			before := p.cur
			children = append(children, p.expr())
			if p.cur == before {
				// no progress, skip the offending token
				p.errors = append(p.errors, errors.Errorf("unexpected token %v at offset %d", p.cur.kind, p.lex.cursor))
				p.bump(&children)
			}
		}
	}
	return children
}

func (p *parser) letBinding() *Node {
	var children []*Node
	p.bump(&children) // let
	if p.at(Ident) && p.lex.peek() == '(' {
		children = append(children, p.letClosure())
		return NewInner(LetBinding, children...)
	}
	// pattern: ident, placeholder, or parenthesized group
	switch p.cur.kind {
	case Ident, Underscore:
		p.bump(&children)
	case LeftParen:
		children = append(children, p.parenGroup())
	default:
		p.expect(Ident, &children)
	}
	if p.at(Eq) {
		p.bump(&children)
		children = append(children, p.expr())
	}
	return NewInner(LetBinding, children...)
}

// letClosure parses `name(params) = body`.
func (p *parser) letClosure() *Node {
	var children []*Node
	p.bump(&children) // name
	children = append(children, p.params())
	p.expect(Eq, &children)
	children = append(children, p.expr())
	return NewInner(Closure, children...)
}

func (p *parser) params() *Node {
	var children []*Node
	p.expect(LeftParen, &children)
	for !p.at(RightParen) && !p.at(End) {
		children = append(children, p.param())
		if p.at(Comma) {
			p.bump(&children)
		} else {
			break
		}
	}
	p.expect(RightParen, &children)
	return NewInner(Params, children...)
}

func (p *parser) param() *Node {
	switch p.cur.kind {
	case Dots:
		children := []*Node{p.take()}
		if p.at(Ident) {
			p.bump(&children)
		}
		return NewInner(Spread, children...)
	case Underscore:
		return p.take()
	case Ident:
		name := p.take()
		if p.at(Colon) {
			children := []*Node{name, p.take()}
			children = append(children, p.expr())
			return NewInner(Named, children...)
		}
		return name
	default:
		var children []*Node
		p.expect(Ident, &children)
		return NewInner(Error, children...)
	}
}

func (p *parser) setRule() *Node {
	var children []*Node
	p.bump(&children) // set
	children = append(children, p.primary())
	children = append(children, p.args())
	return NewInner(SetRule, children...)
}

func (p *parser) moduleImport() *Node {
	var children []*Node
	p.bump(&children) // import
	children = append(children, p.expr())
	return NewInner(ModuleImport, children...)
}

func (p *parser) moduleInclude() *Node {
	var children []*Node
	p.bump(&children) // include
	children = append(children, p.expr())
	return NewInner(ModuleInclude, children...)
}

func (p *parser) expr() *Node {
	if p.depth >= maxExprDepth {
		return p.exprTooDeep()
	}
	p.depth++
	node := p.binary(0)
	p.depth--
	return node
}

// exprTooDeep records the nesting error and consumes one token so that the
// enclosing loops keep making progress.
func (p *parser) exprTooDeep() *Node {
	p.errors = append(p.errors, errors.Errorf("expression nesting exceeds %d at offset %d", maxExprDepth, p.lex.cursor))
	if p.at(End) {
		errLeaf := NewLeaf(Error, "")
		errLeaf.offset = p.cur.offset
		return errLeaf
	}
	return NewInner(Error, p.take())
}

var binaryPrec = map[Kind]int{
	Plus:  1,
	Minus: 1,
	Star:  2,
	Slash: 2,
}

func (p *parser) binary(minPrec int) *Node {
	lhs := p.unary()
	for {
		prec, ok := binaryPrec[p.cur.kind]
		if !ok || prec < minPrec {
			return lhs
		}
		children := []*Node{lhs}
		p.bump(&children)
		children = append(children, p.binary(prec+1))
		lhs = NewInner(Binary, children...)
	}
}

func (p *parser) unary() *Node {
	if p.at(Minus) || p.at(Plus) {
		// sign chains nest without passing through expr
		if p.depth >= maxExprDepth {
			return p.exprTooDeep()
		}
		p.depth++
		children := []*Node{p.take()}
		children = append(children, p.unary())
		p.depth--
		return NewInner(Unary, children...)
	}
	return p.postfix()
}

func (p *parser) postfix() *Node {
	node := p.primary()
	for {
		switch p.cur.kind {
		case Dot:
			children := []*Node{node, p.take()}
			p.expect(Ident, &children)
			node = NewInner(FieldAccess, children...)
		case LeftParen, LeftBracket:
			node = NewInner(FuncCall, node, p.args())
		default:
			return node
		}
	}
}

// args parses `(arg, ..)` plus any trailing content blocks, or a bare content
// block argument.
func (p *parser) args() *Node {
	var children []*Node
	if p.at(LeftParen) {
		p.bump(&children)
		for !p.at(RightParen) && !p.at(End) {
			children = append(children, p.arg())
			if p.at(Comma) {
				p.bump(&children)
			} else {
				break
			}
		}
		p.expect(RightParen, &children)
	}
	for p.at(LeftBracket) {
		children = append(children, p.contentBlock())
	}
	return NewInner(Args, children...)
}

func (p *parser) arg() *Node {
	if p.at(Dots) {
		children := []*Node{p.take()}
		children = append(children, p.expr())
		return NewInner(Spread, children...)
	}
	if p.at(Ident) && p.lex.peekAfterTrivia() == ':' {
		children := []*Node{p.take()}
		p.expect(Colon, &children)
		children = append(children, p.expr())
		return NewInner(Named, children...)
	}
	return p.expr()
}

func (p *parser) primary() *Node {
	switch p.cur.kind {
	case Ident, IntLit, FloatLit, StrLit, BoolLit, NoneLit, AutoLit, Label, Underscore, Error:
		return p.take()
	case LeftParen:
		return p.parenGroup()
	case LeftBracket:
		return p.contentBlock()
	}
	p.errors = append(p.errors, errors.Errorf("expected expression, found %v at offset %d", p.cur.kind, p.lex.cursor))
	errLeaf := NewLeaf(Error, "")
	errLeaf.offset = p.cur.offset
	return errLeaf
}

// parenGroup parses `(..)` and decides between a parenthesized expression, an
// array literal, a dictionary literal, and closure parameters (when followed
// by `=>`).
func (p *parser) parenGroup() *Node {
	var children []*Node
	p.bump(&children) // (

	kind := Parenthesized
	if p.at(Colon) {
		// (:) is the empty dictionary
		kind = Dict
		p.bump(&children)
	} else if p.at(RightParen) {
		kind = Array
	}

	items := 0
	for !p.at(RightParen) && !p.at(End) {
		item := p.arg()
		children = append(children, item)
		items++
		switch item.kind {
		case Named:
			kind = Dict
		case Spread:
			if kind == Parenthesized {
				kind = Array
			}
		}
		if p.at(Comma) {
			if kind == Parenthesized {
				kind = Array
			}
			p.bump(&children)
		} else {
			break
		}
	}
	p.expect(RightParen, &children)
	if items > 1 && kind == Parenthesized {
		kind = Array
	}

	if p.at(Arrow) {
		// reinterpret the group as closure parameters
		params := regroup(Params, children)
		closureChildren := []*Node{params, p.take()}
		closureChildren = append(closureChildren, p.expr())
		return NewInner(Closure, closureChildren...)
	}

	return regroup(kind, children)
}

// regroup re-parents children under a fresh inner node.
func regroup(kind Kind, children []*Node) *Node {
	for _, child := range children {
		child.parent = nil
	}
	return NewInner(kind, children...)
}

// contentBlock captures a `[..]` block, the inner markup staying unparsed.
func (p *parser) contentBlock() *Node {
	children := []*Node{p.cur} // [
	raw := p.lex.rawContent()
	rawLeaf := NewLeaf(Space, raw)
	rawLeaf.offset = p.cur.offset + 1
	children = append(children, rawLeaf)
	p.advance() // moves onto the closing bracket
	p.expect(RightBracket, &children)
	return NewInner(ContentBlock, children...)
}
