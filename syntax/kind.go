package syntax

// Kind identifies a token or node in the syntax tree.
type Kind uint8

const (
	Error Kind = iota
	End

	// trivia
	Space
	LineComment

	// tokens
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace
	Comma
	Colon
	Semicolon
	Dot
	Dots
	Arrow
	Eq
	Plus
	Minus
	Star
	Slash
	Underscore

	// keywords
	Let
	Set
	Import
	Include

	// literal tokens
	Ident
	IntLit
	FloatLit
	StrLit
	BoolLit
	NoneLit
	AutoLit
	Label

	// nodes
	Code
	Parenthesized
	Array
	Dict
	Named
	Spread
	ContentBlock
	Unary
	Binary
	FieldAccess
	FuncCall
	Args
	Closure
	Params
	LetBinding
	SetRule
	ModuleImport
	ModuleInclude
)

var kindNames = map[Kind]string{
	Error:         "Error",
	End:           "End",
	Space:         "Space",
	LineComment:   "LineComment",
	LeftParen:     "LeftParen",
	RightParen:    "RightParen",
	LeftBracket:   "LeftBracket",
	RightBracket:  "RightBracket",
	LeftBrace:     "LeftBrace",
	RightBrace:    "RightBrace",
	Comma:         "Comma",
	Colon:         "Colon",
	Semicolon:     "Semicolon",
	Dot:           "Dot",
	Dots:          "Dots",
	Arrow:         "Arrow",
	Eq:            "Eq",
	Plus:          "Plus",
	Minus:         "Minus",
	Star:          "Star",
	Slash:         "Slash",
	Underscore:    "Underscore",
	Let:           "Let",
	Set:           "Set",
	Import:        "Import",
	Include:       "Include",
	Ident:         "Ident",
	IntLit:        "Int",
	FloatLit:      "Float",
	StrLit:        "Str",
	BoolLit:       "Bool",
	NoneLit:       "None",
	AutoLit:       "Auto",
	Label:         "Label",
	Code:          "Code",
	Parenthesized: "Parenthesized",
	Array:         "Array",
	Dict:          "Dict",
	Named:         "Named",
	Spread:        "Spread",
	ContentBlock:  "ContentBlock",
	Unary:         "Unary",
	Binary:        "Binary",
	FieldAccess:   "FieldAccess",
	FuncCall:      "FuncCall",
	Args:          "Args",
	Closure:       "Closure",
	Params:        "Params",
	LetBinding:    "LetBinding",
	SetRule:       "SetRule",
	ModuleImport:  "ModuleImport",
	ModuleInclude: "ModuleInclude",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// IsTrivia reports whether the kind carries no syntactic meaning.
func (k Kind) IsTrivia() bool {
	return k == Space || k == LineComment
}

func (k Kind) isKeyword() bool {
	return k == Let || k == Set || k == Import || k == Include
}

// IsLiteral reports whether the kind is a literal token.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, FloatLit, StrLit, BoolLit, NoneLit, AutoLit:
		return true
	}
	return false
}
