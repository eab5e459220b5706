package sexprs

type Token struct {
	Kind TokenKind
	Text string
	Pos  Pos
}

type TokenKind uint8

const (
	TokenInvalid TokenKind = iota
	TokenEOF
	TokenOpen
	TokenClose
	TokenAtom
	TokenString
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenOpen:
		return "("
	case TokenClose:
		return ")"
	case TokenAtom:
		return "atom"
	case TokenString:
		return "string"
	}
	return "invalid"
}
