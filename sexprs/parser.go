package sexprs

import (
	"strconv"
)

func Parse(source *Source) ([]Expr, error) {
	tokenizer := NewTokenizer(source)
	var ret []Expr
	for {
		token, err := tokenizer.Current()
		if err != nil {
			return nil, err
		}
		if token.Kind == TokenEOF {
			return ret, nil
		}
		expr, err := parseExpr(tokenizer)
		if err != nil {
			return nil, err
		}
		ret = append(ret, expr)
	}
}

func ParseString(name string, content string) ([]Expr, error) {
	return Parse(NewSource(name, content))
}

// ParseOne parses content that must hold exactly one expression.
func ParseOne(name string, content string) (Expr, error) {
	source := NewSource(name, content)
	exprs, err := Parse(source)
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		return nil, WithPos(ErrExpectedOneExpr, Pos{Source: source, Line: 1, Column: 1})
	}
	return exprs[0], nil
}

func parseExpr(tokenizer *Tokenizer) (Expr, error) {
	token, err := tokenizer.Current()
	if err != nil {
		return nil, err
	}
	tokenizer.Consume()

	switch token.Kind {

	case TokenEOF:
		return nil, WithPos(ErrUnexpectedEOF, token.Pos)

	case TokenClose:
		return nil, WithPos(ErrUnbalanced, token.Pos)

	case TokenString:
		return String{Value: token.Text, Pos: token.Pos}, nil

	case TokenAtom:
		return parseAtom(token), nil

	case TokenOpen:
		list := List{Pos: token.Pos}
		for {
			next, err := tokenizer.Current()
			if err != nil {
				return nil, err
			}
			if next.Kind == TokenClose {
				tokenizer.Consume()
				return list, nil
			}
			if next.Kind == TokenEOF {
				return nil, WithPos(ErrUnbalanced, token.Pos)
			}
			elem, err := parseExpr(tokenizer)
			if err != nil {
				return nil, err
			}
			list.Elems = append(list.Elems, elem)
		}

	}

	return nil, WithPos(ErrInvalidToken, token.Pos)
}

func parseAtom(token *Token) Expr {
	switch token.Text {
	case "true":
		return Bool{Value: true, Pos: token.Pos}
	case "false":
		return Bool{Value: false, Pos: token.Pos}
	}
	if i, err := strconv.ParseInt(token.Text, 10, 64); err == nil {
		return Number{Value: i, Pos: token.Pos}
	}
	if looksNumeric(token.Text) {
		if f, err := strconv.ParseFloat(token.Text, 64); err == nil {
			return Number{Value: f, Pos: token.Pos}
		}
	}
	return Symbol{Name: token.Text, Pos: token.Pos}
}

// looksNumeric keeps symbols like "inf" or "nan" from parsing as floats.
func looksNumeric(text string) bool {
	for i, r := range text {
		if r >= '0' && r <= '9' {
			return true
		}
		if i == 0 && (r == '-' || r == '+' || r == '.') {
			continue
		}
		return false
	}
	return false
}
