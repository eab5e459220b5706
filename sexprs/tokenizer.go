package sexprs

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

type Tokenizer struct {
	reader  *bufio.Reader
	source  *Source
	current *Token

	currPos Pos
	prevPos Pos
}

func NewTokenizer(source *Source) *Tokenizer {
	return &Tokenizer{
		reader: bufio.NewReader(strings.NewReader(source.Content)),
		source: source,
		currPos: Pos{
			Source: source,
			Line:   1,
			Column: 1,
		},
	}
}

func (t *Tokenizer) readRune() (rune, error) {
	r, _, err := t.reader.ReadRune()
	if err != nil {
		return 0, err
	}

	t.prevPos = t.currPos
	if r == '\n' {
		t.currPos.Line++
		t.currPos.Column = 1
	} else {
		t.currPos.Column++
	}

	return r, nil
}

func (t *Tokenizer) unreadRune() {
	_ = t.reader.UnreadRune()
	t.currPos = t.prevPos
}

func (t *Tokenizer) Current() (*Token, error) {
	if t.current == nil {
		var err error
		t.current, err = t.parseNext()
		if err != nil {
			return nil, err
		}
	}
	return t.current, nil
}

func (t *Tokenizer) Consume() {
	t.current = nil
}

func (t *Tokenizer) parseNext() (*Token, error) {
	t.skipWhitespace()
	startPos := t.currPos

	r, err := t.readRune()
	if err == io.EOF {
		return &Token{Kind: TokenEOF, Pos: startPos}, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case r == ';':
		t.skipComment()
		return t.parseNext()
	case r == '(':
		return &Token{Kind: TokenOpen, Text: "(", Pos: startPos}, nil
	case r == ')':
		return &Token{Kind: TokenClose, Text: ")", Pos: startPos}, nil
	case r == '"':
		return t.parseString(startPos)
	case unicode.IsGraphic(r) && !unicode.IsSpace(r):
		t.unreadRune()
		return t.parseAtom(startPos)
	}

	return &Token{Kind: TokenInvalid, Text: string(r), Pos: startPos}, nil
}

func (t *Tokenizer) skipWhitespace() {
	for {
		r, err := t.readRune()
		if err != nil {
			return
		}
		if !unicode.IsSpace(r) {
			t.unreadRune()
			return
		}
	}
}

func (t *Tokenizer) skipComment() {
	for {
		r, err := t.readRune()
		if err != nil {
			return
		}
		if r == '\n' {
			return
		}
	}
}

func (t *Tokenizer) parseAtom(startPos Pos) (*Token, error) {
	var sb strings.Builder
	for {
		r, err := t.readRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' || r == ';' {
			t.unreadRune()
			break
		}
		sb.WriteRune(r)
	}
	return &Token{
		Kind: TokenAtom,
		Text: sb.String(),
		Pos:  startPos,
	}, nil
}

func (t *Tokenizer) parseString(startPos Pos) (*Token, error) {
	var sb strings.Builder
	for {
		r, err := t.readRune()
		if err == io.EOF {
			return nil, WithPos(ErrUnterminated, startPos)
		}
		if err != nil {
			return nil, err
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			next, err := t.readRune()
			if err == io.EOF {
				return nil, WithPos(ErrUnterminated, startPos)
			}
			if err != nil {
				return nil, err
			}
			switch next {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '\\', '"':
				sb.WriteRune(next)
			default:
				sb.WriteRune('\\')
				sb.WriteRune(next)
			}
			continue
		}
		sb.WriteRune(r)
	}
	return &Token{
		Kind: TokenString,
		Text: sb.String(),
		Pos:  startPos,
	}, nil
}
