package sexprs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrUnbalanced      = errors.New("unbalanced parenthesis")
	ErrUnterminated    = errors.New("unterminated string")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpectedOneExpr = errors.New("expected exactly one expression")
)

type PosError struct {
	Err error
	Pos Pos
}

func (p PosError) Error() string {
	if p.Pos.Source == nil {
		return p.Err.Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s at %s:%d:%d\n", p.Err.Error(), p.Pos.Source.Name, p.Pos.Line, p.Pos.Column))

	lines := p.Pos.Source.Lines
	idx := p.Pos.Line - 1
	if idx >= 0 && idx < len(lines) {
		line := lines[idx]
		sb.WriteString(line)
		sb.WriteString("\n")
		for i, r := range []rune(line) {
			if i >= p.Pos.Column-1 {
				break
			}
			if r == '\t' {
				sb.WriteString("\t")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("^\n")
	}

	return sb.String()
}

func (p PosError) Unwrap() error {
	return p.Err
}

func WithPos(err error, pos Pos) error {
	if err == nil {
		return nil
	}
	var posErr PosError
	if errors.As(err, &posErr) {
		return err
	}
	return PosError{
		Err: err,
		Pos: pos,
	}
}
