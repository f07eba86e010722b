package dims

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Basic state tracker used while scanning a notation string.
type notationMode int

const (
	// Reading top-level terms. This is the starting state.
	notationModeTerms notationMode = iota
	// Inside parentheses, collecting group members.
	notationModeGroup
)

type notationParser struct {
	input  string
	lookup map[string]SubDim

	mode       notationMode
	spec       Spec
	group      Group
	groupStart int
	name       strings.Builder
	nameStart  int
}

// ParseNotation parses an einops-style axis description such as
// "a (b c)" into a Spec. Names are resolved against vocab; parentheses
// merge their members into one Group and may not nest.
func ParseNotation(s string, vocab ...SubDim) (Spec, error) {
	p := &notationParser{
		input:  s,
		lookup: make(map[string]SubDim, len(vocab)),
	}
	for _, d := range vocab {
		if prev, ok := p.lookup[d.Name]; ok && prev != d {
			return nil, p.errorf(0, "vocabulary declares %q as both %v and %v", d.Name, prev, d)
		}
		p.lookup[d.Name] = d
	}

	rdr := bufio.NewReader(strings.NewReader(s))
	pos := 0
	for {
		r, size, err := rdr.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, p.errorf(pos, "unexpected error reading string: %v", err)
		}

		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			if p.name.Len() == 0 {
				p.nameStart = pos
			}
			p.name.WriteRune(r)
		case unicode.IsSpace(r):
			if err := p.flush(); err != nil {
				return nil, err
			}
		case r == '(':
			if err := p.flush(); err != nil {
				return nil, err
			}
			if p.mode == notationModeGroup {
				return nil, p.errorf(pos, "nested groups are not supported")
			}
			p.mode = notationModeGroup
			p.group = Group{}
			p.groupStart = pos
		case r == ')':
			if err := p.flush(); err != nil {
				return nil, err
			}
			if p.mode != notationModeGroup {
				return nil, p.errorf(pos, "unbalanced ')'")
			}
			p.spec = append(p.spec, p.group)
			p.mode = notationModeTerms
		default:
			return nil, p.errorf(pos, "unexpected character %q", r)
		}
		pos += size
	}

	if err := p.flush(); err != nil {
		return nil, err
	}
	if p.mode == notationModeGroup {
		return nil, p.errorf(p.groupStart, "unclosed '('")
	}
	return p.spec, nil
}

// flush resolves the pending name, if any, and appends it to the current
// group or to the top-level terms.
func (p *notationParser) flush() error {
	if p.name.Len() == 0 {
		return nil
	}
	name := p.name.String()
	p.name.Reset()
	d, ok := p.lookup[name]
	if !ok {
		return p.errorf(p.nameStart, "unknown sub-dimension %q", name)
	}
	if p.mode == notationModeGroup {
		p.group = append(p.group, d)
	} else {
		p.spec = append(p.spec, d)
	}
	return nil
}

func (p *notationParser) errorf(pos int, format string, args ...any) *NotationError {
	return &NotationError{Input: p.input, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ParsePattern splits "in -> out" and parses both sides with ParseNotation.
func ParsePattern(pattern string, vocab ...SubDim) (in, out Spec, err error) {
	lhs, rhs, ok := strings.Cut(pattern, "->")
	if !ok {
		return nil, nil, &NotationError{Input: pattern, Pos: len(pattern), Msg: "missing '->'"}
	}
	if i := strings.Index(rhs, "->"); i >= 0 {
		return nil, nil, &NotationError{Input: pattern, Pos: len(lhs) + 2 + i, Msg: "more than one '->'"}
	}

	if in, err = ParseNotation(lhs, vocab...); err != nil {
		return nil, nil, relocate(err, pattern, 0)
	}
	if out, err = ParseNotation(rhs, vocab...); err != nil {
		return nil, nil, relocate(err, pattern, len(lhs)+2)
	}
	return in, out, nil
}

// relocate rewrites a NotationError raised on one side of a pattern so it
// points into the whole pattern.
func relocate(err error, pattern string, shift int) error {
	var ne *NotationError
	if errors.As(err, &ne) {
		ne.Input = pattern
		ne.Pos += shift
	}
	return err
}
