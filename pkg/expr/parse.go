package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wildfunctions/genetix/pkg/genmath"
)

// ErrSyntax is wrapped by every Parse and Compile error.
var ErrSyntax = errors.New("expr: syntax error")

// Parse reads the format written by Node.String. For every tree t,
// Equal(Parse(t.String()), t) holds.
func Parse(text string) (Node, error) {
	p := &parser{s: text}
	n, err := p.term()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, p.errorf("unexpected trailing input %q", p.s[p.pos:])
	}
	return n, nil
}

// MustParse is Parse for known-good literals; it panics on error.
func MustParse(text string) Node {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	s   string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		if p.pos >= len(p.s) {
			return p.errorf("expected %q, got end of input", c)
		}
		return p.errorf("expected %q, got %q", c, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) term() (Node, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '(':
		return p.group()
	case strings.HasPrefix(p.s[p.pos:], "e^("):
		p.pos += 3
		child, err := p.term()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return &UnaryNode{Op: genmath.Exp, Child: child}, nil
	case isDigit(c) || c == '.' || c == '-' || c == '+' || strings.HasPrefix(p.s[p.pos:], "NaN") || strings.HasPrefix(p.s[p.pos:], "Inf"):
		return p.number()
	case isIdentStart(c):
		return p.identifier()
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

// group parses "(L op R)", "(C)^k", or a plain "(C)".
func (p *parser) group() (Node, error) {
	p.pos++ // '('
	inner, err := p.term()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		if p.peek() == '^' && p.pos+1 < len(p.s) && genmath.PowerOf(p.s[p.pos+1]) > 0 {
			op := p.s[p.pos+1]
			p.pos += 2
			return &UnaryNode{Op: op, Child: inner}, nil
		}
		return inner, nil
	}
	op := p.peek()
	if genmath.Arity(op) != 2 || genmath.Name(op) != "" {
		return nil, p.errorf("expected infix operator, got %q", op)
	}
	p.pos++
	right, err := p.term()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return &BinaryNode{Op: op, Left: inner, Right: right}, nil
}

func (p *parser) number() (Node, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	rest := p.s[p.pos:]
	switch {
	case strings.HasPrefix(rest, "Inf"):
		p.pos += 3
	case strings.HasPrefix(rest, "NaN"):
		p.pos += 3
	default:
		for p.pos < len(p.s) && (isDigit(p.s[p.pos]) || p.s[p.pos] == '.') {
			p.pos++
		}
		if p.pos < len(p.s) && (p.s[p.pos] == 'e' || p.s[p.pos] == 'E') {
			q := p.pos + 1
			if q < len(p.s) && (p.s[q] == '+' || p.s[q] == '-') {
				q++
			}
			if q < len(p.s) && isDigit(p.s[q]) {
				p.pos = q
				for p.pos < len(p.s) && isDigit(p.s[p.pos]) {
					p.pos++
				}
			}
		}
	}
	v, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("bad number %q", p.s[start:max(p.pos, start+1)])
	}
	return &ConstNode{Val: v}, nil
}

func (p *parser) identifier() (Node, error) {
	start := p.pos
	for p.pos < len(p.s) && isIdentPart(p.s[p.pos]) {
		p.pos++
	}
	name := p.s[start:p.pos]
	if p.peek() != '(' {
		return &VarNode{Name: name}, nil
	}
	op, ok := genmath.Lookup(name)
	if !ok {
		p.pos = start
		return nil, p.errorf("unknown function %q", name)
	}
	p.pos++ // '('
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	if genmath.Arity(op) == 1 {
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return &UnaryNode{Op: op, Child: first}, nil
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	second, err := p.term()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return &BinaryNode{Op: op, Left: first, Right: second}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
