package allocation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
)

// accessors are the subscript forms accepted for an allocation reference,
// e.g. alloc["9db090cf-184b-450e-a07a-97dee812ce0d"].
var accessors = map[string]struct{}{
	"alloc":           {},
	"allocation":      {},
	"allocation_vars": {},
}

type lexeme struct {
	code int
	text string
	pos  int
}

// ParseConstraint parses a linear constraint expression of the form
//
//	[coef *] ref { (+|-) [coef *] ref } (<=|>=|==) [-]number
//
// where ref is a bare identifier, a quoted institution id, or a subscript
// alloc["<institution>"]. Anything outside this grammar is rejected; the
// expression is never evaluated.
func ParseConstraint(name, expression string) (Constraint, error) {
	lexemes, err := tokenize(name, expression)
	if err != nil {
		return Constraint{}, err
	}

	p := &expressionParser{name: name, lexemes: lexemes}
	c, err := p.parse()
	if err != nil {
		return Constraint{}, err
	}
	c.Name = name
	c = c.normalize()
	if len(c.Terms) == 0 {
		return Constraint{}, fmt.Errorf("%w: constraint %q", ErrEmptyConstraint, name)
	}
	return c, nil
}

func tokenize(name, expression string) ([]lexeme, error) {
	cursor := parsly.NewCursor(name, []byte(strings.TrimSpace(expression)), 0)

	var lexemes []lexeme
	for {
		pos := cursor.Pos
		match := cursor.MatchAfterOptional(whitespaceToken, expressionTokens...)
		switch match.Code {
		case parsly.EOF:
			return lexemes, nil
		case lessEqualCode, greaterEqualCode, equalCode, assignCode,
			plusCode, minusCode, starCode, openBracketCode, closeBracketCode,
			numberCode, quotedCode, identifierCode:
			lexemes = append(lexemes, lexeme{code: match.Code, text: match.Text(cursor), pos: pos})
		default:
			return nil, fmt.Errorf("%w: constraint %q: %v", ErrInvalidConstraint, name,
				cursor.NewError(expressionTokens...))
		}
	}
}

type expressionParser struct {
	name    string
	lexemes []lexeme
	pos     int
}

func (p *expressionParser) parse() (Constraint, error) {
	var c Constraint

	sign := 1.0
	switch p.peek().code {
	case minusCode:
		sign = -1
		p.pos++
	case plusCode:
		p.pos++
	}

	for {
		term, err := p.term()
		if err != nil {
			return Constraint{}, err
		}
		term.Coefficient *= sign
		c.Terms = append(c.Terms, term)

		next := p.next()
		switch next.code {
		case plusCode:
			sign = 1
			continue
		case minusCode:
			sign = -1
			continue
		case lessEqualCode:
			c.Relation = RelationLE
		case greaterEqualCode:
			c.Relation = RelationGE
		case equalCode, assignCode:
			c.Relation = RelationEQ
		default:
			return Constraint{}, p.unexpected(next, "operator or relation")
		}
		break
	}

	bound, err := p.signedNumber()
	if err != nil {
		return Constraint{}, err
	}
	c.Bound = bound

	if rest := p.next(); rest.code != 0 {
		return Constraint{}, p.unexpected(rest, "end of expression")
	}
	return c, nil
}

func (p *expressionParser) term() (Term, error) {
	tok := p.next()
	switch tok.code {
	case numberCode:
		coef, err := p.number(tok)
		if err != nil {
			return Term{}, err
		}
		if p.peek().code == starCode {
			p.pos++
		}
		institution, err := p.reference(p.next())
		if err != nil {
			return Term{}, err
		}
		return Term{Institution: institution, Coefficient: coef}, nil
	case identifierCode, quotedCode:
		institution, err := p.reference(tok)
		if err != nil {
			return Term{}, err
		}
		coef := 1.0
		if p.peek().code == starCode {
			p.pos++
			numTok := p.next()
			if numTok.code != numberCode {
				return Term{}, p.unexpected(numTok, "coefficient")
			}
			if coef, err = p.number(numTok); err != nil {
				return Term{}, err
			}
		}
		return Term{Institution: institution, Coefficient: coef}, nil
	default:
		return Term{}, p.unexpected(tok, "term")
	}
}

func (p *expressionParser) reference(tok lexeme) (string, error) {
	switch tok.code {
	case quotedCode:
		return p.institution(tok)
	case identifierCode:
		if _, ok := accessors[tok.text]; ok && p.peek().code == openBracketCode {
			p.pos++
			key := p.next()
			if key.code != quotedCode {
				return "", p.unexpected(key, "quoted institution id")
			}
			institution, err := p.institution(key)
			if err != nil {
				return "", err
			}
			if closing := p.next(); closing.code != closeBracketCode {
				return "", p.unexpected(closing, "]")
			}
			return institution, nil
		}
		return tok.text, nil
	default:
		return "", p.unexpected(tok, "allocation reference")
	}
}

func (p *expressionParser) institution(tok lexeme) (string, error) {
	id := strings.TrimSpace(tok.text[1 : len(tok.text)-1])
	if id == "" {
		return "", fmt.Errorf("%w: constraint %q: empty institution id at %d", ErrInvalidConstraint, p.name, tok.pos)
	}
	return id, nil
}

func (p *expressionParser) signedNumber() (float64, error) {
	sign := 1.0
	switch p.peek().code {
	case minusCode:
		sign = -1
		p.pos++
	case plusCode:
		p.pos++
	}
	tok := p.next()
	if tok.code != numberCode {
		return 0, p.unexpected(tok, "number")
	}
	v, err := p.number(tok)
	return sign * v, err
}

func (p *expressionParser) number(tok lexeme) (float64, error) {
	v, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: constraint %q: %v", ErrInvalidConstraint, p.name, err)
	}
	return v, nil
}

func (p *expressionParser) peek() lexeme {
	if p.pos >= len(p.lexemes) {
		return lexeme{}
	}
	return p.lexemes[p.pos]
}

func (p *expressionParser) next() lexeme {
	tok := p.peek()
	if p.pos < len(p.lexemes) {
		p.pos++
	}
	return tok
}

func (p *expressionParser) unexpected(tok lexeme, want string) error {
	if tok.code == 0 {
		return fmt.Errorf("%w: constraint %q: expected %s, got end of expression", ErrInvalidConstraint, p.name, want)
	}
	return fmt.Errorf("%w: constraint %q: expected %s at %d, got %q", ErrInvalidConstraint, p.name, want, tok.pos, tok.text)
}
