package allocation

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceCode = iota + 1
	plusCode
	minusCode
	starCode
	openBracketCode
	closeBracketCode
	lessEqualCode
	greaterEqualCode
	equalCode
	assignCode
	numberCode
	quotedCode
	identifierCode
)

var (
	whitespaceToken   = parsly.NewToken(whitespaceCode, "whitespace", matcher.NewWhiteSpace())
	plusToken         = parsly.NewToken(plusCode, "+", matcher.NewByte('+'))
	minusToken        = parsly.NewToken(minusCode, "-", matcher.NewByte('-'))
	starToken         = parsly.NewToken(starCode, "*", matcher.NewByte('*'))
	openBracketToken  = parsly.NewToken(openBracketCode, "[", matcher.NewByte('['))
	closeBracketToken = parsly.NewToken(closeBracketCode, "]", matcher.NewByte(']'))
	lessEqualToken    = parsly.NewToken(lessEqualCode, "<=", matcher.NewFragment("<="))
	greaterEqualToken = parsly.NewToken(greaterEqualCode, ">=", matcher.NewFragment(">="))
	equalToken        = parsly.NewToken(equalCode, "==", matcher.NewFragment("=="))
	assignToken       = parsly.NewToken(assignCode, "=", matcher.NewByte('='))
	numberToken       = parsly.NewToken(numberCode, "number", &numberMatcher{})
	quotedToken       = parsly.NewToken(quotedCode, "quoted", &quotedMatcher{})
	identifierToken   = parsly.NewToken(identifierCode, "identifier", &identifierMatcher{})

	// longer operators precede their prefixes
	expressionTokens = []*parsly.Token{
		lessEqualToken, greaterEqualToken, equalToken, assignToken,
		plusToken, minusToken, starToken, openBracketToken, closeBracketToken,
		numberToken, quotedToken, identifierToken,
	}
)

// numberMatcher matches an unsigned decimal: digits with an optional fraction.
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	i := 0
	for i < len(input) && isDigit(input[i]) {
		i++
	}
	if i == 0 {
		return 0
	}
	if i < len(input) && input[i] == '.' {
		j := i + 1
		for j < len(input) && isDigit(input[j]) {
			j++
		}
		if j > i+1 {
			i = j
		}
	}
	return i
}

// quotedMatcher matches a single or double quoted string without escapes.
type quotedMatcher struct{}

func (m *quotedMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	if len(input) < 2 || (input[0] != '"' && input[0] != '\'') {
		return 0
	}
	quote := input[0]
	for i := 1; i < len(input); i++ {
		switch input[i] {
		case quote:
			return i + 1
		case '\n', '\\':
			return 0
		}
	}
	return 0
}

// identifierMatcher matches [A-Za-z_][A-Za-z0-9_]*.
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input[cursor.Pos:]
	if len(input) == 0 || !(isLetter(input[0]) || input[0] == '_') {
		return 0
	}
	i := 1
	for i < len(input) && (isLetter(input[i]) || isDigit(input[i]) || input[i] == '_') {
		i++
	}
	return i
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
