package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// compile parses a condition expression under the constrained predicate
// grammar and type-checks it. Anything outside the grammar (function calls,
// member access, assignment, indexing) is rejected here, at load time.
func compile(condition string) (node, error) {
	tokens, err := lex(condition)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("unexpected %q after expression", p.peek().text)
	}
	if root.typ() != typeBool {
		return nil, fmt.Errorf("condition must be a boolean expression, got %s", root.typ())
	}
	return root, nil
}

// --- Lexer ---

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokOp
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case unicode.IsDigit(rune(c)):
			j := i
			seenDot := false
			for j < len(input) && (unicode.IsDigit(rune(input[j])) || (input[j] == '.' && !seenDot)) {
				if input[j] == '.' {
					seenDot = true
				}
				j++
			}
			tokens = append(tokens, token{tokNumber, input[i:j]})
			i = j
		case unicode.IsLetter(rune(c)) || c == '_':
			j := i
			for j < len(input) && (unicode.IsLetter(rune(input[j])) || unicode.IsDigit(rune(input[j])) || input[j] == '_') {
				j++
			}
			word := input[i:j]
			switch strings.ToLower(word) {
			case "and", "or", "not":
				tokens = append(tokens, token{tokOp, strings.ToLower(word)})
			default:
				tokens = append(tokens, token{tokIdent, word})
			}
			i = j
		case c == '\'' || c == '"':
			quote := c
			j := i + 1
			for j < len(input) && input[j] != quote {
				j++
			}
			if j >= len(input) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			tokens = append(tokens, token{tokString, input[i+1 : j]})
			i = j + 1
		case c == '<' || c == '>':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokOp, input[i : i+2]})
				i += 2
			} else {
				tokens = append(tokens, token{tokOp, string(c)})
				i++
			}
		case c == '=':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokOp, "=="})
				i += 2
			} else {
				return nil, fmt.Errorf("assignment is not allowed; use == for equality")
			}
		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokOp, "!="})
				i += 2
			} else {
				tokens = append(tokens, token{tokOp, "not"})
				i++
			}
		case c == '&':
			if i+1 < len(input) && input[i+1] == '&' {
				tokens = append(tokens, token{tokOp, "and"})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected character %q", string(c))
			}
		case c == '|':
			if i+1 < len(input) && input[i+1] == '|' {
				tokens = append(tokens, token{tokOp, "or"})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected character %q", string(c))
			}
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')':
			tokens = append(tokens, token{tokOp, string(c)})
			i++
		case c == '.':
			return nil, fmt.Errorf("member access is not allowed")
		case c == '[' || c == ']':
			return nil, fmt.Errorf("indexing is not allowed")
		default:
			return nil, fmt.Errorf("unexpected character %q", string(c))
		}
	}
	tokens = append(tokens, token{tokEOF, ""})
	return tokens, nil
}

// --- Parser ---
//
// Precedence, loosest first: or, and, not, comparison, additive,
// multiplicative, unary minus, primary.

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) done() bool { return p.peek().kind == tokEOF }

func (p *parser) acceptOp(ops ...string) (string, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.next()
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseOr() (node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.acceptOp("or"); !ok {
			return lhs, nil
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs, err = makeBinary("or", lhs, rhs)
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseAnd() (node, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.acceptOp("and"); !ok {
			return lhs, nil
		}
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs, err = makeBinary("and", lhs, rhs)
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseNot() (node, error) {
	if _, ok := p.acceptOp("not"); ok {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		if operand.typ() != typeBool {
			return nil, fmt.Errorf("NOT requires a boolean operand, got %s", operand.typ())
		}
		return notExpr{operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := p.acceptOp("<", "<=", ">", ">=", "==", "!=")
	if !ok {
		return lhs, nil
	}
	rhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	cmp, err := makeBinary(op, lhs, rhs)
	if err != nil {
		return nil, err
	}
	if extra, ok := p.acceptOp("<", "<=", ">", ">=", "==", "!="); ok {
		return nil, fmt.Errorf("chained comparison %q is not allowed", extra)
	}
	return cmp, nil
}

func (p *parser) parseAdditive() (node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs, err = makeBinary(op, lhs, rhs)
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("*", "/")
		if !ok {
			return lhs, nil
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs, err = makeBinary(op, lhs, rhs)
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseUnary() (node, error) {
	if _, ok := p.acceptOp("-"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if operand.typ() != typeNumber {
			return nil, fmt.Errorf("unary minus requires a numeric operand, got %s", operand.typ())
		}
		return negExpr{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t.text)
		}
		return numberLit{v: v}, nil
	case tokString:
		return stringLit{v: t.text}, nil
	case tokIdent:
		if p.peek().kind == tokOp && p.peek().text == "(" {
			return nil, fmt.Errorf("function calls are not allowed (%s)", t.text)
		}
		return featureRef{name: t.text}, nil
	case tokOp:
		if t.text == "(" {
			inner, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if _, ok := p.acceptOp(")"); !ok {
				return nil, fmt.Errorf("missing closing parenthesis")
			}
			return inner, nil
		}
	}
	if t.kind == tokEOF {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q", t.text)
}

// makeBinary type-checks the operands against the operator and fixes the
// result type.
func makeBinary(op string, lhs, rhs node) (node, error) {
	switch op {
	case "and", "or":
		if lhs.typ() != typeBool || rhs.typ() != typeBool {
			return nil, fmt.Errorf("%s requires boolean operands", strings.ToUpper(op))
		}
		return binaryExpr{op: op, out: typeBool, lhs: lhs, rhs: rhs}, nil
	case "+", "-", "*", "/":
		if lhs.typ() != typeNumber || rhs.typ() != typeNumber {
			return nil, fmt.Errorf("arithmetic %q requires numeric operands", op)
		}
		return binaryExpr{op: op, out: typeNumber, lhs: lhs, rhs: rhs}, nil
	case "<", "<=", ">", ">=":
		if lhs.typ() != typeNumber || rhs.typ() != typeNumber {
			return nil, fmt.Errorf("comparison %q requires numeric operands", op)
		}
		return binaryExpr{op: op, out: typeBool, lhs: lhs, rhs: rhs}, nil
	case "==", "!=":
		if lhs.typ() != rhs.typ() || lhs.typ() == typeBool {
			return nil, fmt.Errorf("equality %q requires two numbers or two strings", op)
		}
		return binaryExpr{op: op, out: typeBool, lhs: lhs, rhs: rhs}, nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}
