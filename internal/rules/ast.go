package rules

import (
	"fmt"

	"github.com/tahir-04/hybrid-intrusion-detection-system/internal/core"
)

// The predicate language is deliberately tiny: feature references, numeric and
// string literals, comparisons, boolean combinators, and arithmetic. Every
// expression is type-checked at compile time, so the only failures left at
// evaluation time are missing features and division by zero.

type valueType int

const (
	typeNumber valueType = iota
	typeString
	typeBool
)

func (t valueType) String() string {
	switch t {
	case typeNumber:
		return "number"
	case typeString:
		return "string"
	default:
		return "bool"
	}
}

type value struct {
	num float64
	str string
	b   bool
}

// node is one compiled predicate expression node.
type node interface {
	// typ is the statically inferred result type, fixed at compile time.
	typ() valueType
	eval(window core.FeatureWindow) (value, error)
}

type numberLit struct{ v float64 }

func (n numberLit) typ() valueType { return typeNumber }
func (n numberLit) eval(core.FeatureWindow) (value, error) {
	return value{num: n.v}, nil
}

type stringLit struct{ v string }

func (s stringLit) typ() valueType { return typeString }
func (s stringLit) eval(core.FeatureWindow) (value, error) {
	return value{str: s.v}, nil
}

// featureRef resolves a feature name against the window at evaluation time.
// Feature values are always numeric.
type featureRef struct{ name string }

func (f featureRef) typ() valueType { return typeNumber }
func (f featureRef) eval(window core.FeatureWindow) (value, error) {
	v, ok := window[f.name]
	if !ok {
		return value{}, fmt.Errorf("feature %q not present in window", f.name)
	}
	return value{num: v}, nil
}

type notExpr struct{ operand node }

func (n notExpr) typ() valueType { return typeBool }
func (n notExpr) eval(window core.FeatureWindow) (value, error) {
	v, err := n.operand.eval(window)
	if err != nil {
		return value{}, err
	}
	return value{b: !v.b}, nil
}

type negExpr struct{ operand node }

func (n negExpr) typ() valueType { return typeNumber }
func (n negExpr) eval(window core.FeatureWindow) (value, error) {
	v, err := n.operand.eval(window)
	if err != nil {
		return value{}, err
	}
	return value{num: -v.num}, nil
}

type binaryExpr struct {
	op       string
	out      valueType
	lhs, rhs node
}

func (b binaryExpr) typ() valueType { return b.out }

func (b binaryExpr) eval(window core.FeatureWindow) (value, error) {
	// Short-circuit boolean combinators so a missing feature on the right
	// side cannot fail an already-decided predicate.
	if b.op == "and" || b.op == "or" {
		l, err := b.lhs.eval(window)
		if err != nil {
			return value{}, err
		}
		if b.op == "and" && !l.b {
			return value{b: false}, nil
		}
		if b.op == "or" && l.b {
			return value{b: true}, nil
		}
		return b.rhs.eval(window)
	}

	l, err := b.lhs.eval(window)
	if err != nil {
		return value{}, err
	}
	r, err := b.rhs.eval(window)
	if err != nil {
		return value{}, err
	}

	switch b.op {
	case "+":
		return value{num: l.num + r.num}, nil
	case "-":
		return value{num: l.num - r.num}, nil
	case "*":
		return value{num: l.num * r.num}, nil
	case "/":
		if r.num == 0 {
			return value{}, fmt.Errorf("division by zero")
		}
		return value{num: l.num / r.num}, nil
	case "<":
		return value{b: l.num < r.num}, nil
	case "<=":
		return value{b: l.num <= r.num}, nil
	case ">":
		return value{b: l.num > r.num}, nil
	case ">=":
		return value{b: l.num >= r.num}, nil
	case "==":
		if b.lhs.typ() == typeString {
			return value{b: l.str == r.str}, nil
		}
		return value{b: l.num == r.num}, nil
	case "!=":
		if b.lhs.typ() == typeString {
			return value{b: l.str != r.str}, nil
		}
		return value{b: l.num != r.num}, nil
	}
	return value{}, fmt.Errorf("unknown operator %q", b.op)
}
