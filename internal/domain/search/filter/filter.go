package filter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Kind identifies the node type of an Expression.
type Kind int

// Node kinds.
const (
	KindNone Kind = iota
	KindTerm
	KindPrefix
	KindRange
	KindAnd
	KindOr
	// KindText is a relevance (scored) query rather than a boolean filter.
	KindText
)

var kindNames = map[Kind]string{
	KindNone:   "none",
	KindTerm:   "term",
	KindPrefix: "prefix",
	KindRange:  "range",
	KindAnd:    "and",
	KindOr:     "or",
	KindText:   "text",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Op is a range comparison operator.
type Op string

// Range operators.
const (
	GT  Op = "gt"
	GTE Op = "gte"
	LT  Op = "lt"
	LTE Op = "lte"
)

// ParseOp validates a range operator name.
func ParseOp(s string) (Op, error) {
	switch op := Op(s); op {
	case GT, GTE, LT, LTE:
		return op, nil
	default:
		return "", fmt.Errorf("unknown range operator %q", s)
	}
}

// Expression is an immutable filter tree node.
// The zero value is the empty expression (no constraint).
type Expression struct {
	kind     Kind
	field    string
	value    any
	op       Op
	children []Expression
}

// Term matches documents whose field equals value exactly.
func Term(field string, value any) Expression {
	return Expression{kind: KindTerm, field: field, value: value}
}

// Prefix matches documents whose field starts with value.
func Prefix(field, value string) Expression {
	return Expression{kind: KindPrefix, field: field, value: value}
}

// Range compares field against value with op.
func Range(field string, op Op, value any) Expression {
	return Expression{kind: KindRange, field: field, op: op, value: value}
}

// And matches documents satisfying every child.
func And(children ...Expression) Expression {
	return Expression{kind: KindAnd, children: cloneChildren(children)}
}

// Or matches documents satisfying at least one child.
func Or(children ...Expression) Expression {
	return Expression{kind: KindOr, children: cloneChildren(children)}
}

// Text is a scored full-text query against an analyzed field.
func Text(field string, value any) Expression {
	return Expression{kind: KindText, field: field, value: value}
}

func cloneChildren(children []Expression) []Expression {
	if len(children) == 0 {
		return nil
	}
	out := make([]Expression, len(children))
	copy(out, children)
	return out
}

// Kind returns the node kind.
func (e Expression) Kind() Kind { return e.kind }

// Field returns the target field of a leaf node.
func (e Expression) Field() string { return e.field }

// Value returns the operand of a leaf node.
func (e Expression) Value() any { return e.value }

// Op returns the comparison operator of a range node.
func (e Expression) Op() Op { return e.op }

// Children returns a copy of the children of an And/Or node.
func (e Expression) Children() []Expression { return cloneChildren(e.children) }

// IsEmpty reports whether the expression carries no constraint.
func (e Expression) IsEmpty() bool { return e.kind == KindNone }

// IsRelevance reports whether the node is a scored text query.
func (e Expression) IsRelevance() bool { return e.kind == KindText }

// Equal reports structural equality.
func (e Expression) Equal(other Expression) bool {
	if e.kind != other.kind || e.field != other.field || e.op != other.op {
		return false
	}
	if !reflect.DeepEqual(e.value, other.value) {
		return false
	}
	if len(e.children) != len(other.children) {
		return false
	}
	for i := range e.children {
		if !e.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Walk visits every node depth first. Returning false from fn stops descent into that node.
func (e Expression) Walk(fn func(Expression) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// Validate checks that every leaf names a field and every branch has children.
func (e Expression) Validate() error {
	switch e.kind {
	case KindNone:
		return nil
	case KindTerm, KindPrefix, KindText:
		if e.field == "" {
			return fmt.Errorf("%s filter requires a field", e.kind)
		}
	case KindRange:
		if e.field == "" {
			return fmt.Errorf("range filter requires a field")
		}
		if _, err := ParseOp(string(e.op)); err != nil {
			return err
		}
	case KindAnd, KindOr:
		if len(e.children) == 0 {
			return fmt.Errorf("%s filter requires at least one child", e.kind)
		}
		for _, c := range e.children {
			if err := c.Validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown filter kind %d", int(e.kind))
	}
	return nil
}

// MarshalJSON renders the Elasticsearch filter DSL form of the tree.
func (e Expression) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.dsl())
}

func (e Expression) dsl() any {
	switch e.kind {
	case KindTerm, KindPrefix, KindText:
		return map[string]any{e.kind.String(): map[string]any{e.field: e.value}}
	case KindRange:
		return map[string]any{"range": map[string]any{
			e.field: map[string]any{string(e.op): e.value},
		}}
	case KindAnd, KindOr:
		children := make([]any, len(e.children))
		for i, c := range e.children {
			children[i] = c.dsl()
		}
		return map[string]any{e.kind.String(): children}
	default:
		return nil
	}
}

// String returns a compact debug representation.
func (e Expression) String() string {
	switch e.kind {
	case KindTerm, KindPrefix, KindText:
		return fmt.Sprintf("%s(%s=%s)", e.kind, e.field, formatValue(e.value))
	case KindRange:
		return fmt.Sprintf("range(%s %s %s)", e.field, e.op, formatValue(e.value))
	case KindAnd, KindOr:
		parts := make([]string, len(e.children))
		for i, c := range e.children {
			parts[i] = c.String()
		}
		return fmt.Sprintf("%s(%s)", e.kind, strings.Join(parts, ", "))
	default:
		return "none"
	}
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}
