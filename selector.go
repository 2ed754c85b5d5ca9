package audience

import (
	"maps"
	"strconv"
)

// Selector is an immutable audience expression. The concrete type is one of
// *Atomic, *Value or *Compound; switch on it (or on Type().Category()) to
// inspect the payload. Values of these types can only be obtained through the
// constructors below or the parser, so every Selector is structurally valid.
type Selector interface {
	Type() SelectorType
	String() string
	MarshalJSON() ([]byte, error)
	isSelector()
}

// Atomic is a payload-free selector (all, triggered).
type Atomic struct {
	typ SelectorType
}

// Value matches devices by one identifying attribute.
type Value struct {
	typ   SelectorType
	value string
	attrs map[string]string
}

// Compound is a boolean combinator over child selectors.
type Compound struct {
	typ      SelectorType
	children []Selector
}

func (*Atomic) isSelector()   {}
func (*Value) isSelector()    {}
func (*Compound) isSelector() {}

func (s *Atomic) Type() SelectorType   { return s.typ }
func (s *Value) Type() SelectorType    { return s.typ }
func (s *Compound) Type() SelectorType { return s.typ }

// Value returns the non-empty selector value.
func (s *Value) Value() string { return s.value }

// Attributes returns a copy of the attribute map, or nil when there is none.
func (s *Value) Attributes() map[string]string {
	if len(s.attrs) == 0 {
		return nil
	}
	return maps.Clone(s.attrs)
}

// Attribute returns a single attribute.
func (s *Value) Attribute(name string) (string, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

// Children returns a copy of the ordered child list.
func (s *Compound) Children() []Selector { return append([]Selector(nil), s.children...) }

// Len returns the number of children.
func (s *Compound) Len() int { return len(s.children) }

// Child returns the i-th child.
func (s *Compound) Child(i int) Selector { return s.children[i] }

// NewAtomic builds an atomic selector.
func NewAtomic(t SelectorType) (*Atomic, error) {
	if t.Category() != CategoryAtomic {
		return nil, constructionIssue(CodeInvalidAtomicSelector, map[string]string{"got": strconv.Quote(t.String())})
	}
	return &Atomic{typ: t}, nil
}

// NewValue builds a value selector. An empty attrs map is treated as absent.
// Attribute names must be accepted by t, must not repeat once case is
// folded, and attribute values must be non-empty.
func NewValue(t SelectorType, value string, attrs map[string]string) (*Value, error) {
	if t.Category() != CategoryValue {
		return nil, constructionIssue(CodeUnknownSelectorKeyword, map[string]string{"key": t.Keyword()})
	}
	if value == "" {
		return nil, constructionIssue(CodeEmptySelectorValue, nil)
	}
	v := &Value{typ: t, value: value}
	if len(attrs) == 0 {
		return v, nil
	}
	v.attrs = make(map[string]string, len(attrs))
	for k, av := range attrs {
		name, ok := LookupAttribute(t, k)
		if !ok {
			return nil, constructionIssue(CodeInvalidValueSelectorShape, map[string]string{"key": t.Keyword()})
		}
		if av == "" {
			return nil, constructionIssue(CodeEmptySelectorValue, nil)
		}
		if _, dup := v.attrs[name]; dup {
			return nil, constructionIssue(CodeInvalidValueSelectorShape, map[string]string{"key": t.Keyword()})
		}
		v.attrs[name] = av
	}
	return v, nil
}

// NewCompound builds a boolean combinator. and/or need at least one child, not
// needs exactly one, and atomic selectors are never accepted as children.
func NewCompound(t SelectorType, children ...Selector) (*Compound, error) {
	if t.Category() != CategoryCompound {
		return nil, constructionIssue(CodeUnknownSelectorKeyword, map[string]string{"key": t.Keyword()})
	}
	key := map[string]string{"key": t.Keyword(), "got": strconv.Itoa(len(children))}
	switch {
	case t == TypeNot && len(children) != 1:
		return nil, constructionIssue(CodeNotRequiresExactlyOneChild, key)
	case len(children) == 0:
		return nil, constructionIssue(CodeEmptyCompoundExpression, key)
	}
	for _, c := range children {
		switch c := c.(type) {
		case nil:
			return nil, constructionIssue(CodeUnrecognizedSelectorShape, map[string]string{"got": "null"})
		case *Atomic:
			return nil, constructionIssue(CodeAtomicNotAllowedInCompoundArray, map[string]string{"key": t.Keyword(), "got": strconv.Quote(c.typ.Keyword())})
		}
	}
	return &Compound{typ: t, children: append([]Selector(nil), children...)}, nil
}

// Must panics when err is non-nil. Intended for selectors built from constants.
func Must[T Selector](s T, err error) T {
	if err != nil {
		panic(err)
	}
	return s
}

func constructionIssue(code string, params map[string]string) Issues {
	var p map[string]any
	if len(params) > 0 {
		p = make(map[string]any, len(params))
		for k, v := range params {
			p[k] = v
		}
	}
	return AppendIssues(nil, Issue{Code: code, Message: message(code, params), Offset: -1, Params: p})
}

// Equal reports structural equality: same types, values, attributes and
// children in the same order.
func Equal(a, b Selector) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case *Atomic:
		_, ok := b.(*Atomic)
		return ok
	case *Value:
		y, ok := b.(*Value)
		return ok && x.value == y.value && maps.Equal(x.attrs, y.attrs)
	case *Compound:
		y, ok := b.(*Compound)
		if !ok || len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			if !Equal(x.children[i], y.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Walk visits sel and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(sel Selector, fn func(Selector) bool) {
	if sel == nil || !fn(sel) {
		return
	}
	if c, ok := sel.(*Compound); ok {
		for _, child := range c.children {
			Walk(child, fn)
		}
	}
}
