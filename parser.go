package audience

import (
	"context"
	"strconv"

	eng "github.com/reoring/audience/internal/engine"
)

// parser holds per-call settings only; every method returns a fully built
// Selector or an Issues error.
type parser struct {
	ctx      context.Context
	maxDepth int // <= 0 disables the ceiling
}

func parseTree(ctx context.Context, root *eng.Node, opt ParseOpt) (Selector, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	p := &parser{ctx: ctx, maxDepth: opt.MaxDepth}
	return p.parseNode(root, rootPath(), 1)
}

// parseNode is the single entry point for every selector position. It
// classifies the node shape and dispatches to the atomic, value or compound
// builders, which call back into parseNode for nested selectors.
func (p *parser) parseNode(n *eng.Node, at pathRef, depth int) (Selector, error) {
	if p.maxDepth > 0 && depth > p.maxDepth {
		return nil, at.issue(CodeSelectorTooDeep, n, nil)
	}
	switch n.Kind {
	case eng.NodeString:
		return p.parseAtomic(n, at)
	case eng.NodeObject:
		switch len(n.Members) {
		case 0:
			return nil, at.issue(CodeUnrecognizedSelectorShape, n, got("empty object"))
		case 1:
			return p.parseMember(n.Members[0], at, depth)
		default:
			return p.parseSiblingAttributes(n, at)
		}
	default:
		return nil, at.issue(CodeUnrecognizedSelectorShape, n, got(n.Kind.String()))
	}
}

func (p *parser) parseMember(m eng.Member, at pathRef, depth int) (Selector, error) {
	field := at.Field(m.Key)
	t, ok := LookupType(m.Key)
	if !ok {
		return nil, field.issue(CodeUnknownSelectorKeyword, m.Value, map[string]string{"key": m.Key})
	}
	switch t.Category() {
	case CategoryAtomic:
		return nil, field.issue(CodeAtomicSelectorTakesNoArgument, m.Value, map[string]string{"key": t.Keyword()})
	case CategoryValue:
		return p.parseValue(t, m.Value, field, nil)
	default:
		return p.parseCompound(t, m.Value, field, depth)
	}
}

// parseAtomic handles a bare string in selector position.
func (p *parser) parseAtomic(n *eng.Node, at pathRef) (Selector, error) {
	t, ok := LookupType(n.Str)
	if !ok || t.Category() != CategoryAtomic {
		return nil, at.issue(CodeInvalidAtomicSelector, n, got(strconv.Quote(n.Str)))
	}
	s, err := NewAtomic(t)
	if err != nil {
		return nil, at.locate(err, n)
	}
	return s, nil
}

// parseValue builds a value selector of type t from v. attrs carries
// attributes collected from sibling keys; they apply to every value produced.
func (p *parser) parseValue(t SelectorType, v *eng.Node, at pathRef, attrs map[string]string) (Selector, error) {
	switch v.Kind {
	case eng.NodeString:
		s, err := NewValue(t, v.Str, attrs)
		if err != nil {
			return nil, at.locate(err, v)
		}
		return s, nil
	case eng.NodeArray:
		return p.expandImplicitOR(t, v, at, attrs)
	case eng.NodeObject:
		if attrs != nil || !t.AcceptsAttributes() {
			return nil, at.issue(CodeInvalidValueSelectorShape, v, map[string]string{"key": t.Keyword()})
		}
		return p.parseAttributedObject(t, v, at)
	default:
		return nil, at.issue(CodeTypeMismatch, v, got(v.Kind.String()))
	}
}

// expandImplicitOR turns {"tag": ["a", "b"]} into or(tag a, tag b), keeping
// array order. Only homogeneous lists of strings qualify.
func (p *parser) expandImplicitOR(t SelectorType, arr *eng.Node, at pathRef, attrs map[string]string) (Selector, error) {
	if len(arr.Items) == 0 {
		return nil, at.issue(CodeEmptyImplicitOR, arr, map[string]string{"key": t.Keyword()})
	}
	children := make([]Selector, 0, len(arr.Items))
	for i, item := range arr.Items {
		ip := at.Index(i)
		if item.Kind != eng.NodeString {
			return nil, ip.issue(CodeHeterogeneousImplicitOR, item, map[string]string{"key": t.Keyword(), "got": item.Kind.String()})
		}
		s, err := NewValue(t, item.Str, attrs)
		if err != nil {
			return nil, ip.locate(err, item)
		}
		children = append(children, s)
	}
	s, err := NewCompound(TypeOr, children...)
	if err != nil {
		return nil, at.locate(err, arr)
	}
	return s, nil
}

// parseAttributedObject handles {"tag": {"value": "1", "tag_class": "autogroup"}}.
// The one member that is not an attribute keyword carries the primary value,
// whatever its key; at least one attribute must accompany it. All members are
// collected first and the combination is validated afterwards.
func (p *parser) parseAttributedObject(t SelectorType, obj *eng.Node, at pathRef) (Selector, error) {
	shape := func() error {
		return at.issue(CodeInvalidValueSelectorShape, obj, map[string]string{"key": t.Keyword()})
	}
	var primary *eng.Node
	var primaryAt pathRef
	attrs := map[string]string{}
	for _, m := range obj.Members {
		mp := at.Field(m.Key)
		name, ok := LookupAttribute(t, m.Key)
		if !ok {
			if primary != nil {
				return nil, mp.issue(CodeInvalidValueSelectorShape, m.Value, map[string]string{"key": t.Keyword()})
			}
			primary, primaryAt = m.Value, mp
			continue
		}
		if _, dup := attrs[name]; dup {
			return nil, shape()
		}
		av, err := attributeValue(m.Value, mp)
		if err != nil {
			return nil, err
		}
		attrs[name] = av
	}
	if primary == nil || len(attrs) == 0 {
		return nil, shape()
	}
	if primary.Kind != eng.NodeString {
		return nil, primaryAt.issue(CodeTypeMismatch, primary, got(primary.Kind.String()))
	}
	s, err := NewValue(t, primary.Str, attrs)
	if err != nil {
		return nil, primaryAt.locate(err, primary)
	}
	return s, nil
}

// parseSiblingAttributes handles the multi-key form
// {"tag": "1", "tag_class": "autogroup"}: exactly one value keyword plus
// attribute keywords it accepts. Anything else is not a selector.
func (p *parser) parseSiblingAttributes(obj *eng.Node, at pathRef) (Selector, error) {
	var (
		primary  *eng.Member
		ptype    SelectorType
		attrKeys []eng.Member
	)
	for i := range obj.Members {
		m := &obj.Members[i]
		if t, ok := LookupType(m.Key); ok {
			if t.Category() != CategoryValue || primary != nil {
				return nil, at.issue(CodeUnrecognizedSelectorShape, obj, got("object with "+strconv.Itoa(len(obj.Members))+" keys"))
			}
			primary, ptype = m, t
			continue
		}
		if !isAttributeKeyword(m.Key) {
			return nil, at.Field(m.Key).issue(CodeUnknownSelectorKeyword, m.Value, map[string]string{"key": m.Key})
		}
		attrKeys = append(attrKeys, *m)
	}
	if primary == nil {
		return nil, at.issue(CodeUnrecognizedSelectorShape, obj, got("object without a selector keyword"))
	}
	attrs := make(map[string]string, len(attrKeys))
	for _, m := range attrKeys {
		mp := at.Field(m.Key)
		name, ok := LookupAttribute(ptype, m.Key)
		if !ok {
			return nil, mp.issue(CodeInvalidValueSelectorShape, m.Value, map[string]string{"key": ptype.Keyword()})
		}
		if _, dup := attrs[name]; dup {
			return nil, mp.issue(CodeInvalidValueSelectorShape, m.Value, map[string]string{"key": ptype.Keyword()})
		}
		av, err := attributeValue(m.Value, mp)
		if err != nil {
			return nil, err
		}
		attrs[name] = av
	}
	return p.parseValue(ptype, primary.Value, at.Field(primary.Key), attrs)
}

func attributeValue(n *eng.Node, at pathRef) (string, error) {
	if n.Kind != eng.NodeString {
		return "", at.issue(CodeTypeMismatch, n, got(n.Kind.String()))
	}
	if n.Str == "" {
		return "", at.issue(CodeEmptySelectorValue, n, nil)
	}
	return n.Str, nil
}

// parseCompound handles and/or/not.
func (p *parser) parseCompound(t SelectorType, v *eng.Node, at pathRef, depth int) (Selector, error) {
	if err := p.ctx.Err(); err != nil {
		return nil, AppendIssues(nil, Issue{Path: at.Pointer(), Code: CodeParseError, Message: err.Error(), Cause: err, Offset: v.Offset})
	}
	var children []Selector
	switch {
	case t == TypeNot && v.Kind == eng.NodeObject:
		child, err := p.parseNode(v, at, depth+1)
		if err != nil {
			return nil, err
		}
		children = []Selector{child}
	case t == TypeNot && v.Kind == eng.NodeArray:
		if len(v.Items) != 1 {
			return nil, at.issue(CodeNotRequiresExactlyOneChild, v, got(strconv.Itoa(len(v.Items))))
		}
		child, err := p.parseOperand(t, v.Items[0], at.Index(0), depth)
		if err != nil {
			return nil, err
		}
		children = []Selector{child}
	case t == TypeNot && v.Kind == eng.NodeString:
		return p.parseOperand(t, v, at, depth)
	case v.Kind == eng.NodeArray:
		if len(v.Items) == 0 {
			return nil, at.issue(CodeEmptyCompoundExpression, v, map[string]string{"key": t.Keyword()})
		}
		children = make([]Selector, 0, len(v.Items))
		for i, item := range v.Items {
			child, err := p.parseOperand(t, item, at.Index(i), depth)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	default:
		return nil, at.issue(CodeUnrecognizedSelectorShape, v, got(v.Kind.String()))
	}
	s, err := NewCompound(t, children...)
	if err != nil {
		return nil, at.locate(err, v)
	}
	return s, nil
}

// parseOperand parses one child of a compound. Bare strings are rejected up
// front: atomic keywords may only be the whole expression.
func (p *parser) parseOperand(parent SelectorType, n *eng.Node, at pathRef, depth int) (Selector, error) {
	if n.Kind == eng.NodeString {
		if t, ok := LookupType(n.Str); ok && t.Category() == CategoryAtomic {
			return nil, at.issue(CodeAtomicNotAllowedInCompoundArray, n, map[string]string{"key": parent.Keyword(), "got": strconv.Quote(n.Str)})
		}
		return nil, at.issue(CodeInvalidAtomicSelector, n, got(strconv.Quote(n.Str)))
	}
	return p.parseNode(n, at, depth+1)
}

func got(desc string) map[string]string { return map[string]string{"got": desc} }
