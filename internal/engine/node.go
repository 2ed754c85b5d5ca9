package engine

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// ErrTooDeep is returned by FromAny when the value nests deeper than allowed.
var ErrTooDeep = errors.New("engine: " + MsgTooDeep)

// ErrUnsupportedType is returned by FromAny for Go values with no JSON shape.
var ErrUnsupportedType = errors.New("engine: unsupported value type")

// MsgTooDeep is the message attached to nesting limit violations.
const MsgTooDeep = "max depth exceeded"

// numberLike matches json.Number from encoding/json and goccy/go-json.
type numberLike interface {
	String() string
	Float64() (float64, error)
}

// FromAny converts JSON-compatible Go values into a Node. Map keys are visited
// in sorted order so that diagnostics are deterministic. maxNesting <= 0
// disables the nesting limit.
func FromAny(v any, maxNesting int) (*Node, error) {
	return fromAny(v, 0, maxNesting)
}

func fromAny(v any, depth, maxNesting int) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return &Node{Kind: NodeNull, Offset: -1}, nil
	case string:
		if !utf8.ValidString(t) {
			return nil, &UTF8Error{Offset: -1}
		}
		return &Node{Kind: NodeString, Str: t, Offset: -1}, nil
	case bool:
		return &Node{Kind: NodeBool, Bool: t, Offset: -1}, nil
	case float64:
		return number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case float32:
		return number(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case int:
		return number(strconv.Itoa(t)), nil
	case int64:
		return number(strconv.FormatInt(t, 10)), nil
	case int32:
		return number(strconv.FormatInt(int64(t), 10)), nil
	case uint64:
		return number(strconv.FormatUint(t, 10)), nil
	case uint:
		return number(strconv.FormatUint(uint64(t), 10)), nil
	case numberLike:
		return number(t.String()), nil
	case []string:
		return fromAny(anySlice(t), depth, maxNesting)
	case []map[string]any:
		return fromAny(anySlice(t), depth, maxNesting)
	case []map[string]string:
		return fromAny(anySlice(t), depth, maxNesting)
	case []map[any]any:
		return fromAny(anySlice(t), depth, maxNesting)
	case []any:
		if err := checkNesting(depth, maxNesting); err != nil {
			return nil, err
		}
		n := &Node{Kind: NodeArray, Offset: -1, Items: make([]*Node, 0, len(t))}
		for _, it := range t {
			c, err := fromAny(it, depth+1, maxNesting)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, c)
		}
		return n, nil
	case map[string]any:
		if err := checkNesting(depth, maxNesting); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &Node{Kind: NodeObject, Offset: -1, Members: make([]Member, 0, len(t))}
		for _, k := range keys {
			if !utf8.ValidString(k) {
				return nil, &UTF8Error{Offset: -1}
			}
			c, err := fromAny(t[k], depth+1, maxNesting)
			if err != nil {
				return nil, err
			}
			n.Members = append(n.Members, Member{Key: k, Value: c})
		}
		return n, nil
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return fromAny(m, depth, maxNesting)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string object key %v", ErrUnsupportedType, k)
			}
			m[ks] = vv
		}
		return fromAny(m, depth, maxNesting)
	default:
		return nil, fmt.Errorf("%w %T", ErrUnsupportedType, v)
	}
}

func anySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

func number(s string) *Node { return &Node{Kind: NodeNumber, Str: s, Offset: -1} }

func checkNesting(depth, maxNesting int) error {
	if maxNesting > 0 && depth >= maxNesting {
		return ErrTooDeep
	}
	return nil
}
