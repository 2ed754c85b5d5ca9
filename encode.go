package audience

import (
	"bytes"
	"slices"

	"github.com/goccy/go-json"
)

// Marshal renders sel in the wire shape it is parsed from: atomic selectors as
// bare strings, value selectors as {"<keyword>": "<value>", <attributes>...},
// compounds as {"<op>": [children]} with not included. Implicit ORs come
// back out as explicit {"or": [...]}.
func Marshal(sel Selector) ([]byte, error) {
	if sel == nil {
		return nil, singleIssue(CodeUnrecognizedSelectorShape, "nil selector")
	}
	var buf bytes.Buffer
	if err := encodeTo(&buf, sel); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Atomic) MarshalJSON() ([]byte, error)   { return Marshal(s) }
func (s *Value) MarshalJSON() ([]byte, error)    { return Marshal(s) }
func (s *Compound) MarshalJSON() ([]byte, error) { return Marshal(s) }

func (s *Atomic) String() string   { return render(s) }
func (s *Value) String() string    { return render(s) }
func (s *Compound) String() string { return render(s) }

func render(sel Selector) string {
	b, err := Marshal(sel)
	if err != nil {
		return "<invalid selector>"
	}
	return string(b)
}

func encodeTo(buf *bytes.Buffer, sel Selector) error {
	switch s := sel.(type) {
	case *Atomic:
		return writeString(buf, s.typ.Keyword())
	case *Value:
		buf.WriteByte('{')
		if err := writeMember(buf, s.typ.Keyword(), s.value); err != nil {
			return err
		}
		for _, name := range sortedKeys(s.attrs) {
			buf.WriteByte(',')
			if err := writeMember(buf, name, s.attrs[name]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case *Compound:
		buf.WriteByte('{')
		if err := writeString(buf, s.typ.Keyword()); err != nil {
			return err
		}
		buf.WriteString(":[")
		for i, c := range s.children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeTo(buf, c); err != nil {
				return err
			}
		}
		buf.WriteString("]}")
		return nil
	default:
		return singleIssue(CodeUnrecognizedSelectorShape, "unsupported selector implementation")
	}
}

func writeMember(buf *bytes.Buffer, key, value string) error {
	if err := writeString(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeString(buf, value)
}

// writeString quotes s without HTML escaping so values read back verbatim.
func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// ToValue converts sel into JSON-compatible Go values (string, map[string]any,
// []any) that Parse accepts back.
func ToValue(sel Selector) any {
	switch s := sel.(type) {
	case *Atomic:
		return s.typ.Keyword()
	case *Value:
		m := make(map[string]any, 1+len(s.attrs))
		m[s.typ.Keyword()] = s.value
		for k, v := range s.attrs {
			m[k] = v
		}
		return m
	case *Compound:
		items := make([]any, len(s.children))
		for i, c := range s.children {
			items[i] = ToValue(c)
		}
		return map[string]any{s.typ.Keyword(): items}
	default:
		return nil
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func jsonNumber(s string) json.Number { return json.Number(s) }
