// Package yamlsrc reads selectors written in YAML. The document is decoded
// with gopkg.in/yaml.v3 into a node tree and replayed as JSON tokens, so the
// usual duplicate-key, nesting and grammar checks apply unchanged.
package yamlsrc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	audience "github.com/reoring/audience"
)

// ErrAlias is returned for documents that use aliases.
var ErrAlias = errors.New("yamlsrc: aliases are not supported")

// PositionError wraps a conversion error with the YAML line and column.
type PositionError struct {
	Line int
	Col  int
	Err  error
}

func (e *PositionError) Error() string { return fmt.Sprintf("yaml %d:%d: %v", e.Line, e.Col, e.Err) }
func (e *PositionError) Unwrap() error { return e.Err }

// NewBytes returns a Source over the first YAML document in b.
func NewBytes(b []byte) audience.Source { return NewReader(bytes.NewReader(b)) }

// NewReader returns a Source over the first YAML document in r. Decode
// errors surface from the first NextToken call.
func NewReader(r io.Reader) audience.Source {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &source{err: err}
	}
	s := &source{}
	if err := s.emit(&doc); err != nil {
		return &source{err: err}
	}
	return s
}

// source replays tokens materialized from a yaml.Node tree.
type source struct {
	tokens []audience.Token
	idx    int
	err    error
}

func (s *source) NextToken() (audience.Token, error) {
	if s.err != nil {
		return audience.Token{}, s.err
	}
	if s.idx >= len(s.tokens) {
		return audience.Token{}, io.EOF
	}
	t := s.tokens[s.idx]
	s.idx++
	return t, nil
}

func (s *source) Location() int64 { return -1 }

func (s *source) push(t audience.Token) {
	t.Offset = -1
	s.tokens = append(s.tokens, t)
}

func (s *source) emit(n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return io.ErrUnexpectedEOF
		}
		return s.emit(n.Content[0])
	case yaml.MappingNode:
		s.push(audience.Token{Kind: audience.TokenBeginObject})
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return &PositionError{Line: k.Line, Col: k.Column, Err: errors.New("mapping keys must be scalars")}
			}
			s.push(audience.Token{Kind: audience.TokenKey, String: k.Value})
			if err := s.emit(n.Content[i+1]); err != nil {
				return err
			}
		}
		s.push(audience.Token{Kind: audience.TokenEndObject})
		return nil
	case yaml.SequenceNode:
		s.push(audience.Token{Kind: audience.TokenBeginArray})
		for _, c := range n.Content {
			if err := s.emit(c); err != nil {
				return err
			}
		}
		s.push(audience.Token{Kind: audience.TokenEndArray})
		return nil
	case yaml.ScalarNode:
		s.push(scalarToken(n))
		return nil
	case yaml.AliasNode:
		return &PositionError{Line: n.Line, Col: n.Column, Err: ErrAlias}
	default:
		return &PositionError{Line: n.Line, Col: n.Column, Err: fmt.Errorf("unsupported node kind %d", n.Kind)}
	}
}

func scalarToken(n *yaml.Node) audience.Token {
	switch n.ShortTag() {
	case "!!null":
		return audience.Token{Kind: audience.TokenNull}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return audience.Token{Kind: audience.TokenBool, Bool: b}
		}
	case "!!int", "!!float":
		return audience.Token{Kind: audience.TokenNumber, Number: n.Value}
	}
	return audience.Token{Kind: audience.TokenString, String: n.Value}
}
