// Package gojson provides a JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	audience "github.com/reoring/audience"
	eng "github.com/reoring/audience/internal/engine"
)

// Driver returns an audience.JSONDriver backed by goccy/go-json.
func Driver() audience.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) audience.Source {
	return audience.SourceFromEngine(NewReader(r))
}
func (driverGoJSON) NewBytes(b []byte) audience.Source {
	return audience.SourceFromEngine(NewBytes(b))
}
func (driverGoJSON) Name() string { return "go-json" }

type source struct {
	dec    *j.Decoder
	framer eng.Framer
	off    int64
}

// NewReader wraps an io.Reader into an engine.TokenSource using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec, off: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.off = s.dec.InputOffset()
	off := s.off

	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.framer.BeginObject()
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '[':
			s.framer.BeginArray()
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case '}':
			s.framer.End()
			return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
		default:
			s.framer.End()
			return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
		}
	case string:
		if s.framer.String() {
			return eng.Token{Kind: eng.KindKey, String: v, Offset: off}, nil
		}
		return eng.Token{Kind: eng.KindString, String: v, Offset: off}, nil
	case bool:
		s.framer.Scalar()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		s.framer.Scalar()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.framer.Scalar()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	default:
		s.framer.Scalar()
		return eng.Token{Kind: eng.KindNull, Offset: off}, nil
	}
}

func (s *source) Location() int64 { return s.off }
