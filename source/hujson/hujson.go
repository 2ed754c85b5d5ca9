// Package hujsonsrc reads selectors written as JSON with comments and
// trailing commas (HuJSON / JSONC). The input is standardized with
// github.com/tailscale/hujson and then tokenized by the current JSON driver.
package hujsonsrc

import (
	"io"

	"github.com/tailscale/hujson"

	audience "github.com/reoring/audience"
)

// Standardize strips comments and trailing commas, returning plain JSON.
func Standardize(b []byte) ([]byte, error) {
	return hujson.Standardize(append([]byte(nil), b...))
}

// NewBytes returns a Source over HuJSON input. Syntax errors surface from the
// first NextToken call.
func NewBytes(b []byte) audience.Source {
	std, err := Standardize(b)
	if err != nil {
		return errSource{err: err}
	}
	return audience.JSONBytes(std)
}

// NewReader reads r fully and returns a Source over its HuJSON content.
func NewReader(r io.Reader) audience.Source {
	b, err := io.ReadAll(r)
	if err != nil {
		return errSource{err: err}
	}
	return NewBytes(b)
}

type errSource struct{ err error }

func (s errSource) NextToken() (audience.Token, error) { return audience.Token{}, s.err }
func (s errSource) Location() int64                    { return -1 }
