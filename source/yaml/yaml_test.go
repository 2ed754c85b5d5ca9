package yamlsrc_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audience "github.com/reoring/audience"
	yamlsrc "github.com/reoring/audience/source/yaml"
)

func TestParseYAML(t *testing.T) {
	in := `
and:
  - tag: [a, b]
  - not:
      alias: x
  - tag: "1"
    tag_class: autogroup
`
	sel, err := audience.ParseFrom(context.Background(), yamlsrc.NewBytes([]byte(in)))
	require.NoError(t, err)
	want, err := audience.ParseJSON(context.Background(), []byte(`{"and":[{"tag":["a","b"]},{"not":{"alias":"x"}},{"tag":"1","tag_class":"autogroup"}]}`))
	require.NoError(t, err)
	assert.True(t, audience.Equal(want, sel), "got %v", sel)
}

func TestParseYAML_Atomic(t *testing.T) {
	sel, err := audience.ParseFrom(context.Background(), yamlsrc.NewReader(strings.NewReader("triggered\n")))
	require.NoError(t, err)
	assert.Equal(t, audience.TypeTriggered, sel.Type())
}

func TestParseYAML_ScalarTypes(t *testing.T) {
	cases := map[string]string{
		"tag: 10\n":   audience.CodeTypeMismatch,
		"tag: true\n": audience.CodeTypeMismatch,
		"tag: ~\n":    audience.CodeTypeMismatch,
		"tag: 1.5\n":  audience.CodeTypeMismatch,
	}
	for in, code := range cases {
		_, err := audience.ParseFrom(context.Background(), yamlsrc.NewBytes([]byte(in)))
		assert.Equal(t, code, audience.CodeOf(err), in)
	}
	// Quoted numbers stay strings.
	sel, err := audience.ParseFrom(context.Background(), yamlsrc.NewBytes([]byte("tag: \"10\"\n")))
	require.NoError(t, err)
	assert.Equal(t, `{"tag":"10"}`, sel.String())
}

func TestParseYAML_DuplicateKey(t *testing.T) {
	in := "or:\n  - alias: a\n    alias: b\n"
	_, err := audience.ParseFrom(context.Background(), yamlsrc.NewBytes([]byte(in)))
	iss, ok := audience.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, audience.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/or/0/alias", iss[0].Path)
}

func TestParseYAML_GrammarPaths(t *testing.T) {
	_, err := audience.ParseFrom(context.Background(), yamlsrc.NewBytes([]byte("and:\n  - all\n")))
	iss, ok := audience.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, audience.CodeAtomicNotAllowedInCompoundArray, iss[0].Code)
	assert.Equal(t, "/and/0", iss[0].Path)
}

func TestNewBytes_Errors(t *testing.T) {
	_, err := yamlsrc.NewBytes([]byte("a: &x [1]\nb: *x\n")).NextToken()
	var pe *yamlsrc.PositionError
	require.True(t, errors.As(err, &pe))
	assert.True(t, errors.Is(err, yamlsrc.ErrAlias))
	assert.Equal(t, 2, pe.Line)

	_, err = yamlsrc.NewBytes([]byte("? [a]\n: b\n")).NextToken()
	require.True(t, errors.As(err, &pe))

	_, err = yamlsrc.NewBytes(nil).NextToken()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = yamlsrc.NewBytes([]byte("tag: [a\n")).NextToken()
	assert.Error(t, err)
}
