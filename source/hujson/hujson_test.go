package hujsonsrc_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audience "github.com/reoring/audience"
	hujsonsrc "github.com/reoring/audience/source/hujson"
)

func TestParseHuJSON(t *testing.T) {
	in := `{
	// campaign audience
	"and": [
		{"tag": ["a", "b",]}, /* trailing comma above */
		{"not": {"segment": "churned"}},
	],
}`
	sel, err := audience.ParseFrom(context.Background(), hujsonsrc.NewReader(strings.NewReader(in)))
	require.NoError(t, err)
	assert.Equal(t, `{"and":[{"or":[{"tag":"a"},{"tag":"b"}]},{"not":[{"segment":"churned"}]}]}`, sel.String())
}

func TestParseHuJSON_DuplicateKeyAndPaths(t *testing.T) {
	_, err := audience.ParseFrom(context.Background(), hujsonsrc.NewBytes([]byte(`{"tag": "a", "tag": "b", }`)))
	assert.Equal(t, audience.CodeDuplicateKey, audience.CodeOf(err))

	_, err = audience.ParseFrom(context.Background(), hujsonsrc.NewBytes([]byte(`{"or": [{"derp": "x"}]} // bad`)))
	iss, ok := audience.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, "/or/0/derp", iss[0].Path)
}

func TestStandardize(t *testing.T) {
	in := []byte(`{"a": 1, /* c */ }`)
	out, err := hujsonsrc.Standardize(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))
	assert.Equal(t, `{"a": 1, /* c */ }`, string(in), "input must not be modified")

	_, err = audience.ParseFrom(context.Background(), hujsonsrc.NewBytes([]byte(`{"a": `)))
	assert.Equal(t, audience.CodeParseError, audience.CodeOf(err))
}
