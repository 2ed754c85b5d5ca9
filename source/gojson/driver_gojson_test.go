package gojson_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audience "github.com/reoring/audience"
	eng "github.com/reoring/audience/internal/engine"
	drv "github.com/reoring/audience/source/gojson"
)

func drain(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, tok)
	}
}

func TestTokens_KeysAndValues(t *testing.T) {
	toks := drain(t, drv.NewBytes([]byte(`{"tag":"a","n":[1,true,null]}`)))
	kinds := make([]eng.Kind, len(toks))
	for i, tk := range toks {
		kinds[i] = tk.Kind
	}
	assert.Equal(t, []eng.Kind{
		eng.KindBeginObject, eng.KindKey, eng.KindString, eng.KindKey,
		eng.KindBeginArray, eng.KindNumber, eng.KindBool, eng.KindNull, eng.KindEndArray,
		eng.KindEndObject,
	}, kinds)
	assert.Equal(t, "tag", toks[1].String)
	assert.Equal(t, "a", toks[2].String)
	assert.Equal(t, "1", toks[5].Number)
}

func TestDriver_ParsesSelectors(t *testing.T) {
	audience.SetJSONDriver(drv.Driver())
	t.Cleanup(audience.UseDefaultJSONDriver)
	assert.Equal(t, "go-json", audience.CurrentJSONDriver().Name())

	sel, err := audience.ParseJSON(context.Background(), []byte(`{"and":[{"tag":["a","b"]},{"not":{"alias":"x"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, `{"and":[{"or":[{"tag":"a"},{"tag":"b"}]},{"not":[{"alias":"x"}]}]}`, sel.String())

	_, err = audience.ParseJSON(context.Background(), []byte(`{"and":[{"tag":"a","tag":"b"}]}`))
	iss, ok := audience.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, audience.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/and/0/tag", iss[0].Path)
}
