package audience_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"testing"

	audience "github.com/reoring/audience"
)

func smallSelectorJSON() []byte {
	return []byte(`{"and":[{"tag":["sports","news"]},{"not":{"segment":"churned"}}]}`)
}

// wideSelectorJSON returns {"or":[{"and":[{"tag":"t0"},{"alias":["a0","b0"]}]},...]}.
func wideSelectorJSON(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"or":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		s := strconv.Itoa(i)
		buf.WriteString(`{"and":[{"tag":"t` + s + `","tag_class":"autogroup"},{"alias":["a` + s + `","b` + s + `"]}]}`)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func Benchmark_ParseJSON_Small(b *testing.B) {
	ctx := context.Background()
	data := smallSelectorJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := audience.ParseJSON(ctx, data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_StreamParse_Small(b *testing.B) {
	ctx := context.Background()
	data := smallSelectorJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := audience.StreamParse(ctx, bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseJSON_Wide(b *testing.B) {
	ctx := context.Background()
	data := wideSelectorJSON(1000)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := audience.ParseJSON(ctx, data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Parse_GoValue_Wide(b *testing.B) {
	ctx := context.Background()
	var v any
	if err := json.Unmarshal(wideSelectorJSON(1000), &v); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := audience.Parse(ctx, v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Marshal_Wide(b *testing.B) {
	sel, err := audience.ParseJSON(context.Background(), wideSelectorJSON(1000))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := audience.Marshal(sel); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Baseline: encoding/json ----

func Benchmark_encodingJSON_Unmarshal_Wide(b *testing.B) {
	data := wideSelectorJSON(1000)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}
