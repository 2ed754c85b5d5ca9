// Package audience parses push-notification audience selectors.
//
// A selector is a JSON expression naming the devices a push goes to:
//
//	"all"
//	{"tag": "sports"}
//	{"tag": "1", "tag_class": "autogroup"}
//	{"alias": ["a1", "a2"]}                  // implicit OR
//	{"and": [{"tag": "t1"}, {"not": {"segment": "s1"}}]}
//
// The package provides:
//
// - A sealed Selector sum type (*Atomic, *Value, *Compound) whose constructors
// enforce the grammar invariants, so every Selector value is valid
// - Parse/ParseFrom/ParseJSON/StreamParse entry points with a stable error
// model via Issues (JSON Pointer, code, message)
// - Pluggable token sources: encoding/json (default), go-json (source/gojson),
// JSON with comments (source/hujson) and YAML (source/yaml)
// - Duplicate-key, nesting-depth and size enforcement in the token layer
// - Marshal/ToValue for re-encoding and Match for evaluating a selector
// against a device
//
// Design policy:
// - Keep the public API in the root package; put token plumbing under internal/.
// - Keyword matching is case-insensitive and normalized in one place (keyword.go).
// - Parsing is fail-fast: the first grammar violation is returned and its code
// is never rewritten on the way out.
//
// Typical usage:
//
//	sel, err := audience.ParseJSON(ctx, body, audience.DefaultParseOpt())
//	if err != nil {
//		iss, _ := audience.AsIssues(err) // iss[0].Code, iss[0].Path
//	}
//	wire, _ := audience.Marshal(sel)
package audience
