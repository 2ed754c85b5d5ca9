package engine

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// Framer tracks container nesting for decoders whose token APIs report object
// keys as plain strings (encoding/json, goccy/go-json). Drivers feed every
// token through it to tell keys from string values.
type Framer struct {
	stack []frame
}

// BeginObject records an opening brace.
func (f *Framer) BeginObject() { f.stack = append(f.stack, frame{kind: kindObject, expectingKey: true}) }

// BeginArray records an opening bracket.
func (f *Framer) BeginArray() { f.stack = append(f.stack, frame{kind: kindArray}) }

// End records a closing brace or bracket. The closed container counts as the
// value of its parent member.
func (f *Framer) End() {
	if n := len(f.stack); n > 0 {
		f.stack = f.stack[:n-1]
	}
	f.valueDone()
}

// String classifies a string token, returning true when it is an object key.
func (f *Framer) String() bool {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.kind == kindObject && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	f.valueDone()
	return false
}

// Scalar records a non-string scalar (number, bool, null).
func (f *Framer) Scalar() { f.valueDone() }

// Depth reports the current container depth.
func (f *Framer) Depth() int { return len(f.stack) }

func (f *Framer) valueDone() {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
