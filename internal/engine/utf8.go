package engine

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// UTF8Error reports input that is not valid UTF-8. Offset is -1 when the
// value did not come from a byte stream.
type UTF8Error struct{ Offset int64 }

func (e *UTF8Error) Error() string {
	if e.Offset < 0 {
		return "engine: invalid UTF-8 in string"
	}
	return fmt.Sprintf("engine: invalid UTF-8 at offset %d", e.Offset)
}

// CheckUTF8 returns a *UTF8Error locating the first invalid sequence in b, or
// nil when b is valid.
func CheckUTF8(b []byte) error {
	if utf8.Valid(b) {
		return nil
	}
	_, _, bad := splitValidUTF8(b, true)
	return &UTF8Error{Offset: int64(bad)}
}

// ValidatingReader wraps r so that reads fail with a *UTF8Error at the first
// invalid sequence. Bytes before that point are delivered normally; an
// incomplete sequence at a read boundary is held back until the next read.
func ValidatingReader(r io.Reader) io.Reader {
	return &utf8Reader{r: r, scratch: make([]byte, 4096)}
}

type utf8Reader struct {
	r       io.Reader
	scratch []byte
	ready   []byte
	tail    []byte
	off     int64
	err     error
}

func (u *utf8Reader) Read(p []byte) (int, error) {
	for len(u.ready) == 0 && u.err == nil {
		n, err := u.r.Read(u.scratch)
		data := make([]byte, 0, len(u.tail)+n)
		data = append(append(data, u.tail...), u.scratch[:n]...)
		valid, rest, bad := splitValidUTF8(data, err != nil)
		if bad >= 0 {
			u.err = &UTF8Error{Offset: u.off + int64(bad)}
		} else if err != nil {
			u.err = err
		}
		u.ready, u.tail = valid, rest
		u.off += int64(len(valid))
	}
	if len(u.ready) > 0 {
		n := copy(p, u.ready)
		u.ready = u.ready[n:]
		return n, nil
	}
	return 0, u.err
}

// splitValidUTF8 returns the longest valid prefix of b, the incomplete trailing
// sequence held for the next chunk (only when !final), and the index of the
// first invalid byte or -1.
func splitValidUTF8(b []byte, final bool) (valid, rest []byte, bad int) {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			if !final && !utf8.FullRune(b[i:]) {
				return b[:i], b[i:], -1
			}
			return b[:i], nil, i
		}
		i += size
	}
	return b, nil, -1
}
