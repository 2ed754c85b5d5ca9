package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	audience "github.com/reoring/audience"
	hujsonsrc "github.com/reoring/audience/source/hujson"
	yamlsrc "github.com/reoring/audience/source/yaml"
)

// stdinName is the argument that reads from standard input.
const stdinName = "-"

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// readInput reads a file (or stdin for "-") honoring the byte cap.
func readInput(name string, maxBytes int64) ([]byte, error) {
	var r io.Reader
	if name == stdinName {
		r = stdin
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("input exceeds %d bytes", maxBytes)
	}
	return data, nil
}

// format names the input syntax of a file.
type format string

const (
	formatJSON  format = "json"
	formatJSONC format = "jsonc"
	formatYAML  format = "yaml"
)

// detectFormat picks the syntax from the file extension; stdin and unknown
// extensions are JSON.
func detectFormat(name string) format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".jsonc", ".hujson":
		return formatJSONC
	default:
		return formatJSON
	}
}

// newSource returns a fresh token source over data. Sources are single-use,
// so callers needing two passes call it twice.
func newSource(f format, data []byte) audience.Source {
	switch f {
	case formatYAML:
		return yamlsrc.NewBytes(data)
	case formatJSONC:
		return hujsonsrc.NewBytes(data)
	default:
		return audience.JSONBytes(data)
	}
}
