package audience

import (
	"io"

	eng "github.com/reoring/audience/internal/engine"
)

// DetectJSONDuplicateKeysBytes lists duplicated object keys in a JSON document
// without parsing it as a selector. With strict.OnDuplicateKey == Error it
// stops at the first duplicate; Ignore returns nothing.
func DetectJSONDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) (Issues, error) {
	return DetectDuplicateKeys(JSONBytes(data), strict, maxIssues)
}

// DetectJSONDuplicateKeysReader is the io.Reader variant of
// DetectJSONDuplicateKeysBytes.
func DetectJSONDuplicateKeysReader(r io.Reader, strict Strictness, maxIssues int) (Issues, error) {
	return DetectDuplicateKeys(JSONReader(r), strict, maxIssues)
}

// DetectDuplicateKeys scans any Source (JSON, JSONC, YAML) for duplicated
// object keys.
func DetectDuplicateKeys(src Source, strict Strictness, maxIssues int) (Issues, error) {
	si, err := eng.DetectDuplicateKeys(EngineTokenSource(src), toEngineDup(strict.OnDuplicateKey), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		msg := s.Message
		if s.Code != CodeParseError {
			msg = message(s.Code, nil) + ": " + s.Message
		}
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Message: msg, Offset: s.Offset})
	}
	return iss
}
