package engine

import "io"

// DetectDuplicateKeys drains src and reports every duplicated object key.
// If onDup is DupIgnore, no issues are produced. maxIssues < 0 means
// unlimited; 0 disables collection; >0 caps the result and appends a
// truncated marker.
func DetectDuplicateKeys(src TokenSource, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore || maxIssues == 0 {
		return nil, nil
	}
	var issues []SimpleIssue
	full := false
	sink := func(si SimpleIssue) {
		if full {
			return
		}
		issues = append(issues, si)
		if maxIssues > 0 && len(issues) >= maxIssues {
			issues = append(issues, SimpleIssue{Code: CodeTruncated, Path: "/", Message: "max issues reached", Offset: -1})
			full = true
		}
	}
	// Warn mode keeps scanning past the first duplicate; DupError only decides
	// how callers treat the result.
	enforced := WrapWithEnforcement(src, EnforceOptions{OnDuplicate: DupWarn, IssueSink: sink})
	for {
		if _, err := enforced.NextToken(); err != nil {
			if err == io.EOF {
				return issues, nil
			}
			issues = append(issues, SimpleIssue{Code: CodeParseError, Path: "/", Message: err.Error(), Offset: src.Location()})
			return issues, nil
		}
		if onDup == DupError && len(issues) > 0 {
			return issues, nil
		}
	}
}
