package audience

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// DefaultMaxDepth is the selector nesting ceiling applied when ParseOpt.MaxDepth
// is zero. Each level is one compound operator.
const DefaultMaxDepth = 64

// ParseOpt bundles parsing options.
type ParseOpt struct {
	Strictness Strictness
	// MaxDepth caps selector nesting. Zero means DefaultMaxDepth; negative
	// disables the ceiling.
	MaxDepth int
	// MaxBytes caps consumed input for Source-based parsing (0 = unlimited).
	MaxBytes int64
}

// DefaultParseOpt returns the recommended options for request bodies:
// duplicate keys are errors because a selector object with a repeated key is
// ambiguous.
func DefaultParseOpt() ParseOpt {
	return ParseOpt{
		Strictness: Strictness{OnDuplicateKey: Error},
		MaxDepth:   DefaultMaxDepth,
	}
}

// resolveOpt picks the last option; no options means DefaultParseOpt.
func resolveOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return DefaultParseOpt()
	}
	opt := opts[len(opts)-1]
	if opt.MaxDepth == 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	return opt
}

// maxNesting converts the selector depth ceiling into a container depth cap
// for the token layer. A selector level spends at most two containers (the
// operator object and its array), plus one for an attributed value object.
func (o ParseOpt) maxNesting() int {
	if o.MaxDepth < 0 {
		return 0
	}
	return 2*o.MaxDepth + 2
}
