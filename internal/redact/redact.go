// Package redact scrubs sensitive content from tape text before it leaves
// the local machine. It is best-effort pattern matching: false negatives
// (missed secrets) and false positives (redacting benign text that happens
// to match, e.g. a long hash) are accepted trade-offs. Do not tighten
// patterns to reduce the false-positive rate; that trades away recall.
package redact

import "regexp"

// Rule is a single pattern/replacement pair.
type Rule struct {
	Name        string
	Pattern     string
	Replacement string
}

// CompiledRule is a rule with its pattern compiled.
type CompiledRule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Redactor applies an ordered list of rules to text. Each rule scans the
// already-rewritten output of the rules before it, so list order is part
// of the contract: the multi-line PEM rule must consume whole key blocks
// before shorter generic patterns can partially match inside them, and
// vendor-specific key prefixes must run before the generic base64 rule.
type Redactor struct {
	rules []CompiledRule
}

// New compiles the given rules in order.
func New(rules []Rule) (*Redactor, error) {
	compiled := make([]CompiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, CompiledRule{Name: r.Name, Pattern: re, Replacement: r.Replacement})
	}
	return &Redactor{rules: compiled}, nil
}

// NewDefault creates a Redactor with the built-in rules.
func NewDefault() (*Redactor, error) {
	return New(DefaultRules())
}

// Apply returns text with every matching pattern replaced by that rule's
// placeholder. Placeholders are fixed and non-reversible.
func (r *Redactor) Apply(text string) string {
	out := text
	for _, rule := range r.rules {
		out = rule.Pattern.ReplaceAllString(out, rule.Replacement)
	}
	return out
}

// Noop is a pass-through redactor for --no-redact.
type Noop struct{}

// Apply returns text unchanged.
func (Noop) Apply(text string) string {
	return text
}

// Applier is the interface the tape builder consumes.
type Applier interface {
	Apply(text string) string
}

var (
	_ Applier = (*Redactor)(nil)
	_ Applier = Noop{}
)

// DefaultRules returns the built-in rules in their required order.
func DefaultRules() []Rule {
	return []Rule{
		// Vendor-specific API key prefixes (before the generic base64 rule).
		// sk-ant- must run before the plain sk- prefix it contains.
		{
			Name:        "anthropic_api_key",
			Pattern:     `\bsk-ant-[A-Za-z0-9\-]{20,}`,
			Replacement: "sk-ant-REDACTED",
		},
		{
			Name:        "openai_api_key",
			Pattern:     `\bsk-[A-Za-z0-9]{20,}\b`,
			Replacement: "sk-REDACTED",
		},
		{
			Name:        "google_api_key",
			Pattern:     `\bAIza[0-9A-Za-z\-_]{35}\b`,
			Replacement: "AIzaREDACTED",
		},
		{
			Name:        "github_token",
			Pattern:     `\bgh[pousr]_[A-Za-z0-9]{20,}\b`,
			Replacement: "gh_REDACTED",
		},
		{
			Name:        "slack_token",
			Pattern:     `\bxox[baprs]-[0-9A-Za-z-]{10,}\b`,
			Replacement: "xox-REDACTED",
		},
		{
			Name:        "bearer_header",
			Pattern:     `\bBearer\s+[A-Za-z0-9\-._~+/]+=*`,
			Replacement: "Bearer REDACTED",
		},
		{
			Name:        "aws_access_key",
			Pattern:     `\bAKIA[0-9A-Z]{16}\b`,
			Replacement: "AKIAREDACTED",
		},
		// PEM blocks: one multi-line rule consumes the whole block before
		// the shorter generic patterns below can partially match inside it.
		{
			Name:        "pem_block",
			Pattern:     `-----BEGIN [A-Z0-9 ]+-----[\s\S]*?-----END [A-Z0-9 ]+-----`,
			Replacement: "[pem-block-redacted]",
		},

		// Generic long-base64 secret-looking tokens. Deliberately loose:
		// a 40-char hash that is not a secret will be redacted too.
		{
			Name:        "aws_secret_key",
			Pattern:     `\b[A-Za-z0-9/+=]{40}\b`,
			Replacement: "[aws-secret-redacted]",
		},

		// Three-segment JWT-shaped tokens.
		{
			Name:        "jwt",
			Pattern:     `\beyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\b`,
			Replacement: "[jwt-redacted]",
		},

		// Protocol-qualified database connection URIs.
		{
			Name:        "db_connection",
			Pattern:     `(?i)(postgresql|postgres|mysql|mongodb|redis)(\+srv)?://[^\s"']+`,
			Replacement: "[db-connection-redacted]",
		},

		// PII.
		{
			Name:        "email",
			Pattern:     `(?i)\b[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}\b`,
			Replacement: "[email-redacted]",
		},
		{
			Name:        "phone",
			Pattern:     `\b\+?\d[\d\s().-]{7,}\d\b`,
			Replacement: "[phone-redacted]",
		},
		{
			Name:        "ipv4",
			Pattern:     `\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`,
			Replacement: "[ip-redacted]",
		},
	}
}
