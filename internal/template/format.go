// Package template implements the placeholder engine: grammar detection,
// token extraction, and value substitution for secret-bearing templates.
package template

import "regexp"

// Format identifies the placeholder grammar a template is written in.
// The set is closed; Detect, Extract, and ReplaceAll switch exhaustively
// over it so a new grammar cannot be added without the compiler flagging
// every dispatch site.
type Format int

const (
	// FormatNone means no placeholder grammar was detected.
	FormatNone Format = iota
	// FormatEnvBraced is ${NAME} or ${NAME:field}.
	FormatEnvBraced
	// FormatEnvSimple is $NAME.
	FormatEnvSimple
	// FormatGoStyle is {{ scheme://vault/NAME/field }}.
	FormatGoStyle
	// FormatCustom is %%NAME%% or %%NAME:field%%.
	FormatCustom
	// FormatDoubleBrace is {{NAME}} or {{NAME:field}}.
	FormatDoubleBrace
)

func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatEnvBraced:
		return "env-braced"
	case FormatEnvSimple:
		return "env-simple"
	case FormatGoStyle:
		return "go-style"
	case FormatCustom:
		return "custom"
	case FormatDoubleBrace:
		return "double-brace"
	default:
		return "unknown"
	}
}

var (
	envBracedPattern = regexp.MustCompile(`\$\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?::\s*([A-Za-z0-9_][A-Za-z0-9_ .-]*?)\s*)?\}`)
	envSimplePattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	goStylePattern   = regexp.MustCompile(`\{\{\s*[a-z][a-z0-9+.-]*://([^/\s}]+)/([^/\s}]+)(?:/([^/\s}]+))?\s*\}\}`)
	customPattern    = regexp.MustCompile(`%%\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?::\s*([A-Za-z0-9_][A-Za-z0-9_ .-]*?)\s*)?%%`)
	braceDblPattern  = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?::\s*([A-Za-z0-9_][A-Za-z0-9_ .-]*?)\s*)?\}\}`)
)

// Detect classifies template content into a placeholder grammar. Probes run
// in a fixed priority order and the first match wins, so content matching
// two grammars always resolves to the earlier probe. The double-brace probe
// runs only after the go-style probe failed, keeping
// "{{ scheme://vault/NAME/field }}" out of the plain {{NAME}} grammar.
// FormatNone is a valid answer, not an error.
func Detect(content string) Format {
	switch {
	case envBracedPattern.MatchString(content):
		return FormatEnvBraced
	case envSimplePattern.MatchString(content):
		return FormatEnvSimple
	case goStylePattern.MatchString(content):
		return FormatGoStyle
	case customPattern.MatchString(content):
		return FormatCustom
	case braceDblPattern.MatchString(content):
		return FormatDoubleBrace
	default:
		return FormatNone
	}
}
