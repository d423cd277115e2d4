package template

import (
	"fmt"
	"regexp"
	"strings"
)

// UnsupportedFormatError signals an engine bug: a Format value reached the
// extractor or replacer that the switch does not cover. It is always fatal.
type UnsupportedFormatError struct {
	Format Format
}

func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported template format: %s (%d)", e.Format, int(e.Format))
}

// Extract returns the set of tokens embedded in content under the given
// grammar. Duplicate placeholders collapse to one token; order follows
// first appearance so output is deterministic. An empty result is valid.
// Extraction is read-only and idempotent: it never modifies content and
// repeated calls return the same set.
func Extract(content string, format Format) ([]Token, error) {
	switch format {
	case FormatNone:
		return nil, nil
	case FormatEnvBraced:
		return extractPairs(content, envBracedPattern), nil
	case FormatEnvSimple:
		return extractPairs(content, envSimplePattern), nil
	case FormatGoStyle:
		return extractGoStyle(content), nil
	case FormatCustom:
		return extractPairs(content, customPattern), nil
	case FormatDoubleBrace:
		return extractPairs(content, braceDblPattern), nil
	default:
		return nil, UnsupportedFormatError{Format: format}
	}
}

// extractPairs handles the grammars whose pattern captures an identifier
// and an optional field group.
func extractPairs(content string, pattern *regexp.Regexp) []Token {
	var tokens []Token
	seen := make(map[Token]struct{})

	for _, m := range pattern.FindAllStringSubmatch(content, -1) {
		tok := Token{Name: strings.TrimSpace(m[1])}
		if len(m) > 2 {
			tok.Field = strings.TrimSpace(m[2])
		}
		if tok.Name == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// extractGoStyle parses {{ scheme://vault/NAME/field }} placeholders. The
// scheme is accepted but not retained; vault and field qualify the token.
func extractGoStyle(content string) []Token {
	var tokens []Token
	seen := make(map[Token]struct{})

	for _, m := range goStylePattern.FindAllStringSubmatch(content, -1) {
		tok := Token{
			Vault: strings.TrimSpace(m[1]),
			Name:  strings.TrimSpace(m[2]),
			Field: strings.TrimSpace(m[3]),
		}
		if tok.Name == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}
