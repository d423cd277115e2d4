package template

import (
	"regexp"
	"strings"
)

// ReplaceAll substitutes resolved values for every placeholder in content in
// a single pass over the original text. Placeholders whose token is absent
// from values are left untouched, which is what the allow-missing policy
// needs. Substitution is purely textual: inserted values are never rescanned
// for placeholders, so a secret that happens to contain placeholder syntax
// cannot inject further expansion.
func ReplaceAll(content string, values map[Token]string, format Format) (string, error) {
	switch format {
	case FormatNone:
		return content, nil
	case FormatEnvBraced:
		return replacePairs(content, values, envBracedPattern), nil
	case FormatEnvSimple:
		return replaceEnvSimple(content, values), nil
	case FormatGoStyle:
		return replaceGoStyle(content, values), nil
	case FormatCustom:
		return replacePairs(content, values, customPattern), nil
	case FormatDoubleBrace:
		return replacePairs(content, values, braceDblPattern), nil
	default:
		return "", UnsupportedFormatError{Format: format}
	}
}

// Replace substitutes a single token's value across all of its occurrences.
// Occurrences of any other token, including ones sharing a name substring,
// are untouched.
func Replace(content string, tok Token, value string, format Format) (string, error) {
	return ReplaceAll(content, map[Token]string{tok: value}, format)
}

func replacePairs(content string, values map[Token]string, pattern *regexp.Regexp) string {
	return pattern.ReplaceAllStringFunc(content, func(match string) string {
		m := pattern.FindStringSubmatch(match)
		tok := Token{Name: strings.TrimSpace(m[1])}
		if len(m) > 2 {
			tok.Field = strings.TrimSpace(m[2])
		}
		if v, ok := values[tok]; ok {
			return v
		}
		return match
	})
}

// replaceEnvSimple handles $NAME. The scan pattern consumes the longest
// identifier run, so a value for $DB can never bite into $DB_PW.
func replaceEnvSimple(content string, values map[Token]string) string {
	return envSimplePattern.ReplaceAllStringFunc(content, func(match string) string {
		tok := Token{Name: match[1:]}
		if v, ok := values[tok]; ok {
			return v
		}
		return match
	})
}

func replaceGoStyle(content string, values map[Token]string) string {
	return goStylePattern.ReplaceAllStringFunc(content, func(match string) string {
		m := goStylePattern.FindStringSubmatch(match)
		tok := Token{Vault: m[1], Name: m[2], Field: m[3]}
		if v, ok := values[tok]; ok {
			return v
		}
		return match
	})
}
