package template

// Token is a single placeholder reference: an identifier plus optional
// field and vault qualifiers. Tokens are value types and comparable, so a
// map[Token]string serves as a resolution set. Two placeholders that spell
// the same identifier/field/vault are the same token regardless of
// whitespace or how often they occur.
type Token struct {
	Name  string
	Field string
	Vault string
}

// String renders the token for diagnostics: NAME, NAME:field, or
// vault/NAME/field for vault-qualified references. Never includes values.
func (t Token) String() string {
	s := t.Name
	if t.Field != "" {
		s += ":" + t.Field
	}
	if t.Vault != "" {
		s = t.Vault + "/" + s
	}
	return s
}
