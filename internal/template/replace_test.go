package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getseam/seam/internal/template"
)

func TestReplace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		token   template.Token
		value   string
		format  template.Format
		want    string
	}{
		{
			name:    "env braced single occurrence",
			content: "export TOKEN=${API_KEY}\n",
			token:   template.Token{Name: "API_KEY"},
			value:   "abc123",
			format:  template.FormatEnvBraced,
			want:    "export TOKEN=abc123\n",
		},
		{
			name:    "env braced all occurrences",
			content: "a=${DB_PW}\nb=${DB_PW}\n",
			token:   template.Token{Name: "DB_PW"},
			value:   "hunter2",
			format:  template.FormatEnvBraced,
			want:    "a=hunter2\nb=hunter2\n",
		},
		{
			name:    "unrelated token untouched",
			content: "a=${DB_PW}\nb=${OTHER}\n",
			token:   template.Token{Name: "DB_PW"},
			value:   "hunter2",
			format:  template.FormatEnvBraced,
			want:    "a=hunter2\nb=${OTHER}\n",
		},
		{
			name:    "env simple does not bite into longer identifier",
			content: "a=$DB\nb=$DB_PW\n",
			token:   template.Token{Name: "DB"},
			value:   "short",
			format:  template.FormatEnvSimple,
			want:    "a=short\nb=$DB_PW\n",
		},
		{
			name:    "go style with flexible whitespace",
			content: "t1: {{ secretref://Employee/GITHUB_TOKEN/credential }}\nt2: {{secretref://Employee/GITHUB_TOKEN/credential}}\n",
			token:   template.Token{Name: "GITHUB_TOKEN", Field: "credential", Vault: "Employee"},
			value:   "ghp_xyz",
			format:  template.FormatGoStyle,
			want:    "t1: ghp_xyz\nt2: ghp_xyz\n",
		},
		{
			name:    "go style different vault untouched",
			content: "a: {{ op://Work/KEY/password }}\nb: {{ op://Home/KEY/password }}\n",
			token:   template.Token{Name: "KEY", Field: "password", Vault: "Work"},
			value:   "v",
			format:  template.FormatGoStyle,
			want:    "a: v\nb: {{ op://Home/KEY/password }}\n",
		},
		{
			name:    "custom format",
			content: "key=%%API_KEY%%\n",
			token:   template.Token{Name: "API_KEY"},
			value:   "k",
			format:  template.FormatCustom,
			want:    "key=k\n",
		},
		{
			name:    "double brace",
			content: "token: {{ GITHUB_TOKEN }}\n",
			token:   template.Token{Name: "GITHUB_TOKEN"},
			value:   "ghp_abc",
			format:  template.FormatDoubleBrace,
			want:    "token: ghp_abc\n",
		},
		{
			name:    "field qualified token only matches its own field",
			content: "u=${DB:username}\np=${DB:password}\n",
			token:   template.Token{Name: "DB", Field: "password"},
			value:   "hunter2",
			format:  template.FormatEnvBraced,
			want:    "u=${DB:username}\np=hunter2\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := template.Replace(tt.content, tt.token, tt.value, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceAllSinglePass(t *testing.T) {
	t.Parallel()

	// A resolved value that happens to contain placeholder syntax must come
	// through literally, never expanded again.
	values := map[template.Token]string{
		{Name: "A"}: "${B}",
		{Name: "B"}: "real-b",
	}

	got, err := template.ReplaceAll("x=${A}\ny=${B}\n", values, template.FormatEnvBraced)
	require.NoError(t, err)
	assert.Equal(t, "x=${B}\ny=real-b\n", got)
}

func TestReplaceAllLeavesUnknownTokens(t *testing.T) {
	t.Parallel()

	values := map[template.Token]string{{Name: "KNOWN"}: "v"}

	got, err := template.ReplaceAll("a=${KNOWN}\nb=${MISSING}\n", values, template.FormatEnvBraced)
	require.NoError(t, err)
	assert.Equal(t, "a=v\nb=${MISSING}\n", got)
}

func TestReplaceAllUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := template.ReplaceAll("x", nil, template.Format(42))
	var unsupported template.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
}

func TestProcessedOutputDetectsAsNone(t *testing.T) {
	t.Parallel()

	content := "export TOKEN=${API_KEY}\nexport PW=${DB_PW}\n"
	values := map[template.Token]string{
		{Name: "API_KEY"}: "abc123",
		{Name: "DB_PW"}:   "hunter2",
	}

	got, err := template.ReplaceAll(content, values, template.FormatEnvBraced)
	require.NoError(t, err)
	assert.Equal(t, template.FormatNone, template.Detect(got))
}
