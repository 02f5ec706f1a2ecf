package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		key      string
		contains string
		wantErr  string
	}{
		{"classification prompt", EvaluateFile, "classify-record.system", "Good, Decent or Bad", ""},
		{"extraction prompt", AnalysisFile, "extract-product.system", "", ""},
		{"unknown file", "nonexistent.json", "some-key", "", "unknown prompt file"},
		{"unknown key", EvaluateFile, "nonexistent-key", "", "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Get(tt.file, tt.key)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, text)
			assert.Contains(t, text, tt.contains)
		})
	}
}

func TestFill(t *testing.T) {
	out, err := fill("Hello {{.Name}}, welcome to {{.Company}}!", map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", out)
}

func TestFill_ReportsEveryMissingField(t *testing.T) {
	_, err := fill("{{.A}} and {{.B}}", map[string]string{})
	require.Error(t, err)
	assert.Equal(t, "no value for {{.A}}, {{.B}}", err.Error())
}

func TestRender(t *testing.T) {
	msg, err := Render(RecommendFile, "compare-products", map[string]string{
		"Company":               "Acme",
		"Product":               "Widget",
		"SustainabilityEfforts": "Solar powered plants",
	})
	require.NoError(t, err)

	assert.Contains(t, msg.System, "sustainability advisor")
	assert.Equal(t, "Company: Acme\nProduct: Widget\nSustainability Effort: Solar powered plants", msg.User)
}

func TestRender_VerbatimInput(t *testing.T) {
	// Stage chaining passes the previous output through untouched.
	input := "Acme Corp {{.Other}}\n"
	msg, err := Render(EvaluateFile, "research-company", map[string]string{"Input": input})
	require.NoError(t, err)
	assert.Equal(t, input, msg.User)
}

func TestRender_MissingValue(t *testing.T) {
	_, err := Render(AnalysisFile, "analyze-product", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{{.Product}}")
}

func TestRender_UnknownKey(t *testing.T) {
	_, err := Render(AnalysisFile, "nope", nil)
	assert.Error(t, err)
}

func TestAllPromptsHaveSystemAndUser(t *testing.T) {
	for _, file := range []string{EvaluateFile, AnalysisFile, RecommendFile} {
		keys, err := Keys(file)
		require.NoError(t, err)
		require.NotEmpty(t, keys)

		for _, key := range keys {
			base, ok := strings.CutSuffix(key, ".system")
			if !ok {
				continue
			}
			assert.Contains(t, keys, base+".user", "%s: %s has no user template", file, base)
		}
	}
}
