package parsing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/scoring"
	"github.com/jonathan/sustainability-evaluator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reply(text string) *llm.ModelReply {
	return &llm.ModelReply{RawText: text}
}

func claim(n int) string {
	return fmt.Sprintf(`"text": "claim %d", "citationUrl": "https://src.example/%d", "citationNumber": %d`, n, n, n)
}

func criticisms() string {
	parts := make([]string, 0, len(scoring.Dimensions))
	for i, d := range scoring.Dimensions {
		parts = append(parts, fmt.Sprintf(`{"dimension": %q, %s}`, d, claim(i+1)))
	}
	return strings.Join(parts, ",")
}

func alternatives(n int) string {
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, fmt.Sprintf(`{"productName": "Alt %d", "purchaseUrl": "https://shop.example/%d", %s}`, i, i, claim(10+i)))
	}
	return strings.Join(parts, ",")
}

func assessmentJSON(criticism, alts, scores, recs string) string {
	return fmt.Sprintf(`{"sustainabilityCriticism": [%s], "alternativeProducts": [%s], "dimensionScores": %s, "recommendations": [%s]}`,
		criticism, alts, scores, recs)
}

const validScores = `{"materialsAndSourcing": 2, "productionAndManufacturing": 4, "distributionAndLogistics": 6, "productUse": 8, "endOfLifeManagement": 10}`

func TestParseAssessment(t *testing.T) {
	text := "```json\n" + assessmentJSON(criticisms(), alternatives(2), validScores, "{"+claim(20)+"},") + "\n```"

	a, err := ParseAssessment(reply(text))
	require.NoError(t, err)

	require.Len(t, a.Criticisms, 5)
	assert.Equal(t, scoring.MaterialsAndSourcing, a.Criticisms[0].Dimension)
	assert.Equal(t, "https://src.example/1", a.Criticisms[0].CitationURL)
	assert.Equal(t, 1, a.Criticisms[0].CitationNumber)

	require.Len(t, a.Alternatives, 2)
	assert.Equal(t, "Alt 1", a.Alternatives[0].ProductName)
	assert.Equal(t, "https://shop.example/1", a.Alternatives[0].PurchaseURL)

	assert.Equal(t, 8.0, a.DimensionScores[scoring.ProductUse])
	require.Len(t, a.Recommendations, 1)
	assert.Equal(t, 20, a.Recommendations[0].CitationNumber)
	assert.Zero(t, a.OverallScore)
}

func TestParseAssessment_TruncatesAlternatives(t *testing.T) {
	text := assessmentJSON(criticisms(), alternatives(5), validScores, "{"+claim(20)+"}")

	a, err := ParseAssessment(reply(text))
	require.NoError(t, err)

	require.Len(t, a.Alternatives, 3)
	for i, alt := range a.Alternatives {
		assert.Equal(t, fmt.Sprintf("Alt %d", i+1), alt.ProductName)
	}
}

func TestParseAssessment_IgnoresInvalidAlternativesPastLimit(t *testing.T) {
	alts := alternatives(3) + `, {"productName": "Broken"}`
	text := assessmentJSON(criticisms(), alts, validScores, "{"+claim(20)+"}")

	a, err := ParseAssessment(reply(text))
	require.NoError(t, err)
	assert.Len(t, a.Alternatives, 3)
}

func TestParseAssessment_MissingField(t *testing.T) {
	noNumber := `{"dimension": "materialsAndSourcing", "text": "x", "citationUrl": "https://a.example"}`
	noURL := `{"dimension": "materialsAndSourcing", "text": "x", "citationNumber": 1}`

	tests := []struct {
		name      string
		text      string
		wantField string
	}{
		{
			name:      "citation number missing",
			text:      assessmentJSON(noNumber, alternatives(1), validScores, "{"+claim(9)+"}"),
			wantField: "sustainabilityCriticism[0].citationNumber",
		},
		{
			name:      "citation url reported before number",
			text:      assessmentJSON(`{"dimension": "productUse", "text": "x"}`, alternatives(1), validScores, "{"+claim(9)+"}"),
			wantField: "sustainabilityCriticism[0].citationUrl",
		},
		{
			name:      "second criticism",
			text:      assessmentJSON(criticisms()+","+noURL, alternatives(1), validScores, "{"+claim(9)+"}"),
			wantField: "sustainabilityCriticism[5].citationUrl",
		},
		{
			name:      "criticisms before alternatives",
			text:      assessmentJSON(noNumber, "", validScores, ""),
			wantField: "sustainabilityCriticism[0].citationNumber",
		},
		{
			name:      "empty alternatives",
			text:      assessmentJSON(criticisms(), "", validScores, "{"+claim(9)+"}"),
			wantField: "alternativeProducts",
		},
		{
			name:      "dimension score missing",
			text:      assessmentJSON(criticisms(), alternatives(1), `{"materialsAndSourcing": 2}`, "{"+claim(9)+"}"),
			wantField: "dimensionScores.productionAndManufacturing",
		},
		{
			name:      "empty recommendations",
			text:      assessmentJSON(criticisms(), alternatives(1), validScores, ""),
			wantField: "recommendations",
		},
		{
			name:      "dimension without criticism",
			text:      assessmentJSON(fmt.Sprintf(`{"dimension": "productUse", %s}`, claim(1)), alternatives(1), validScores, "{"+claim(9)+"}"),
			wantField: "sustainabilityCriticism[dimension=materialsAndSourcing]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Same input, same error, every time.
			for i := 0; i < 3; i++ {
				_, err := ParseAssessment(reply(tt.text))
				var violation *SchemaViolationError
				require.ErrorAs(t, err, &violation)
				assert.Equal(t, []string{tt.wantField}, violation.MissingFields)
				assert.Equal(t, tt.wantField, violation.Field())
			}
		})
	}
}

func TestParseAssessment_ScoreOutOfRange(t *testing.T) {
	scores := `{"materialsAndSourcing": 0, "productionAndManufacturing": 4, "distributionAndLogistics": 6, "productUse": 11, "endOfLifeManagement": 10}`
	text := assessmentJSON(criticisms(), alternatives(1), scores, "{"+claim(9)+"}")

	_, err := ParseAssessment(reply(text))
	var violation *SchemaViolationError
	require.ErrorAs(t, err, &violation)
	assert.Empty(t, violation.MissingFields)
	require.Len(t, violation.Invalid, 2)
	assert.Equal(t, "dimensionScores.materialsAndSourcing", violation.Invalid[0].Field)
	assert.Equal(t, "dimensionScores.productUse", violation.Invalid[1].Field)
	assert.Contains(t, err.Error(), "(and 1 more)")
}

func TestParseAssessment_UnknownDimension(t *testing.T) {
	scores := `{"materialsAndSourcing": 2, "productionAndManufacturing": 4, "distributionAndLogistics": 6, "productUse": 8, "endOfLifeManagement": 10, "overall": 6}`
	text := assessmentJSON(criticisms(), alternatives(1), scores, "{"+claim(9)+"}")

	got, err := ParseAssessment(reply(text))
	assert.Nil(t, got)
	var violation *SchemaViolationError
	require.ErrorAs(t, err, &violation)
	require.Len(t, violation.Invalid, 1)
	assert.Equal(t, "dimensionScores", violation.Field())
	assert.Contains(t, violation.Invalid[0].Message, "overall")
}

func TestParseAssessment_Malformed(t *testing.T) {
	_, err := ParseAssessment(reply("Sorry, I cannot help with that."))
	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)

	_, err = ParseAssessment(nil)
	assert.ErrorAs(t, err, &malformed)
}

func TestParseProductInfo(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.ProductInfo
	}{
		{
			name: "full",
			text: "```json\n{\"product_name\": \"Tee\", \"product_description\": \"Cotton tee\", \"key_features\": [\"organic\",]}\n```",
			want: types.ProductInfo{Name: "Tee", Description: "Cotton tee", KeyFeatures: []string{"organic"}},
		},
		{
			name: "no product data",
			text: `{"product_name": "", "product_description": "", "key_features": []}`,
			want: types.ProductInfo{KeyFeatures: []string{}},
		},
		{
			name: "features omitted",
			text: `{"product_name": "Tee"}`,
			want: types.ProductInfo{Name: "Tee", KeyFeatures: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProductInfo(reply(tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseProductInfo_Violations(t *testing.T) {
	_, err := ParseProductInfo(reply(`{"product_description": "x"}`))
	var violation *SchemaViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "product_name", violation.Field())

	_, err = ParseProductInfo(reply(`{"product_name": "Tee", "key_features": "organic"}`))
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "key_features", violation.Field())
}

func TestParseStoreRecommendations(t *testing.T) {
	store := func(i int) string {
		return fmt.Sprintf(`{"storeName": "Store %d", "sustainabilityScore": %d, "reasons": ["r"], "productPrice": "$20-$30", "sustainabilityInitiatives": ["i"], "productLink": "https://store%d.example"}`, i, i+5, i)
	}
	text := fmt.Sprintf(`{"productName": "tee", "storeRecommendations": [%s, %s, %s, %s], "sustainabilityTips": ["wash cold"]}`,
		store(1), store(2), store(3), store(4))

	recs, err := ParseStoreRecommendations(reply(text))
	require.NoError(t, err)
	assert.Equal(t, "tee", recs.ProductName)
	require.Len(t, recs.StoreRecommendations, 3)
	assert.Equal(t, "Store 3", recs.StoreRecommendations[2].StoreName)
	assert.Equal(t, 6.0, recs.StoreRecommendations[0].SustainabilityScore)
	assert.Equal(t, []string{"wash cold"}, recs.SustainabilityTips)

	_, err = ParseStoreRecommendations(reply(`{"productName": "tee", "storeRecommendations": [{"storeName": "A"}], "sustainabilityTips": []}`))
	var violation *SchemaViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "storeRecommendations[0].sustainabilityScore", violation.Field())
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		input   string
		want    types.Rating
		wantErr bool
	}{
		{input: "Good", want: types.RatingGood},
		{input: " decent\n", want: types.RatingDecent},
		{input: "**Bad**", want: types.RatingBad},
		{input: `"Good".`, want: types.RatingGood},
		{input: "Rating: Decent", want: types.RatingDecent},
		{input: "", wantErr: true},
		{input: "Excellent", wantErr: true},
		{input: "Good or Bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRating(tt.input)
			if tt.wantErr {
				var malformed *MalformedResponseError
				assert.ErrorAs(t, err, &malformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
