package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan(`{"operation":"sum","measure":"deposit","filters":{"description_contains":["salary"]},"reply":"Total salary: {value}"}`)
	require.NoError(t, err)
	assert.Equal(t, OpSum, p.Operation)
	assert.Equal(t, MeasureDeposit, p.Measure)
	assert.Equal(t, []string{"salary"}, p.Filters.DescriptionContains)
	assert.Equal(t, "Total salary: {value}", p.Reply)
}

func TestParsePlan_CodeFence(t *testing.T) {
	p, err := ParsePlan("```json\n{\"operation\":\"exists\",\"filters\":{\"categories\":[\"Rent\"]}}\n```")
	require.NoError(t, err)
	assert.Equal(t, OpExists, p.Operation)
	assert.Equal(t, []string{"Rent"}, p.Filters.Categories)
}

func TestParsePlan_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not json":          `the answer is 42`,
		"missing operation": `{"measure":"deposit"}`,
		"unknown operation": `{"operation":"median","measure":"deposit"}`,
		"unknown measure":   `{"operation":"sum","measure":"balance"}`,
		"extra field":       `{"operation":"count","code":"df.sum()"}`,
		"bad date":          `{"operation":"count","filters":{"from":"15-01-2024"}}`,
		"negative limit":    `{"operation":"list","limit":-1}`,
	}
	for name, doc := range cases {
		_, err := ParsePlan(doc)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrInvalidPlan, name)
	}
}

func TestParsePlan_SemanticViolations(t *testing.T) {
	cases := map[string]string{
		"sum without measure":  `{"operation":"sum"}`,
		"answer without reply": `{"operation":"answer"}`,
		"group list":           `{"operation":"list","group_by":"category"}`,
		"inverted range":       `{"operation":"count","filters":{"from":"2024-02-01","to":"2024-01-01"}}`,
		"impossible date":      `{"operation":"count","filters":{"to":"2024-02-31"}}`,
	}
	for name, doc := range cases {
		_, err := ParsePlan(doc)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrInvalidPlan, name)
	}
}

func TestSchemaCompiles(t *testing.T) {
	assert.NotNil(t, compiledSchema)
}
