package query

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthwise-dev/wealthwise/internal/categories"
	"github.com/wealthwise-dev/wealthwise/internal/importer"
	"github.com/wealthwise-dev/wealthwise/internal/model"
)

func loadFixture(t *testing.T) *model.Table {
	t.Helper()
	table, err := importer.NewLoader().Load("../../testdata/statement.csv")
	require.NoError(t, err)
	return table
}

func run(t *testing.T, doc string) model.Answer {
	t.Helper()
	p, err := ParsePlan(doc)
	require.NoError(t, err)
	a, err := Execute(p, loadFixture(t), categories.NewService(categories.DefaultRules()))
	require.NoError(t, err)
	return a
}

func TestExecute_TotalSalary(t *testing.T) {
	a := run(t, `{"operation":"sum","measure":"deposit","filters":{"description_contains":["salary"]},"reply":"Total salary credited: {value}"}`)
	assert.Equal(t, model.AnswerNumber, a.Kind)
	assert.Equal(t, "170000.00", a.Number.StringFixed(2))
	assert.Equal(t, "Total salary credited: 170000.00", a.Text)
}

func TestExecute_FoodSpending(t *testing.T) {
	a := run(t, `{"operation":"sum","measure":"withdrawal","filters":{"categories":["food & dining"]}}`)
	assert.Equal(t, "1450.00", a.Number.StringFixed(2))
	assert.Empty(t, a.Text)
}

func TestExecute_Exists(t *testing.T) {
	a := run(t, `{"operation":"exists","filters":{"description_contains":["rent","landlord"]}}`)
	assert.Equal(t, model.AnswerText, a.Kind)
	assert.Equal(t, "Yes", a.Text)

	a = run(t, `{"operation":"exists","filters":{"description_contains":["netflix"]}}`)
	assert.Equal(t, "No", a.Text)
}

func TestExecute_CountWithDateRange(t *testing.T) {
	a := run(t, `{"operation":"count","filters":{"from":"2024-01-10","to":"2024-01-20"}}`)
	assert.Equal(t, model.AnswerNumber, a.Kind)
	assert.Equal(t, "4", a.Number.String())
}

func TestExecute_CountSkipsBlankMeasure(t *testing.T) {
	a := run(t, `{"operation":"count","measure":"deposit"}`)
	assert.Equal(t, "2", a.Number.String())
}

func TestExecute_AvgMinMax(t *testing.T) {
	assert.Equal(t, "483.33", run(t, `{"operation":"avg","measure":"withdrawal","filters":{"categories":["Food & Dining"]}}`).Number.StringFixed(2))
	assert.Equal(t, "320.50", run(t, `{"operation":"min","measure":"withdrawal"}`).Number.StringFixed(2))
	assert.Equal(t, "25000.00", run(t, `{"operation":"max","measure":"withdrawal"}`).Number.StringFixed(2))
}

func TestExecute_AvgNoRows(t *testing.T) {
	a := run(t, `{"operation":"avg","measure":"withdrawal","filters":{"description_contains":["netflix"]}}`)
	assert.Equal(t, model.AnswerText, a.Kind)
	assert.Equal(t, NoMatches, a.Text)
}

func TestExecute_SumNoRowsIsZero(t *testing.T) {
	a := run(t, `{"operation":"sum","measure":"withdrawal","filters":{"categories":["Nope"]}}`)
	assert.Equal(t, model.AnswerNumber, a.Kind)
	assert.True(t, a.Number.IsZero())
}

func TestExecute_GroupByCategory(t *testing.T) {
	a := run(t, `{"operation":"sum","measure":"withdrawal","group_by":"category","limit":2}`)
	require.Equal(t, model.AnswerTable, a.Kind)
	assert.Equal(t, []string{"Category", "sum withdrawal", "transactions"}, a.Table.Headers)
	require.Len(t, a.Table.Rows, 2)
	assert.Equal(t, []string{"Rent", "25000.00", "1"}, a.Table.Rows[0])
	assert.Equal(t, []string{"Debt Payments", "12000.00", "1"}, a.Table.Rows[1])
}

func TestExecute_GroupByMonth(t *testing.T) {
	a := run(t, `{"operation":"count","group_by":"month"}`)
	require.Equal(t, model.AnswerTable, a.Kind)
	require.Len(t, a.Table.Rows, 2)
	assert.Equal(t, []string{"2024-01", "8", "8"}, a.Table.Rows[0])
	assert.Equal(t, []string{"2024-02", "2", "2"}, a.Table.Rows[1])
}

func TestExecute_List(t *testing.T) {
	a := run(t, `{"operation":"list","filters":{"categories":["Food & Dining"]},"sort":"value_desc","limit":2}`)
	require.Equal(t, model.AnswerTable, a.Kind)
	assert.Equal(t, []string{"Date", "Description", "Withdrawal", "Deposit", "Category"}, a.Table.Headers)
	require.Len(t, a.Table.Rows, 2)
	assert.Equal(t, []string{"04-02-2024", "Zomato Order 88", "620.00", "", "Food & Dining"}, a.Table.Rows[0])
	assert.Equal(t, "Swiggy Order 1234", a.Table.Rows[1][1])
}

func TestExecute_ListDefaultsToDateOrder(t *testing.T) {
	a := run(t, `{"operation":"list","filters":{"description_contains":["salary"]}}`)
	require.Len(t, a.Table.Rows, 2)
	assert.Equal(t, "01-01-2024", a.Table.Rows[0][0])
	assert.Equal(t, "01-02-2024", a.Table.Rows[1][0])
}

func TestExecute_Answer(t *testing.T) {
	a := run(t, `{"operation":"answer","reply":"I can only answer questions about this statement."}`)
	assert.Equal(t, model.TextAnswer("I can only answer questions about this statement."), a)
}

func TestExecute_RevalidatesPlan(t *testing.T) {
	_, err := Execute(Plan{Operation: OpSum}, loadFixture(t), categories.NewService(nil))
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestExecute_CategoryFilterIgnoresWordFragments(t *testing.T) {
	table := &model.Table{
		Columns: []string{model.ColDate, model.ColDescription, model.ColWithdrawal, model.ColDeposit},
		Rows: []model.Row{{
			Date:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Description: "Torrent Power Bill",
			Withdrawal:  decimal.NewNullDecimal(decimal.RequireFromString("1800")),
		}},
	}
	p, err := ParsePlan(`{"operation":"exists","filters":{"categories":["Rent"]}}`)
	require.NoError(t, err)

	a, err := Execute(p, table, categories.NewService(categories.DefaultRules()))
	require.NoError(t, err)
	assert.Equal(t, "No", a.Text)
}
