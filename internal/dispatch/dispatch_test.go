package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthwise-dev/wealthwise/internal/model"
)

type stubAgent struct {
	answer  model.Answer
	err     error
	prompts []string
}

func (s *stubAgent) Chat(_ context.Context, prompt string) (model.Answer, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.err
}

type memRecorder struct {
	questions, answers []string
	err                error
}

func (m *memRecorder) Record(q, a string) error {
	m.questions = append(m.questions, q)
	m.answers = append(m.answers, a)
	return m.err
}

func TestAsk_ExactPrompt(t *testing.T) {
	a := &stubAgent{answer: model.TextAnswer("ok")}
	var out bytes.Buffer
	d := New(a, "PREAMBLE", &out)

	_, err := d.Ask(context.Background(), "Q?")
	require.NoError(t, err)
	require.Len(t, a.prompts, 1)
	assert.Equal(t, "PREAMBLE \n Question: Q?", a.prompts[0])
}

func TestAsk_Transcript(t *testing.T) {
	a := &stubAgent{answer: model.NumberAnswer(decimal.RequireFromString("1450"))}
	var out bytes.Buffer
	d := New(a, "lens", &out)

	ans, err := d.Ask(context.Background(), "Calculate the total spending on 'Food & Dining'.")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1450").Equal(ans.Number))
	assert.Equal(t,
		"\nUser asks: Calculate the total spending on 'Food & Dining'.\nAI Answer: 1450.00\n",
		out.String())
}

func TestAsk_EmptyQuestion(t *testing.T) {
	a := &stubAgent{answer: model.TextAnswer("?")}
	d := New(a, "lens", io.Discard)

	_, err := d.Ask(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "lens \n Question: ", a.prompts[0])
}

func TestAsk_AgentErrorUnchanged(t *testing.T) {
	boom := errors.New("rate limited")
	a := &stubAgent{err: boom}
	var out bytes.Buffer
	rec := &memRecorder{}
	d := New(a, "lens", &out, WithRecorder(rec))

	_, err := d.Ask(context.Background(), "Q")
	assert.Same(t, boom, err)
	assert.Equal(t, "\nUser asks: Q\n", out.String())
	assert.Empty(t, rec.questions)
}

func TestAsk_NoCaching(t *testing.T) {
	a := &stubAgent{answer: model.TextAnswer("Yes")}
	d := New(a, "lens", io.Discard)

	for i := 0; i < 2; i++ {
		_, err := d.Ask(context.Background(), "same")
		require.NoError(t, err)
	}
	assert.Len(t, a.prompts, 2)
}

func TestAsk_Records(t *testing.T) {
	a := &stubAgent{answer: model.TextAnswer("Yes")}
	rec := &memRecorder{}
	d := New(a, "lens", io.Discard, WithRecorder(rec))

	_, err := d.Ask(context.Background(), "Rent?")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rent?"}, rec.questions)
	assert.Equal(t, []string{"Yes"}, rec.answers)
}

func TestAsk_RecorderFailureIsLogged(t *testing.T) {
	a := &stubAgent{answer: model.TextAnswer("Yes")}
	var logs bytes.Buffer
	rec := &memRecorder{err: errors.New("disk full")}
	d := New(a, "lens", io.Discard, WithRecorder(rec), WithLogger(log.New(&logs)))

	ans, err := d.Ask(context.Background(), "Rent?")
	require.NoError(t, err)
	assert.Equal(t, "Yes", ans.Text)
	assert.Contains(t, logs.String(), "disk full")
}

func TestRender(t *testing.T) {
	assert.Equal(t, "No", Render(model.TextAnswer("No")))
	assert.Equal(t, "170000.00", Render(model.NumberAnswer(decimal.RequireFromString("170000"))))

	n := model.NumberAnswer(decimal.RequireFromString("170000"))
	n.Text = "Total salary is 170000.00"
	assert.Equal(t, "Total salary is 170000.00", Render(n))

	tbl := model.Answer{Kind: model.AnswerTable, Table: &model.AnswerTableData{
		Headers: []string{"Category", "sum withdrawal"},
		Rows:    [][]string{{"Rent", "25000.00"}},
	}}
	out := Render(tbl)
	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "25000.00")

	tbl.Text = "Top spending"
	assert.Regexp(t, `^Top spending\n`, Render(tbl))
}
