// Package agent answers natural-language prompts about a statement table.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/wealthwise-dev/wealthwise/internal/llm"
	"github.com/wealthwise-dev/wealthwise/internal/model"
	"github.com/wealthwise-dev/wealthwise/internal/query"
)

// Agent turns a prompt into an answer.
type Agent interface {
	Chat(ctx context.Context, prompt string) (model.Answer, error)
}

// Dataframe is an Agent bound to one in-memory table. The model translates
// each prompt into a query.Plan which is executed locally. It remembers
// recent exchanges, so answers can depend on earlier prompts.
type Dataframe struct {
	table      *model.Table
	client     llm.Client
	cat        query.Categorizer
	logger     *log.Logger
	sampleRows int
	memorySize int
	maxRetries int

	system string
	memory []llm.Message
}

// Option configures a Dataframe.
type Option func(*Dataframe)

// WithLogger sets the logger used for plan diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(d *Dataframe) { d.logger = l }
}

// WithSampleRows sets how many leading rows the model is shown.
func WithSampleRows(n int) Option {
	return func(d *Dataframe) { d.sampleRows = n }
}

// WithMemory sets how many past exchanges are replayed to the model.
func WithMemory(n int) Option {
	return func(d *Dataframe) { d.memorySize = n }
}

// WithMaxRetries sets how many times an unusable plan is sent back to the
// model for correction.
func WithMaxRetries(n int) Option {
	return func(d *Dataframe) { d.maxRetries = n }
}

// NewDataframe creates an agent over table.
func NewDataframe(table *model.Table, client llm.Client, cat query.Categorizer, opts ...Option) *Dataframe {
	d := &Dataframe{
		table:      table,
		client:     client,
		cat:        cat,
		logger:     log.New(io.Discard),
		sampleRows: 5,
		memorySize: 4,
		maxRetries: 2,
	}
	for _, o := range opts {
		o(d)
	}
	d.system = SystemPrompt(table, d.sampleRows)
	return d
}

// Chat sends prompt to the model, executes the returned plan and returns
// its answer.
func (d *Dataframe) Chat(ctx context.Context, prompt string) (model.Answer, error) {
	msgs := make([]llm.Message, 0, len(d.memory)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: d.system})
	msgs = append(msgs, d.memory...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: prompt})

	for attempt := 0; ; attempt++ {
		reply, err := d.client.Complete(ctx, msgs)
		if err != nil {
			return model.Answer{}, err
		}
		d.logger.Debug("model reply", "attempt", attempt+1, "reply", reply)

		plan, err := query.ParsePlan(reply)
		if err == nil {
			var ans model.Answer
			ans, err = query.Execute(plan, d.table, d.cat)
			if err == nil {
				d.logger.Debug("executed plan",
					"operation", plan.Operation, "measure", plan.Measure, "group_by", plan.GroupBy, "kind", ans.Kind)
				d.remember(prompt, reply)
				return ans, nil
			}
		}

		if !errors.Is(err, query.ErrInvalidPlan) || attempt >= d.maxRetries {
			return model.Answer{}, fmt.Errorf("agent could not answer: %w", err)
		}
		d.logger.Warn("plan rejected, asking for a correction", "attempt", attempt+1, "err", err)
		msgs = append(msgs,
			llm.Message{Role: llm.RoleAssistant, Content: reply},
			llm.Message{Role: llm.RoleUser, Content: correctionPrompt(err)},
		)
	}
}

// Reset forgets all remembered exchanges.
func (d *Dataframe) Reset() {
	d.memory = nil
}

func (d *Dataframe) remember(prompt, reply string) {
	if d.memorySize <= 0 {
		return
	}
	d.memory = append(d.memory,
		llm.Message{Role: llm.RoleUser, Content: prompt},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	if over := len(d.memory) - 2*d.memorySize; over > 0 {
		d.memory = append([]llm.Message(nil), d.memory[over:]...)
	}
}

func correctionPrompt(err error) string {
	return "Your previous reply could not be used: " + err.Error() +
		"\nReply again with one JSON object that satisfies the plan schema."
}
