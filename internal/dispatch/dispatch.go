// Package dispatch forwards questions to an agent with the categorization
// lens prepended and prints a transcript of each exchange.
package dispatch

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/wealthwise-dev/wealthwise/internal/agent"
	"github.com/wealthwise-dev/wealthwise/internal/model"
)

// Separator joins the lens and the question.
const Separator = " \n Question: "

// Recorder stores answered questions.
type Recorder interface {
	Record(question, answer string) error
}

// Dispatcher submits questions to an agent. It keeps no state of its own;
// any memory lives in the agent.
type Dispatcher struct {
	agent    agent.Agent
	lens     string
	out      io.Writer
	recorder Recorder
	logger   *log.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder records every answered question.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithLogger sets the logger for recorder failures.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New creates a Dispatcher writing its transcript to out.
func New(a agent.Agent, lens string, out io.Writer, opts ...Option) *Dispatcher {
	d := &Dispatcher{agent: a, lens: lens, out: out, logger: log.Default()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Prompt is the exact text submitted to the agent for question.
func (d *Dispatcher) Prompt(question string) string {
	return d.lens + Separator + question
}

// Ask prints the question, submits it to the agent, prints and returns the
// answer. Agent errors are returned as is.
func (d *Dispatcher) Ask(ctx context.Context, question string) (model.Answer, error) {
	fmt.Fprintf(d.out, "\nUser asks: %s\n", question)

	ans, err := d.agent.Chat(ctx, d.Prompt(question))
	if err != nil {
		return model.Answer{}, err
	}

	text := Render(ans)
	fmt.Fprintf(d.out, "AI Answer: %s\n", text)

	if d.recorder != nil {
		if err := d.recorder.Record(question, text); err != nil {
			d.logger.Warn("recording query", "err", err)
		}
	}
	return ans, nil
}
