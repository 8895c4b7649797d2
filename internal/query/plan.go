// Package query executes constrained analysis plans over a statement table.
//
// The language model never sees or runs code. It produces a Plan, a small
// JSON document naming one aggregation over typed columns, and the engine
// computes the answer locally and deterministically.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// Operation is the aggregation a plan performs.
type Operation string

const (
	OpSum    Operation = "sum"
	OpAvg    Operation = "avg"
	OpMin    Operation = "min"
	OpMax    Operation = "max"
	OpCount  Operation = "count"
	OpList   Operation = "list"
	OpExists Operation = "exists"
	OpAnswer Operation = "answer" // reply is the whole answer
)

// Measure names a numeric column.
type Measure string

const (
	MeasureWithdrawal Measure = "withdrawal"
	MeasureDeposit    Measure = "deposit"
)

// GroupBy names a grouping key.
type GroupBy string

const (
	GroupCategory    GroupBy = "category"
	GroupMonth       GroupBy = "month"
	GroupDescription GroupBy = "description"
)

// Sort orders.
const (
	SortValueDesc = "value_desc"
	SortValueAsc  = "value_asc"
	SortDateAsc   = "date_asc"
	SortDateDesc  = "date_desc"
)

// ISODate is the layout plans use for date bounds.
const ISODate = "2006-01-02"

// Plan is one constrained query.
type Plan struct {
	Operation Operation `json:"operation"`
	Measure   Measure   `json:"measure,omitempty"`
	Filters   Filters   `json:"filters,omitempty"`
	GroupBy   GroupBy   `json:"group_by,omitempty"`
	Sort      string    `json:"sort,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Reply     string    `json:"reply,omitempty"` // "{value}" is replaced by the result
}

// Filters restrict the rows a plan sees. Values within a field are OR-ed,
// fields are AND-ed, and empty fields do not restrict.
type Filters struct {
	Categories          []string `json:"categories,omitempty"`
	DescriptionContains []string `json:"description_contains,omitempty"`
	From                string   `json:"from,omitempty"` // inclusive, YYYY-MM-DD
	To                  string   `json:"to,omitempty"`   // inclusive, YYYY-MM-DD
}

// Schema is the JSON Schema every plan must satisfy.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["operation"],
  "additionalProperties": false,
  "properties": {
    "operation": {"enum": ["sum", "avg", "min", "max", "count", "list", "exists", "answer"]},
    "measure": {"enum": ["", "withdrawal", "deposit"]},
    "filters": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "categories": {"type": "array", "items": {"type": "string"}},
        "description_contains": {"type": "array", "items": {"type": "string"}},
        "from": {"type": "string", "pattern": "^([0-9]{4}-[0-9]{2}-[0-9]{2})?$"},
        "to": {"type": "string", "pattern": "^([0-9]{4}-[0-9]{2}-[0-9]{2})?$"}
      }
    },
    "group_by": {"enum": ["", "category", "month", "description"]},
    "sort": {"enum": ["", "value_desc", "value_asc", "date_asc", "date_desc"]},
    "limit": {"type": "integer", "minimum": 0},
    "reply": {"type": "string"}
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(Schema))
	if err != nil {
		panic("query: compiling plan schema: " + err.Error())
	}
	return s
}

// ErrInvalidPlan wraps every plan validation failure.
var ErrInvalidPlan = errors.New("invalid query plan")

// ParsePlan extracts a Plan from a model reply. Markdown code fences are
// stripped; the JSON is validated against Schema and then checked for
// combinations the schema cannot express.
func ParsePlan(raw string) (Plan, error) {
	doc := stripFences(raw)

	result, err := compiledSchema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %v (response: %.200s)", ErrInvalidPlan, err, doc)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Plan{}, fmt.Errorf("%w: %s", ErrInvalidPlan, strings.Join(msgs, "; "))
	}

	var p Plan
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Validate checks cross-field rules.
func (p Plan) Validate() error {
	switch p.Operation {
	case OpSum, OpAvg, OpMin, OpMax:
		if p.Measure == "" {
			return fmt.Errorf("%w: %s requires a measure", ErrInvalidPlan, p.Operation)
		}
	case OpAnswer:
		if strings.TrimSpace(p.Reply) == "" {
			return fmt.Errorf("%w: answer requires a reply", ErrInvalidPlan)
		}
	case OpCount, OpList, OpExists:
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidPlan, p.Operation)
	}

	if p.GroupBy != "" {
		switch p.Operation {
		case OpSum, OpAvg, OpMin, OpMax, OpCount:
		default:
			return fmt.Errorf("%w: group_by is not supported for %s", ErrInvalidPlan, p.Operation)
		}
	}

	from, to, err := p.Filters.dateRange()
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("%w: filters.to %s is before filters.from %s", ErrInvalidPlan, p.Filters.To, p.Filters.From)
	}
	return nil
}

func (f Filters) dateRange() (from, to time.Time, err error) {
	if f.From != "" {
		if from, err = time.Parse(ISODate, f.From); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: filters.from: %v", ErrInvalidPlan, err)
		}
	}
	if f.To != "" {
		if to, err = time.Parse(ISODate, f.To); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: filters.to: %v", ErrInvalidPlan, err)
		}
	}
	return from, to, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
