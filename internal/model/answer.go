package model

import "github.com/shopspring/decimal"

// AnswerKind says which field of an Answer carries the value.
type AnswerKind string

const (
	AnswerText   AnswerKind = "text"
	AnswerNumber AnswerKind = "number"
	AnswerTable  AnswerKind = "table"
)

// Answer is whatever the agent produced for a prompt.
type Answer struct {
	Kind   AnswerKind
	Text   string           // set for text answers; optional caption otherwise
	Number decimal.Decimal  // set for number answers
	Table  *AnswerTableData // set for table answers
}

// AnswerTableData is a small tabular result.
type AnswerTableData struct {
	Headers []string
	Rows    [][]string
}

// TextAnswer builds a text Answer.
func TextAnswer(s string) Answer {
	return Answer{Kind: AnswerText, Text: s}
}

// NumberAnswer builds a numeric Answer.
func NumberAnswer(d decimal.Decimal) Answer {
	return Answer{Kind: AnswerNumber, Number: d}
}
