package agent

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/wealthwise-dev/wealthwise/internal/model"
	"github.com/wealthwise-dev/wealthwise/internal/query"
)

// SystemPrompt describes the table and the plan contract to the model. It
// includes the first sampleRows rows; the rest of the data stays local.
func SystemPrompt(table *model.Table, sampleRows int) string {
	var b strings.Builder

	b.WriteString(`You are a data analyst answering questions about one bank statement table.
You do not compute anything yourself. Translate each question into a JSON query plan;
a local engine executes the plan against the full table.

`)
	b.WriteString("TABLE:\n")
	fmt.Fprintf(&b, "- %d rows\n", table.Len())
	if table.Len() > 0 {
		first, last := table.Rows[0].Date, table.Rows[0].Date
		for _, r := range table.Rows {
			if r.Date.Before(first) {
				first = r.Date
			}
			if r.Date.After(last) {
				last = r.Date
			}
		}
		fmt.Fprintf(&b, "- dates from %s to %s\n", first.Format(query.ISODate), last.Format(query.ISODate))
	}
	b.WriteString("- columns:\n")
	for _, c := range table.Columns {
		fmt.Fprintf(&b, "  - %s (%s)\n", c, columnType(c))
	}

	if n := min(sampleRows, table.Len()); n > 0 {
		fmt.Fprintf(&b, "\nFIRST %d ROWS (CSV):\n", n)
		b.WriteString(sampleCSV(table, n))
	}

	b.WriteString("\nCATEGORIES (the engine assigns them from merchant names):\n")
	for _, c := range model.Categories {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	fmt.Fprintf(&b, "- %s\n", model.CategoryUncategorized)

	b.WriteString(`
PLAN OPERATIONS:
- sum, avg, min, max: aggregate "measure" ("withdrawal" = money spent, "deposit" = income)
- count: number of matching rows
- list: matching rows as a table
- exists: "Yes" or "No"
- answer: no data needed; "reply" is the whole answer
Filters: "categories", "description_contains" (case-insensitive substrings, any may match),
"from"/"to" (inclusive, YYYY-MM-DD). Optional "group_by" (category, month, description),
"sort", "limit", and "reply" where {value} is replaced by the result.

PLAN SCHEMA:
`)
	b.WriteString(query.Schema)
	b.WriteString(`

EXAMPLE:
Question: How much did I spend on travel in January 2024?
{"operation":"sum","measure":"withdrawal","filters":{"categories":["Travel"],"from":"2024-01-01","to":"2024-01-31"},"reply":"You spent {value} on travel in January 2024."}

Respond with the JSON plan only.`)
	return b.String()
}

func columnType(name string) string {
	switch name {
	case model.ColDate:
		return "date"
	case model.ColWithdrawal, model.ColDeposit:
		return "decimal, blank when absent"
	default:
		return "text"
	}
}

func sampleCSV(table *model.Table, n int) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(table.Columns)
	for _, r := range table.Rows[:n] {
		rec := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			switch c {
			case model.ColDate:
				rec[i] = r.Date.Format(query.ISODate)
			case model.ColDescription:
				rec[i] = r.Description
			case model.ColWithdrawal:
				rec[i] = nullString(r.Withdrawal.Valid, r.Withdrawal.Decimal.String())
			case model.ColDeposit:
				rec[i] = nullString(r.Deposit.Valid, r.Deposit.Decimal.String())
			default:
				rec[i] = r.Extra[c]
			}
		}
		_ = w.Write(rec)
	}
	w.Flush()
	return sb.String()
}

func nullString(valid bool, s string) string {
	if !valid {
		return ""
	}
	return s
}
