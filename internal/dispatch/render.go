package dispatch

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wealthwise-dev/wealthwise/internal/model"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Render formats an answer for the terminal. Number answers print their
// reply text when the agent phrased one, otherwise the value to two places.
func Render(a model.Answer) string {
	switch a.Kind {
	case model.AnswerNumber:
		if a.Text != "" {
			return a.Text
		}
		return a.Number.StringFixed(2)
	case model.AnswerTable:
		if a.Table == nil {
			return a.Text
		}
		t := Table(a.Table.Headers, a.Table.Rows)
		if a.Text != "" {
			return a.Text + "\n" + t
		}
		return t
	default:
		return a.Text
	}
}

// Table renders rows under headers with a plain border.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
