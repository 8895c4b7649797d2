package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthwise-dev/wealthwise/internal/importer"
	"github.com/wealthwise-dev/wealthwise/internal/model"
)

// Categorizer assigns a category to a merchant description.
type Categorizer interface {
	Categorize(description string) model.Category
}

// NoMatches is the reply for aggregations over zero rows that have no
// natural empty value.
const NoMatches = "No matching transactions."

// Execute runs p against table.
func Execute(p Plan, table *model.Table, cat Categorizer) (model.Answer, error) {
	if err := p.Validate(); err != nil {
		return model.Answer{}, err
	}
	if p.Operation == OpAnswer {
		return model.TextAnswer(p.Reply), nil
	}

	rows, err := filterRows(p, table, cat)
	if err != nil {
		return model.Answer{}, err
	}

	if p.GroupBy != "" {
		return groupRows(p, rows, cat), nil
	}

	switch p.Operation {
	case OpExists:
		v := "No"
		if len(rows) > 0 {
			v = "Yes"
		}
		return withReply(model.TextAnswer(v), p.Reply, v), nil

	case OpCount:
		n := decimal.NewFromInt(int64(len(rows)))
		return withReply(model.NumberAnswer(n), p.Reply, n.String()), nil

	case OpList:
		return listRows(p, rows, cat), nil

	default:
		v, ok := aggregate(p.Operation, p.Measure, rows)
		if !ok {
			return model.TextAnswer(NoMatches), nil
		}
		return withReply(model.NumberAnswer(v), p.Reply, formatAmount(v)), nil
	}
}

func filterRows(p Plan, table *model.Table, cat Categorizer) ([]model.Row, error) {
	from, to, err := p.Filters.dateRange()
	if err != nil {
		return nil, err
	}
	cats := toLowerSet(p.Filters.Categories)
	needles := make([]string, 0, len(p.Filters.DescriptionContains))
	for _, n := range p.Filters.DescriptionContains {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			needles = append(needles, n)
		}
	}
	// Aggregations skip blanks in the measured column; count and exists
	// only do when a measure is named.
	needMeasure := p.Measure != "" && p.Operation != OpList

	var out []model.Row
	for _, row := range table.Rows {
		if !from.IsZero() && row.Date.Before(from) {
			continue
		}
		if !to.IsZero() && row.Date.After(to) {
			continue
		}
		if len(cats) > 0 && !cats[strings.ToLower(string(cat.Categorize(row.Description)))] {
			continue
		}
		if len(needles) > 0 && !containsAny(strings.ToLower(row.Description), needles) {
			continue
		}
		if needMeasure {
			if _, ok := measureOf(row, p.Measure); !ok {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func aggregate(op Operation, m Measure, rows []model.Row) (decimal.Decimal, bool) {
	if op == OpSum {
		total := decimal.Zero
		for _, r := range rows {
			v, _ := measureOf(r, m)
			total = total.Add(v)
		}
		return total, true
	}
	if op == OpCount {
		return decimal.NewFromInt(int64(len(rows))), true
	}
	if len(rows) == 0 {
		return decimal.Zero, false
	}

	vals := make([]decimal.Decimal, len(rows))
	for i, r := range rows {
		vals[i], _ = measureOf(r, m)
	}
	switch op {
	case OpAvg:
		return decimal.Sum(vals[0], vals[1:]...).Div(decimal.NewFromInt(int64(len(vals)))).Round(2), true
	case OpMin:
		return decimal.Min(vals[0], vals[1:]...), true
	case OpMax:
		return decimal.Max(vals[0], vals[1:]...), true
	}
	return decimal.Zero, false
}

type group struct {
	key   string
	first time.Time
	rows  []model.Row
	value decimal.Decimal
}

func groupRows(p Plan, rows []model.Row, cat Categorizer) model.Answer {
	byKey := make(map[string]*group)
	var order []*group
	for _, r := range rows {
		k := groupKey(p.GroupBy, r, cat)
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k, first: r.Date}
			byKey[k] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, r)
	}
	for _, g := range order {
		g.value, _ = aggregate(p.Operation, p.Measure, g.rows)
	}

	sortBy := p.Sort
	if sortBy == "" {
		sortBy = SortValueDesc
		if p.GroupBy == GroupMonth {
			sortBy = SortDateAsc
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		switch sortBy {
		case SortValueAsc:
			return a.value.LessThan(b.value)
		case SortDateAsc:
			return a.first.Before(b.first)
		case SortDateDesc:
			return a.first.After(b.first)
		default:
			return a.value.GreaterThan(b.value)
		}
	})
	if p.Limit > 0 && len(order) > p.Limit {
		order = order[:p.Limit]
	}

	label := string(p.Operation)
	if p.Measure != "" {
		label += " " + string(p.Measure)
	}
	t := &model.AnswerTableData{Headers: []string{groupHeader(p.GroupBy), label, "transactions"}}
	for _, g := range order {
		v := formatAmount(g.value)
		if p.Operation == OpCount {
			v = g.value.String()
		}
		t.Rows = append(t.Rows, []string{g.key, v, fmt.Sprint(len(g.rows))})
	}
	return model.Answer{Kind: model.AnswerTable, Table: t, Text: p.Reply}
}

func listRows(p Plan, rows []model.Row, cat Categorizer) model.Answer {
	m := p.Measure
	if m == "" {
		m = MeasureWithdrawal
	}
	sorted := make([]model.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch p.Sort {
		case SortDateDesc:
			return a.Date.After(b.Date)
		case SortValueDesc, SortValueAsc:
			av, _ := measureOf(a, m)
			bv, _ := measureOf(b, m)
			if p.Sort == SortValueAsc {
				return av.LessThan(bv)
			}
			return av.GreaterThan(bv)
		default:
			return a.Date.Before(b.Date)
		}
	})
	if p.Limit > 0 && len(sorted) > p.Limit {
		sorted = sorted[:p.Limit]
	}

	t := &model.AnswerTableData{Headers: []string{
		model.ColDate, model.ColDescription, model.ColWithdrawal, model.ColDeposit, "Category",
	}}
	for _, r := range sorted {
		t.Rows = append(t.Rows, []string{
			importer.FormatDate(r.Date),
			r.Description,
			formatNull(r.Withdrawal),
			formatNull(r.Deposit),
			string(cat.Categorize(r.Description)),
		})
	}
	return model.Answer{Kind: model.AnswerTable, Table: t, Text: p.Reply}
}

func groupKey(g GroupBy, r model.Row, cat Categorizer) string {
	switch g {
	case GroupCategory:
		return string(cat.Categorize(r.Description))
	case GroupMonth:
		return r.Date.Format("2006-01")
	default:
		return r.Description
	}
}

func groupHeader(g GroupBy) string {
	switch g {
	case GroupCategory:
		return "Category"
	case GroupMonth:
		return "Month"
	default:
		return model.ColDescription
	}
}

func measureOf(r model.Row, m Measure) (decimal.Decimal, bool) {
	var n decimal.NullDecimal
	switch m {
	case MeasureWithdrawal:
		n = r.Withdrawal
	case MeasureDeposit:
		n = r.Deposit
	}
	return n.Decimal, n.Valid
}

func withReply(a model.Answer, reply, value string) model.Answer {
	if reply != "" {
		a.Text = strings.ReplaceAll(reply, "{value}", value)
	}
	return a
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatNull(n decimal.NullDecimal) string {
	if !n.Valid {
		return ""
	}
	return formatAmount(n.Decimal)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			set[strings.ToLower(item)] = true
		}
	}
	return set
}
