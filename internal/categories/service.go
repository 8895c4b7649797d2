package categories

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wealthwise-dev/wealthwise/internal/model"
)

// Service categorizes merchant descriptions with an ordered rule set.
type Service struct {
	rules    []Rule
	patterns []*regexp.Regexp // one per rule, nil when it has no keywords
}

// NewService creates a Service. Rule order matters: the first match wins.
func NewService(rules []Rule) *Service {
	pats := make([]*regexp.Regexp, len(rules))
	for i, r := range rules {
		pats[i] = keywordPattern(r.Keywords)
	}
	return &Service{rules: rules, patterns: pats}
}

// keywordPattern matches any of keywords as whole words, ignoring case.
// Letters and digits on either side of a keyword prevent a match, so "rent"
// does not match "Torrent".
func keywordPattern(keywords []string) *regexp.Regexp {
	var alts []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			alts = append(alts, regexp.QuoteMeta(k))
		}
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(?:` + strings.Join(alts, "|") + `)(?:$|[^\pL\pN])`)
}

// Rules returns the rule set.
func (s *Service) Rules() []Rule {
	return s.rules
}

// Match returns the category of the first rule with a keyword appearing as
// a whole word in description, ignoring case.
func (s *Service) Match(description string) (model.Category, bool) {
	for i, p := range s.patterns {
		if p != nil && p.MatchString(description) {
			return s.rules[i].Category, true
		}
	}
	return "", false
}

// Categorize is Match with CategoryUncategorized as the fallback.
func (s *Service) Categorize(description string) model.Category {
	if c, ok := s.Match(description); ok {
		return c
	}
	return model.CategoryUncategorized
}

// Total is the spending attributed to one category.
type Total struct {
	Category   model.Category
	Count      int
	Withdrawal decimal.Decimal
	Deposit    decimal.Decimal
}

// Summarize totals withdrawals and deposits per category, in rule order,
// with uncategorized rows last. Categories without rows are omitted.
func (s *Service) Summarize(table *model.Table) []Total {
	byCat := make(map[model.Category]*Total)
	for _, row := range table.Rows {
		c := s.Categorize(row.Description)
		t, ok := byCat[c]
		if !ok {
			t = &Total{Category: c}
			byCat[c] = t
		}
		t.Count++
		if row.Withdrawal.Valid {
			t.Withdrawal = t.Withdrawal.Add(row.Withdrawal.Decimal)
		}
		if row.Deposit.Valid {
			t.Deposit = t.Deposit.Add(row.Deposit.Decimal)
		}
	}

	var out []Total
	seen := make(map[model.Category]bool)
	for _, r := range s.rules {
		if t, ok := byCat[r.Category]; ok && !seen[r.Category] {
			out = append(out, *t)
			seen[r.Category] = true
		}
	}
	if t, ok := byCat[model.CategoryUncategorized]; ok {
		out = append(out, *t)
	}
	return out
}
