package categories

import (
	"fmt"
	"strings"
)

// Lens renders the instructional preamble placed before every question. It
// names the statement owner, explains the columns and spells out the rules
// as prose for the agent to interpret.
func Lens(user string, rules []Rule) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "You are analyzing a bank statement for a user named %s.\n", user)
	b.WriteString("Column 'Description' contains the merchant name.\n")
	b.WriteString("Column 'Withdrawal' is money spent.\n")
	b.WriteString("Column 'Deposit' is income.\n")
	if len(rules) == 0 {
		return b.String()
	}

	b.WriteString("\nCategorization Rules:\n")
	for _, r := range rules {
		quoted := make([]string, len(r.Keywords))
		for i, k := range r.Keywords {
			quoted[i] = "'" + k + "'"
		}
		fmt.Fprintf(&b, "- %s -> %s\n", strings.Join(quoted, ", "), r.Category)
	}
	return b.String()
}
