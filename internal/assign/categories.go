package assign

import (
	"math"
	"sort"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// DefaultCutoffPct sizes the accepted category set relative to batch volume.
const DefaultCutoffPct = 0.05

// AcceptableCategories returns the ceil(len(accounts)*cutoffPct) most
// frequent categories, most frequent first. Equal counts keep the order in
// which the categories first appear.
func AcceptableCategories(accounts []model.Account, cutoffPct float64) []string {
	if len(accounts) == 0 || cutoffPct <= 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, a := range accounts {
		if _, seen := counts[a.Category]; !seen {
			order = append(order, a.Category)
		}
		counts[a.Category]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	// Nudge down so 100*0.05 stays 5 despite float error.
	cutoff := int(math.Ceil(float64(len(accounts))*cutoffPct - 1e-9))
	if cutoff > len(order) {
		cutoff = len(order)
	}
	return order[:cutoff]
}

// FilterByCategory keeps accounts whose category is in categories,
// preserving order.
func FilterByCategory(accounts []model.Account, categories []string) []model.Account {
	keep := make(map[string]bool, len(categories))
	for _, c := range categories {
		keep[c] = true
	}
	out := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		if keep[a.Category] {
			out = append(out, a)
		}
	}
	return out
}
