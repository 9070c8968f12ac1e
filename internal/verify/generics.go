// Package verify decides which contact candidates are good enough to upload.
package verify

import (
	"slices"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// GenericLocalParts are mailbox names that never count as a personal contact.
var GenericLocalParts = []string{"info", "hello", "team", "help", "contact"}

// IsGeneric reports whether the candidate's mailbox is a shared inbox.
func IsGeneric(c *model.ContactCandidate) bool {
	return slices.Contains(GenericLocalParts, c.LocalPart())
}

// FilterGenerics marks every candidate and keeps one per domain: the first
// good one, or the first candidate when none is good. Domains appear in
// first-seen order. The returned pointers alias candidates.
func FilterGenerics(candidates []model.ContactCandidate) []*model.ContactCandidate {
	var order []string
	groups := make(map[string][]*model.ContactCandidate)
	for i := range candidates {
		c := &candidates[i]
		c.Good = model.VerdictOf(isGood(c))

		d := c.GroupDomain()
		if _, ok := groups[d]; !ok {
			order = append(order, d)
		}
		groups[d] = append(groups[d], c)
	}

	out := make([]*model.ContactCandidate, 0, len(order))
	for _, d := range order {
		group := groups[d]
		pick := group[0]
		for _, c := range group {
			if c.Good == model.VerdictAccepted {
				pick = c
				break
			}
		}
		out = append(out, pick)
	}
	return out
}

func isGood(c *model.ContactCandidate) bool {
	if IsGeneric(c) || !c.HasFirstName() {
		return false
	}
	return c.VerificationStatus == model.StatusValid || c.VerificationStatus == model.StatusAcceptAll
}
