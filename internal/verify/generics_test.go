package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func cand(email, first string, status model.VerificationStatus, acct *model.Account) model.ContactCandidate {
	return model.ContactCandidate{Email: email, FirstName: first, VerificationStatus: status, Account: acct}
}

func TestFilterGenerics(t *testing.T) {
	a := &model.Account{Domain: "a.com"}
	b := &model.Account{Domain: "b.com"}
	c := &model.Account{Domain: "c.com"}

	in := []model.ContactCandidate{
		cand("info@a.com", "Ann", model.StatusValid, a),    // generic
		cand("sam@b.com", "", model.StatusValid, b),        // no first name
		cand("ann@a.com", "Ann", model.StatusAcceptAll, a), // first good for a.com
		cand("bob@a.com", "Bob", model.StatusValid, a),     // also good, later
		cand("Contact@c.com", "Cy", model.StatusValid, c),  // generic, case-insensitive
		cand("tim@b.com", "Tim", model.StatusUnknown, b),   // bad status
		cand("zed@c.com", "Zed", model.StatusInvalid, c),   // bad status
	}

	got := FilterGenerics(in)
	require.Len(t, got, 3)

	assert.Equal(t, "ann@a.com", got[0].Email)
	assert.Equal(t, model.VerdictAccepted, got[0].Good)

	// No good candidate in b.com: first one survives, marked not good.
	assert.Equal(t, "sam@b.com", got[1].Email)
	assert.Equal(t, model.VerdictRejected, got[1].Good)

	assert.Equal(t, "Contact@c.com", got[2].Email)
	assert.Equal(t, model.VerdictRejected, got[2].Good)

	// Every input candidate is marked.
	assert.Equal(t, model.VerdictAccepted, in[3].Good)
	assert.Equal(t, model.VerdictRejected, in[0].Good)

	// Pointers alias the input slice.
	assert.Same(t, &in[2], got[0])
}

func TestFilterGenerics_GroupsByInputDomainWithoutAccount(t *testing.T) {
	in := []model.ContactCandidate{
		{Email: "x@one.com", InputDomain: "one.com"},
		{Email: "y@one.com", InputDomain: "one.com", FirstName: "Y", VerificationStatus: model.StatusValid},
		{Email: "z@two.com", InputDomain: "two.com"},
	}
	got := FilterGenerics(in)
	require.Len(t, got, 2)
	assert.Equal(t, "y@one.com", got[0].Email)
	assert.Equal(t, "z@two.com", got[1].Email)
}

func TestFilterGenerics_Empty(t *testing.T) {
	assert.Empty(t, FilterGenerics(nil))
}
