package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateListingHeader(t *testing.T) {
	assert.NoError(t, ValidateListingHeader([]string{"Title", "Category", "Website"}))
	assert.NoError(t, ValidateListingHeader([]string{"\ufefftitle", " website "}))

	err := ValidateListingHeader([]string{"title", "address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"website"`)
}

func TestNewCandidateRow(t *testing.T) {
	row, err := NewCandidateRow("Acme", "acme.com", "1 Main St", "Dentist")
	require.NoError(t, err)
	assert.Equal(t, "acme.com", row.Domain)

	_, err = NewCandidateRow("Acme", "  ", "", "")
	assert.Error(t, err)
}

func TestNewAccount(t *testing.T) {
	owner := &Admin{Slug: "jdoe"}
	row := CandidateRow{Name: "Acme", Domain: "acme.com", Address: "1 Main St", Category: "Dentist"}

	acct, err := NewAccount(row, "Austin", "TX", owner)
	require.NoError(t, err)
	assert.Equal(t, "Austin", acct.City)
	assert.Equal(t, "Dentist", acct.Category)
	assert.Same(t, owner, acct.Owner)

	_, err = NewAccount(row, "", "", nil)
	assert.Error(t, err)

	_, err = NewAccount(CandidateRow{Name: "Acme"}, "", "", owner)
	assert.Error(t, err)
}

func TestAdmin_Display(t *testing.T) {
	a := Admin{FirstName: "Jane", LastName: "Doe", City: "Austin", State: "TX"}
	assert.Equal(t, "Jane Doe", a.FullName())
	assert.Equal(t, "Austin, TX", a.Location())

	a = Admin{FirstName: "Jane", State: "TX"}
	assert.Equal(t, "Jane", a.FullName())
	assert.Equal(t, "TX", a.Location())

	a = Admin{City: "Austin"}
	assert.Equal(t, "Austin", a.Location())
	assert.Equal(t, "", Admin{}.Location())
}
