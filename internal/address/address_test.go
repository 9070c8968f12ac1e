package address

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Components
	}{
		{
			name: "full google maps address",
			raw:  "123 Main St, Austin, TX 78701, United States",
			want: Components{AddressNumber: "123", StreetName: "Main St", PlaceName: "Austin", StateName: "TX", ZipCode: "78701"},
		},
		{
			name: "city and state only",
			raw:  "Austin, TX",
			want: Components{PlaceName: "Austin", StateName: "TX"},
		},
		{
			name: "no commas",
			raw:  "Austin TX 78701",
			want: Components{PlaceName: "Austin", StateName: "TX", ZipCode: "78701"},
		},
		{
			name: "full state name",
			raw:  "9 Elm Rd, Charleston, West Virginia 25301",
			want: Components{AddressNumber: "9", StreetName: "Elm Rd", PlaceName: "Charleston", StateName: "WV", ZipCode: "25301"},
		},
		{
			name: "city shares state name",
			raw:  "New York New York 10001",
			want: Components{PlaceName: "New York", StateName: "NY", ZipCode: "10001"},
		},
		{
			name: "zip plus four",
			raw:  "1 Loop Rd, Denver, CO 80202-1234",
			want: Components{AddressNumber: "1", StreetName: "Loop Rd", PlaceName: "Denver", StateName: "CO", ZipCode: "80202-1234"},
		},
		{
			name: "upper case city",
			raw:  "SAN ANTONIO, TX",
			want: Components{PlaceName: "San Antonio", StateName: "TX"},
		},
		{
			name: "mixed case city kept",
			raw:  "McAllen, TX",
			want: Components{PlaceName: "McAllen", StateName: "TX"},
		},
		{
			name: "state only",
			raw:  "Texas",
			want: Components{StateName: "TX"},
		},
		{
			name: "street then state",
			raw:  "500 Oak Ave, TX 75001",
			want: Components{AddressNumber: "500", StreetName: "Oak Ave", StateName: "TX", ZipCode: "75001"},
		},
		{
			name: "no state falls back to last segment",
			raw:  "12 Pine St, Springfield",
			want: Components{AddressNumber: "12", StreetName: "Pine St", PlaceName: "Springfield"},
		},
		{
			name: "lower case code with zip",
			raw:  "Boise, id 83702",
			want: Components{PlaceName: "Boise", StateName: "ID", ZipCode: "83702"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Tag(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTag_Unparseable(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "???", "12345", "not an address", "USA", "in the mall"} {
		_, err := Tag(raw)
		assert.ErrorIs(t, err, ErrUnparseable, "input %q", raw)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw       string
		wantCity  string
		wantState string
	}{
		{"", "", ""},
		{"garbage", "", ""},
		{"123 Main St, Austin, TX 78701", "Austin", "TX"},
		{"Dallas, Texas", "Dallas", "TX"},
		{"Ohio", "", "OH"},
		{"12 Pine St, Springfield", "Springfield", ""},
	}

	for _, tt := range tests {
		city, state := Resolve(tt.raw)
		assert.Equal(t, tt.wantCity, city, "city for %q", tt.raw)
		assert.Equal(t, tt.wantState, state, "state for %q", tt.raw)
	}
}

func TestLookup_TaggerFailure(t *testing.T) {
	t.Parallel()

	failing := func(string) (Components, error) {
		return Components{PlaceName: "Partial"}, errors.New("boom")
	}
	city, state, err := Lookup(failing, "anything")
	require.Error(t, err)
	assert.Empty(t, city)
	assert.Empty(t, state)
}

func TestLookup_TaggerPanic(t *testing.T) {
	t.Parallel()

	panicking := func(string) (Components, error) {
		panic("index out of range")
	}
	city, state, err := Lookup(panicking, "1 Main St")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparseable)
	assert.Empty(t, city)
	assert.Empty(t, state)
}

func TestLookup_EmptyInputIsNotFailure(t *testing.T) {
	t.Parallel()

	called := false
	tag := func(string) (Components, error) {
		called = true
		return Components{}, nil
	}
	city, state, err := Lookup(tag, "  ")
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, city)
	assert.Empty(t, state)
}

func TestStateCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TX", StateCode("tx"))
	assert.Equal(t, "TX", StateCode(" Texas "))
	assert.Equal(t, "NH", StateCode("new  hampshire"))
	assert.Equal(t, "DC", StateCode("Washington DC"))
	assert.Equal(t, "Ontario", StateCode(" Ontario"))
	assert.Equal(t, "", StateCode(""))
}

func TestSameState(t *testing.T) {
	t.Parallel()

	assert.True(t, SameState("TX", "texas"))
	assert.True(t, SameState("ny", "NY"))
	assert.False(t, SameState("TX", "OK"))
	assert.False(t, SameState("", ""))
	assert.Equal(t, "ohio", StateName("OH"))
	assert.Equal(t, "", StateName("Atlantis"))
}
