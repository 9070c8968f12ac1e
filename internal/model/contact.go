package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// VerificationStatus is the email-discovery service's verdict on an address.
type VerificationStatus string

const (
	StatusAbsent    VerificationStatus = ""
	StatusValid     VerificationStatus = "valid"
	StatusAcceptAll VerificationStatus = "accept_all"
	StatusInvalid   VerificationStatus = "invalid"
	StatusUnknown   VerificationStatus = "unknown"
)

// ParseVerificationStatus maps a wire value onto the closed status set.
// Unrecognized values become StatusUnknown.
func ParseVerificationStatus(s string) VerificationStatus {
	switch v := VerificationStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusAbsent, StatusValid, StatusAcceptAll, StatusInvalid, StatusUnknown:
		return v
	default:
		return StatusUnknown
	}
}

// Verdict is the tri-state quality flag of a contact candidate.
type Verdict int8

const (
	VerdictUnset Verdict = iota
	VerdictAccepted
	VerdictRejected
)

// VerdictOf converts a boolean decision into a Verdict.
func VerdictOf(good bool) Verdict {
	if good {
		return VerdictAccepted
	}
	return VerdictRejected
}

func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "true"
	case VerdictRejected:
		return "false"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "":
		*v = VerdictUnset
	case "true", "1", "yes":
		*v = VerdictAccepted
	case "false", "0", "no":
		*v = VerdictRejected
	default:
		return eris.Errorf("model: invalid verdict %q", string(b))
	}
	return nil
}

// DateLayout is the calendar-date format used for verification dates.
const DateLayout = "2006-01-02"

// ContactCandidate is one possible contact at an account's domain.
// Confidence is nil when the service did not score the address and
// VerificationDate is zero when the address was never verified.
type ContactCandidate struct {
	InputDomain        string
	Email              string
	Domain             string
	Organization       string
	Confidence         *int
	EmailType          string
	NumSources         int
	Pattern            string
	FirstName          string
	LastName           string
	Department         string
	Position           string
	Twitter            string
	LinkedIn           string
	Phone              string
	VerificationStatus VerificationStatus
	VerificationDate   time.Time
	Account            *Account
	Good               Verdict
}

// LocalPart returns the lowercased part of the email before '@'.
func (c *ContactCandidate) LocalPart() string {
	at := strings.LastIndex(c.Email, "@")
	if at < 0 {
		return strings.ToLower(c.Email)
	}
	return strings.ToLower(c.Email[:at])
}

// HasFirstName reports whether a non-blank first name is present.
func (c *ContactCandidate) HasFirstName() bool {
	return strings.TrimSpace(c.FirstName) != ""
}

// GroupDomain is the domain candidates are grouped by: the account's domain
// when known, else the domain the query was issued for.
func (c *ContactCandidate) GroupDomain() string {
	if c.Account != nil && c.Account.Domain != "" {
		return c.Account.Domain
	}
	if c.InputDomain != "" {
		return c.InputDomain
	}
	return c.Domain
}

// Owner returns the admin owning the candidate's account, or nil.
func (c *ContactCandidate) Owner() *Admin {
	if c.Account == nil {
		return nil
	}
	return c.Account.Owner
}
