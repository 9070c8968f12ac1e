package model

import "time"

// Verification is a single-address verifier result, remembered so a rerun
// inside the freshness window does not pay for the same lookup twice.
type Verification struct {
	Email      string             `json:"email"`
	Status     VerificationStatus `json:"status"`
	Result     string             `json:"result"`
	Score      int                `json:"score"`
	VerifiedAt time.Time          `json:"verified_at"`
}
