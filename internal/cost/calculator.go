// Package cost converts Hunter API usage into credits and dollars.
package cost

import "math"

// Rates holds per-provider pricing configuration.
type Rates struct {
	Hunter HunterRate `yaml:"hunter" mapstructure:"hunter"`
}

// HunterRate holds Hunter credit pricing. A domain search that returns
// emails costs DomainSearch credits; a single-address verification costs
// Verification credits. Dollars are prorated from the monthly plan.
type HunterRate struct {
	DomainSearch    float64 `yaml:"domain_search" mapstructure:"domain_search"`
	Verification    float64 `yaml:"verification" mapstructure:"verification"`
	PlanMonthly     float64 `yaml:"plan_monthly" mapstructure:"plan_monthly"`
	CreditsIncluded float64 `yaml:"credits_included" mapstructure:"credits_included"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// DomainSearches returns the credits spent on n billable domain searches.
func (c *Calculator) DomainSearches(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) * c.rates.Hunter.DomainSearch
}

// Verifications returns the credits spent on n verifier calls.
func (c *Calculator) Verifications(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) * c.rates.Hunter.Verification
}

// USD converts credits to dollars at the plan's per-credit price, rounded
// to the cent. It returns 0 when the plan has no included credits.
func (c *Calculator) USD(credits float64) float64 {
	if c.rates.Hunter.CreditsIncluded <= 0 {
		return 0
	}
	usd := credits * c.rates.Hunter.PlanMonthly / c.rates.Hunter.CreditsIncluded
	return math.Round(usd*100) / 100
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Hunter: HunterRate{
			DomainSearch:    1,
			Verification:    0.5,
			PlanMonthly:     49,
			CreditsIncluded: 2000,
		},
	}
}
