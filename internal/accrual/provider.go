// Package accrual provides the AccrualRateProvider abstraction the
// retirement-benefit and benefit-projection handlers use to look up a
// scheme's accrual rate. The core never talks to a scheme registry
// directly — it depends only on this interface, per spec's "out of
// scope" treatment of the registry as an external collaborator.
package accrual

import "github.com/shopspring/decimal"

// DefaultRate is used whenever no provider is configured, a scheme id is
// unknown to the provider, or a lookup fails or times out.
var DefaultRate = decimal.NewFromFloat(0.02)

// Provider resolves accrual rates for scheme ids. Implementations must
// never block indefinitely and must fall back to DefaultRate on any
// failure rather than propagate an error — a scheme-registry outage must
// not turn into a business-message failure for an otherwise valid
// mutation.
type Provider interface {
	GetAccrualRates(schemeIDs []string) map[string]decimal.Decimal
}

// FixedRateProvider always returns DefaultRate, regardless of scheme id.
// It is the zero-configuration default when SCHEME_REGISTRY_URL is unset.
type FixedRateProvider struct{}

func (FixedRateProvider) GetAccrualRates(schemeIDs []string) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(schemeIDs))
	for _, id := range schemeIDs {
		result[id] = DefaultRate
	}
	return result
}
