// Package cashadvance defines the three-step cash advance wizard: advance
// details, computation, and release.
package cashadvance

import (
	"time"

	"philfund-wizard/internal/wizard"
)

// Aggregate spans every step of one cash-advance wizard instance.
type Aggregate struct {
	// advance-details
	BorrowerName  string
	LoanReference string
	AdvanceAmount float64
	Purpose       string
	RequestDate   *time.Time

	// computation
	ProcessingFeeRate float64 // percent of the advance amount
	ServiceCharge     float64

	// derived after every update
	TotalDeductions float64
	NetProceeds     float64

	// release
	ReleaseDate   *time.Time
	ReleaseMethod string
	ReceivedBy    string
}

func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// Derive recomputes the deduction totals and net proceeds.
func Derive(a *Aggregate) {
	a.TotalDeductions = a.AdvanceAmount*a.ProcessingFeeRate/100 + a.ServiceCharge
	a.NetProceeds = a.AdvanceAmount - a.TotalDeductions
}

// Apply shallow-merges a patch into the aggregate.
func Apply(a *Aggregate, p wizard.Patch) {
	for field, value := range p {
		switch field {
		case "borrowerName":
			a.BorrowerName = wizard.AsString(value)
		case "loanReference":
			a.LoanReference = wizard.AsString(value)
		case "advanceAmount":
			a.AdvanceAmount = wizard.AsFloat(value)
		case "purpose":
			a.Purpose = wizard.AsString(value)
		case "requestDate":
			a.RequestDate = wizard.AsDate(value)
		case "processingFeeRate":
			a.ProcessingFeeRate = wizard.AsFloat(value)
		case "serviceCharge":
			a.ServiceCharge = wizard.AsFloat(value)
		case "releaseDate":
			a.ReleaseDate = wizard.AsDate(value)
		case "releaseMethod":
			a.ReleaseMethod = wizard.AsString(value)
		case "receivedBy":
			a.ReceivedBy = wizard.AsString(value)
		}
	}
}
