// Package loancomputation defines the four-step loan computation wizard:
// loan details, computation, co-maker, and review. The review step's
// promissory note number is assigned server-side when the co-maker step is
// submitted and prefilled from that response.
package loancomputation

import (
	"time"

	"philfund-wizard/internal/wizard"
)

// Aggregate spans every step of one loan-computation wizard instance.
type Aggregate struct {
	// loan-details
	ProductType     string
	PrincipalAmount float64
	TermMonths      int
	InterestRate    float64 // percent per annum
	StartDate       *time.Time

	// computation
	ComputationConfirmed bool

	// derived after every update; simple interest as a UI convenience, not
	// a validated ledger
	TotalInterest       float64
	MonthlyAmortization float64

	// co-maker
	CoMakerName    string
	CoMakerAddress string
	CoMakerContact string

	// review
	PNNumber   string
	ReviewedBy string
	Agreed     bool
}

func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// Derive recomputes the interest and amortization figures.
func Derive(a *Aggregate) {
	if a.PrincipalAmount <= 0 || a.TermMonths <= 0 || a.InterestRate <= 0 {
		a.TotalInterest = 0
		a.MonthlyAmortization = 0
		return
	}
	a.TotalInterest = a.PrincipalAmount * a.InterestRate / 100 * float64(a.TermMonths) / 12
	a.MonthlyAmortization = (a.PrincipalAmount + a.TotalInterest) / float64(a.TermMonths)
}

// Apply shallow-merges a patch into the aggregate.
func Apply(a *Aggregate, p wizard.Patch) {
	for field, value := range p {
		switch field {
		case "productType":
			a.ProductType = wizard.AsString(value)
		case "principalAmount":
			a.PrincipalAmount = wizard.AsFloat(value)
		case "termMonths":
			a.TermMonths = wizard.AsInt(value)
		case "interestRate":
			a.InterestRate = wizard.AsFloat(value)
		case "startDate":
			a.StartDate = wizard.AsDate(value)
		case "computationConfirmed":
			a.ComputationConfirmed = wizard.AsBool(value)
		case "coMakerName":
			a.CoMakerName = wizard.AsString(value)
		case "coMakerAddress":
			a.CoMakerAddress = wizard.AsString(value)
		case "coMakerContact":
			a.CoMakerContact = wizard.AsString(value)
		case "pnNumber":
			a.PNNumber = wizard.AsString(value)
		case "reviewedBy":
			a.ReviewedBy = wizard.AsString(value)
		case "agreed":
			a.Agreed = wizard.AsBool(value)
		}
	}
}
