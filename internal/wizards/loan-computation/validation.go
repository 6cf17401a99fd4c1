package loancomputation

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"philfund-wizard/internal/wizard"
)

// ValidateLoanDetails checks the opening step.
func ValidateLoanDetails(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	if strings.TrimSpace(a.ProductType) == "" {
		errs.Add("productType", "Product Type is required")
	}
	if a.PrincipalAmount <= 0 {
		errs.Add("principalAmount", "Principal Amount is required")
	}
	if a.TermMonths <= 0 {
		errs.Add("termMonths", "Term is required")
	}
	if a.InterestRate <= 0 {
		errs.Add("interestRate", "Interest Rate is required")
	}
	if a.StartDate == nil {
		errs.Add("startDate", "Start Date is required")
	}

	return errs
}

// ValidateComputation requires the branch officer to confirm the derived
// figures before continuing.
func ValidateComputation(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	if a.MonthlyAmortization <= 0 {
		errs.Add("monthlyAmortization", "Computation is incomplete")
	}
	if !a.ComputationConfirmed {
		errs.Add("computationConfirmed", "You must confirm the computation")
	}

	return errs
}

// ValidateCoMaker checks the co-maker step.
func ValidateCoMaker(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	if strings.TrimSpace(a.CoMakerName) == "" {
		errs.Add("coMakerName", "Co-Maker Name is required")
	}
	if strings.TrimSpace(a.CoMakerAddress) == "" {
		errs.Add("coMakerAddress", "Co-Maker Address is required")
	}
	if strings.TrimSpace(a.CoMakerContact) == "" {
		errs.Add("coMakerContact", "Co-Maker Contact is required")
	} else if err := validation.Validate(a.CoMakerContact, is.Digit); err != nil {
		errs.Add("coMakerContact", "Co-Maker Contact must contain digits only")
	}

	return errs
}

// ValidateReview checks the terminal step. The PN number is server-assigned
// on co-maker submission; its absence here means that step never completed.
func ValidateReview(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	if strings.TrimSpace(a.PNNumber) == "" {
		errs.Add("pnNumber", "Promissory Note number is required")
	}
	if strings.TrimSpace(a.ReviewedBy) == "" {
		errs.Add("reviewedBy", "Reviewed By is required")
	}
	if !a.Agreed {
		errs.Add("agreed", "You must agree to the terms")
	}

	return errs
}
