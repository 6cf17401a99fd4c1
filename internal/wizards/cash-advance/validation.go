package cashadvance

import (
	"strings"
	"time"

	"philfund-wizard/internal/wizard"
)

// ValidateAdvanceDetails checks the opening step.
func ValidateAdvanceDetails(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	if strings.TrimSpace(a.BorrowerName) == "" {
		errs.Add("borrowerName", "Borrower Name is required")
	}
	if strings.TrimSpace(a.LoanReference) == "" {
		errs.Add("loanReference", "Loan Reference is required")
	}
	if a.AdvanceAmount <= 0 {
		errs.Add("advanceAmount", "Advance Amount is required")
	}
	if strings.TrimSpace(a.Purpose) == "" {
		errs.Add("purpose", "Purpose is required")
	}
	if a.RequestDate == nil {
		errs.Add("requestDate", "Request Date is required")
	} else if a.RequestDate.After(time.Now()) {
		errs.Add("requestDate", "Request Date must not be in the future")
	}

	return errs
}

// ValidateComputation checks the deduction inputs and the derived net
// proceeds. The derived values are recomputed on every update, so the
// validator only has to read them.
func ValidateComputation(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	if a.ProcessingFeeRate < 0 || a.ProcessingFeeRate > 100 {
		errs.Add("processingFeeRate", "Processing Fee Rate must be between 0 and 100")
	}
	if a.ServiceCharge < 0 {
		errs.Add("serviceCharge", "Service Charge must not be negative")
	}
	if a.NetProceeds <= 0 {
		errs.Add("netProceeds", "Deductions must not exceed the advance amount")
	}

	return errs
}

// ValidateRelease checks the terminal step. The release date must not be in
// the past: advances are released same-day or scheduled forward.
func ValidateRelease(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	if a.ReleaseDate == nil {
		errs.Add("releaseDate", "Release Date is required")
	} else if dayOf(*a.ReleaseDate).Before(dayOf(time.Now())) {
		// Calendar-day comparison; truncating to UTC days would shift "today"
		// for branches in timezones ahead of UTC.
		errs.Add("releaseDate", "Release Date must not be in the past")
	}
	if strings.TrimSpace(a.ReleaseMethod) == "" {
		errs.Add("releaseMethod", "Release Method is required")
	}
	if strings.TrimSpace(a.ReceivedBy) == "" {
		errs.Add("receivedBy", "Received By is required")
	}

	return errs
}

// dayOf collapses a timestamp to its calendar day, ignoring location offsets.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
