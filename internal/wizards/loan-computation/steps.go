package loancomputation

import (
	"encoding/json"

	"philfund-wizard/internal/wizard"
	"philfund-wizard/internal/wizard/draft"
)

const WizardID = "loan-computation"

const (
	StepLoanDetails wizard.Step = "loan-details"
	StepComputation wizard.Step = "computation"
	StepCoMaker     wizard.Step = "co-maker"
	StepReview      wizard.Step = "review"
)

var Steps = wizard.Sequence{
	StepLoanDetails,
	StepComputation,
	StepCoMaker,
	StepReview,
}

var Endpoints = draft.Endpoints{
	Cached: "/loan-computation/cached",
	Steps: map[wizard.Step]string{
		StepLoanDetails: "/loan-computation/step-one",
		StepComputation: "/loan-computation/step-two",
		StepCoMaker:     "/loan-computation/step-three",
		StepReview:      "/loan-computation/step-four",
	},
}

func NewDefinition(process, archive wizard.TerminalFunc[Aggregate]) *wizard.Definition[Aggregate] {
	return &wizard.Definition[Aggregate]{
		ID:         WizardID,
		Defaults:   NewAggregate,
		Apply:      Apply,
		Derive:     Derive,
		MergeDraft: MergeDraft,
		Process:    process,
		Archive:    archive,
		Steps: []wizard.StepDef[Aggregate]{
			{ID: StepLoanDetails, Validate: ValidateLoanDetails, Payload: loanDetailsPayload},
			{ID: StepComputation, Validate: ValidateComputation, Payload: computationPayload},
			{ID: StepCoMaker, Validate: ValidateCoMaker, Payload: coMakerPayload, AfterSubmit: prefillPNNumber},
			{ID: StepReview, Validate: ValidateReview, Payload: reviewPayload},
		},
	}
}

// NewTranslator maps server error field names to UI names.
func NewTranslator() draft.Table {
	return draft.Table{
		Fields: map[string]string{
			"lc_product_type":          "productType",
			"lc_principal_amount":      "principalAmount",
			"lc_term_months":           "termMonths",
			"lc_interest_rate":         "interestRate",
			"lc_start_date":            "startDate",
			"lc_computation_confirmed": "computationConfirmed",
			"lc_co_maker_name":         "coMakerName",
			"lc_co_maker_address":      "coMakerAddress",
			"lc_co_maker_contact":      "coMakerContact",
			"lc_pn_number":             "pnNumber",
			"lc_reviewed_by":           "reviewedBy",
			"lc_agreed":                "agreed",
		},
	}
}

func loanDetailsPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"lc_product_type":     a.ProductType,
		"lc_principal_amount": a.PrincipalAmount,
		"lc_term_months":      a.TermMonths,
		"lc_interest_rate":    a.InterestRate,
		"lc_start_date":       wizard.FormatDate(a.StartDate),
	}
}

func computationPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"lc_computation_confirmed": a.ComputationConfirmed,
		"lc_total_interest":        a.TotalInterest,
		"lc_monthly_amortization":  a.MonthlyAmortization,
	}
}

func coMakerPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"lc_co_maker_name":    a.CoMakerName,
		"lc_co_maker_address": a.CoMakerAddress,
		"lc_co_maker_contact": a.CoMakerContact,
	}
}

func reviewPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"lc_pn_number":   a.PNNumber,
		"lc_reviewed_by": a.ReviewedBy,
		"lc_agreed":      a.Agreed,
	}
}

// prefillPNNumber merges the server-assigned promissory note number from the
// co-maker submission response. Review's validation may only run after this
// submission has completed, which the shell's in-flight serialization
// guarantees.
func prefillPNNumber(a *Aggregate, data json.RawMessage) {
	if len(data) == 0 {
		return
	}
	var payload struct {
		PNNumber string `json:"pn_number"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	if payload.PNNumber != "" {
		a.PNNumber = payload.PNNumber
	}
}

// MergeDraft overlays cached step payloads onto the default aggregate.
func MergeDraft(a *Aggregate, cached wizard.CachedDraft) {
	if raw, ok := cached.Payload(1); ok {
		var payload struct {
			ProductType     string  `json:"lc_product_type"`
			PrincipalAmount float64 `json:"lc_principal_amount"`
			TermMonths      int     `json:"lc_term_months"`
			InterestRate    float64 `json:"lc_interest_rate"`
			StartDate       string  `json:"lc_start_date"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			a.ProductType = payload.ProductType
			a.PrincipalAmount = payload.PrincipalAmount
			a.TermMonths = payload.TermMonths
			a.InterestRate = payload.InterestRate
			a.StartDate = wizard.AsDate(payload.StartDate)
		}
	}
	if raw, ok := cached.Payload(2); ok {
		var payload struct {
			ComputationConfirmed bool `json:"lc_computation_confirmed"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			a.ComputationConfirmed = payload.ComputationConfirmed
		}
	}
	if raw, ok := cached.Payload(3); ok {
		var payload struct {
			CoMakerName    string `json:"lc_co_maker_name"`
			CoMakerAddress string `json:"lc_co_maker_address"`
			CoMakerContact string `json:"lc_co_maker_contact"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			a.CoMakerName = payload.CoMakerName
			a.CoMakerAddress = payload.CoMakerAddress
			a.CoMakerContact = payload.CoMakerContact
		}
	}
	if raw, ok := cached.Payload(4); ok {
		var payload struct {
			PNNumber   string `json:"lc_pn_number"`
			ReviewedBy string `json:"lc_reviewed_by"`
			Agreed     bool   `json:"lc_agreed"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			a.PNNumber = payload.PNNumber
			a.ReviewedBy = payload.ReviewedBy
			a.Agreed = payload.Agreed
		}
	}
}
