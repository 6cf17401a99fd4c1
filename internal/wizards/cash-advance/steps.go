package cashadvance

import (
	"encoding/json"

	"philfund-wizard/internal/wizard"
	"philfund-wizard/internal/wizard/draft"
)

const WizardID = "cash-advance"

const (
	StepAdvanceDetails wizard.Step = "advance-details"
	StepComputation    wizard.Step = "computation"
	StepRelease        wizard.Step = "release"
)

var Steps = wizard.Sequence{
	StepAdvanceDetails,
	StepComputation,
	StepRelease,
}

var Endpoints = draft.Endpoints{
	Cached: "/cash-advance/cached",
	Steps: map[wizard.Step]string{
		StepAdvanceDetails: "/cash-advance/step-one",
		StepComputation:    "/cash-advance/step-two",
		StepRelease:        "/cash-advance/step-three",
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
			{ID: StepAdvanceDetails, Validate: ValidateAdvanceDetails, Payload: advanceDetailsPayload},
			{ID: StepComputation, Validate: ValidateComputation, Payload: computationPayload},
			{ID: StepRelease, Validate: ValidateRelease, Payload: releasePayload},
		},
	}
}

// NewTranslator maps server error field names to UI names.
func NewTranslator() draft.Table {
	return draft.Table{
		Fields: map[string]string{
			"ca_borrower_name":       "borrowerName",
			"ca_loan_reference":      "loanReference",
			"ca_advance_amount":      "advanceAmount",
			"ca_purpose":             "purpose",
			"ca_request_date":        "requestDate",
			"ca_processing_fee_rate": "processingFeeRate",
			"ca_service_charge":      "serviceCharge",
			"ca_net_proceeds":        "netProceeds",
			"ca_release_date":        "releaseDate",
			"ca_release_method":      "releaseMethod",
			"ca_received_by":         "receivedBy",
		},
	}
}

func advanceDetailsPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"ca_borrower_name":  a.BorrowerName,
		"ca_loan_reference": a.LoanReference,
		"ca_advance_amount": a.AdvanceAmount,
		"ca_purpose":        a.Purpose,
		"ca_request_date":   wizard.FormatDate(a.RequestDate),
	}
}

func computationPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"ca_processing_fee_rate": a.ProcessingFeeRate,
		"ca_service_charge":      a.ServiceCharge,
		"ca_total_deductions":    a.TotalDeductions,
		"ca_net_proceeds":        a.NetProceeds,
	}
}

func releasePayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"ca_release_date":   wizard.FormatDate(a.ReleaseDate),
		"ca_release_method": a.ReleaseMethod,
		"ca_received_by":    a.ReceivedBy,
	}
}

// MergeDraft overlays cached step payloads onto the default aggregate.
func MergeDraft(a *Aggregate, cached wizard.CachedDraft) {
	if raw, ok := cached.Payload(1); ok {
		var payload struct {
			BorrowerName  string  `json:"ca_borrower_name"`
			LoanReference string  `json:"ca_loan_reference"`
			AdvanceAmount float64 `json:"ca_advance_amount"`
			Purpose       string  `json:"ca_purpose"`
			RequestDate   string  `json:"ca_request_date"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			a.BorrowerName = payload.BorrowerName
			a.LoanReference = payload.LoanReference
			a.AdvanceAmount = payload.AdvanceAmount
			a.Purpose = payload.Purpose
			a.RequestDate = wizard.AsDate(payload.RequestDate)
		}
	}
	if raw, ok := cached.Payload(2); ok {
		var payload struct {
			ProcessingFeeRate float64 `json:"ca_processing_fee_rate"`
			ServiceCharge     float64 `json:"ca_service_charge"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			a.ProcessingFeeRate = payload.ProcessingFeeRate
			a.ServiceCharge = payload.ServiceCharge
		}
	}
	if raw, ok := cached.Payload(3); ok {
		var payload struct {
			ReleaseDate   string `json:"ca_release_date"`
			ReleaseMethod string `json:"ca_release_method"`
			ReceivedBy    string `json:"ca_received_by"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil {
			a.ReleaseDate = wizard.AsDate(payload.ReleaseDate)
			a.ReleaseMethod = payload.ReleaseMethod
			a.ReceivedBy = payload.ReceivedBy
		}
	}
}
