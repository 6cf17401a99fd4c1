package borrowerprofile

import (
	"philfund-wizard/internal/wizard"
	"philfund-wizard/internal/wizard/draft"
)

const WizardID = "borrower-profile"

const (
	StepBasicInfo        wizard.Step = "basic-info"
	StepDependents       wizard.Step = "dependents"
	StepAddressDetails   wizard.Step = "address-details"
	StepWorkInformation  wizard.Step = "work-information"
	StepAuthorization    wizard.Step = "authorization"
	StepPhilfundCashCard wizard.Step = "philfund-cash-card"
	StepVerification     wizard.Step = "verification"
)

// Steps is the fixed ordered sequence of the borrower-profile wizard.
var Steps = wizard.Sequence{
	StepBasicInfo,
	StepDependents,
	StepAddressDetails,
	StepWorkInformation,
	StepAuthorization,
	StepPhilfundCashCard,
	StepVerification,
}

// Endpoints is the wizard's API surface on the draft store.
var Endpoints = draft.Endpoints{
	Cached: "/borrower-profile/cached",
	Steps: map[wizard.Step]string{
		StepBasicInfo:        "/borrower-profile/step-one",
		StepDependents:       "/borrower-profile/step-two",
		StepAddressDetails:   "/borrower-profile/step-three",
		StepWorkInformation:  "/borrower-profile/step-four",
		StepAuthorization:    "/borrower-profile/step-five",
		StepPhilfundCashCard: "/borrower-profile/step-six",
		StepVerification:     "/borrower-profile/step-seven",
	},
}

// NewDefinition builds the wizard definition. The terminal collaborators may
// be nil in contexts that never reach the last step.
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
			{ID: StepBasicInfo, Validate: ValidateBasicInfo, Payload: basicInfoPayload},
			{ID: StepDependents, Validate: ValidateDependents, Payload: dependentsPayload},
			{ID: StepAddressDetails, Validate: ValidateAddressDetails, Payload: addressPayloadMap},
			{ID: StepWorkInformation, Validate: ValidateWorkInformation, Payload: workInformationPayload},
			{ID: StepAuthorization, Validate: ValidateAuthorization, Payload: authorizationPayload},
			{ID: StepPhilfundCashCard, Validate: ValidatePhilfundCashCard, Payload: cashCardPayload},
			{ID: StepVerification, Validate: ValidateVerification, Payload: verificationPayload},
		},
	}
}

// NewTranslator maps server error field names onto UI names. Dependent and
// authorized-person indices resolve against the live aggregate's slots
// (their local IDs are stable for the editing session), so the table takes a
// provider rather than a snapshot.
func NewTranslator(aggregate func() *Aggregate) draft.Table {
	return draft.Table{
		Fields: map[string]string{
			"bi_first_name":    "firstName",
			"bi_middle_name":   "middleName",
			"bi_last_name":     "lastName",
			"bi_suffix":        "suffix",
			"bi_birth_date":    "birthDate",
			"bi_birth_place":   "birthPlace",
			"bi_gender":        "gender",
			"bi_civil_status":  "civilStatus",
			"bi_email":         "email",
			"bi_mobile_number": "mobileNumber",
			"bi_tin_number":    "tinNumber",
			"bi_date_of_death": "dateOfDeath",

			"spouse.name":       "spouseName",
			"spouse.occupation": "spouseOccupation",
			"spouse.address":    "spouseAddress",
			"spouse.contact":    "spouseContact",

			"current_address.house_no":      "currentHouseNo",
			"current_address.street":        "currentStreet",
			"current_address.barangay":      "currentBarangay",
			"current_address.city":          "currentCity",
			"current_address.province":      "currentProvince",
			"current_address.postal_code":   "currentPostalCode",
			"same_as_current":               "sameAsCurrent",
			"permanent_address.house_no":    "permanentHouseNo",
			"permanent_address.street":      "permanentStreet",
			"permanent_address.barangay":    "permanentBarangay",
			"permanent_address.city":        "permanentCity",
			"permanent_address.province":    "permanentProvince",
			"permanent_address.postal_code": "permanentPostalCode",

			"wi_employer_name":   "employerName",
			"wi_position":        "position",
			"wi_years_employed":  "yearsEmployed",
			"wi_monthly_income":  "monthlyIncome",
			"wi_work_address":    "workAddress",
			"wi_work_contact":    "workContact",
			"wi_office_map_link": "officeMapLink",

			"cc_card_number":      "cardNumber",
			"cc_card_holder_name": "cardHolderName",
			"cc_issue_date":       "cardIssueDate",
			"cc_expiry_date":      "cardExpiryDate",
			"cc_bank_branch":      "bankBranch",

			"vf_id_presented": "idPresented",
			"vf_id_number":    "idNumber",
			"vf_acknowledged": "acknowledged",
		},
		Collections: map[string]func(index int, subfield string) string{
			"dependents": func(index int, subfield string) string {
				agg := aggregate()
				if agg == nil || index < 0 || index >= len(agg.Dependents) {
					return "dependents"
				}
				return draft.IndexedKey(agg.Dependents[index].ID, subfield)
			},
			"authorized_persons": func(index int, subfield string) string {
				agg := aggregate()
				if agg == nil || index < 0 || index >= len(agg.AuthorizedPersons) {
					return "authorizedPersons"
				}
				if subfield == "contact_number" {
					subfield = "contact"
				}
				return draft.IndexedKey(agg.AuthorizedPersons[index].ID, subfield)
			},
		},
	}
}
