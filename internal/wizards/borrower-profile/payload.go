package borrowerprofile

import (
	"encoding/json"

	"github.com/google/uuid"

	"philfund-wizard/internal/wizard"
)

// The server speaks its own field names (bi_*, wi_*, cc_*, nested spouse and
// address blocks). Payload builders translate the aggregate out; MergeDraft
// translates cached payloads back in.

type spousePayload struct {
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
	Address    string `json:"address"`
	Contact    string `json:"contact"`
}

type dependentPayload struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate,omitempty"`
}

type addressPayload struct {
	HouseNo    string `json:"house_no"`
	Street     string `json:"street"`
	Barangay   string `json:"barangay"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

type authorizedPersonPayload struct {
	Name          string `json:"name"`
	Relationship  string `json:"relationship"`
	ContactNumber string `json:"contact_number"`
}

func basicInfoPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"bi_first_name":    a.FirstName,
		"bi_middle_name":   a.MiddleName,
		"bi_last_name":     a.LastName,
		"bi_suffix":        a.Suffix,
		"bi_birth_date":    wizard.FormatDate(a.BirthDate),
		"bi_birth_place":   a.BirthPlace,
		"bi_gender":        a.Gender,
		"bi_civil_status":  a.CivilStatus,
		"bi_email":         a.Email,
		"bi_mobile_number": a.MobileNumber,
		"bi_tin_number":    a.TINNumber,
		"bi_date_of_death": wizard.FormatDate(a.DateOfDeath),
		"spouse": spousePayload{
			Name:       a.SpouseName,
			Occupation: a.SpouseOccupation,
			Address:    a.SpouseAddress,
			Contact:    a.SpouseContact,
		},
	}
}

// dependentsPayload prunes empty slots before submission.
func dependentsPayload(a *Aggregate) map[string]interface{} {
	deps := make([]dependentPayload, 0, len(a.Dependents))
	for _, dep := range a.Dependents {
		if dep.IsEmpty() {
			continue
		}
		deps = append(deps, dependentPayload{
			Name:      dep.Name,
			Birthdate: wizard.FormatDate(dep.Birthdate),
		})
	}
	return map[string]interface{}{"dependents": deps}
}

func addressPayloadMap(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"current_address": addressPayload{
			HouseNo:    a.CurrentHouseNo,
			Street:     a.CurrentStreet,
			Barangay:   a.CurrentBarangay,
			City:       a.CurrentCity,
			Province:   a.CurrentProvince,
			PostalCode: a.CurrentPostalCode,
		},
		"same_as_current": a.SameAsCurrent,
		"permanent_address": addressPayload{
			HouseNo:    a.PermanentHouseNo,
			Street:     a.PermanentStreet,
			Barangay:   a.PermanentBarangay,
			City:       a.PermanentCity,
			Province:   a.PermanentProvince,
			PostalCode: a.PermanentPostalCode,
		},
	}
}

func workInformationPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"wi_employer_name":   a.EmployerName,
		"wi_position":        a.Position,
		"wi_years_employed":  a.YearsEmployed,
		"wi_monthly_income":  a.MonthlyIncome,
		"wi_work_address":    a.WorkAddress,
		"wi_work_contact":    a.WorkContact,
		"wi_office_map_link": a.OfficeMapLink,
	}
}

func authorizationPayload(a *Aggregate) map[string]interface{} {
	persons := make([]authorizedPersonPayload, 0, len(a.AuthorizedPersons))
	for _, person := range a.AuthorizedPersons {
		if person.IsEmpty() {
			continue
		}
		persons = append(persons, authorizedPersonPayload{
			Name:          person.Name,
			Relationship:  person.Relationship,
			ContactNumber: person.ContactNumber,
		})
	}
	return map[string]interface{}{"authorized_persons": persons}
}

func cashCardPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"cc_card_number":      a.CardNumber,
		"cc_card_holder_name": a.CardHolderName,
		"cc_issue_date":       wizard.FormatDate(a.CardIssueDate),
		"cc_expiry_date":      wizard.FormatDate(a.CardExpiryDate),
		"cc_bank_branch":      a.BankBranch,
	}
}

func verificationPayload(a *Aggregate) map[string]interface{} {
	return map[string]interface{}{
		"vf_id_presented": a.IDPresented,
		"vf_id_number":    a.IDNumber,
		"vf_acknowledged": a.Acknowledged,
	}
}

// MergeDraft overlays cached step payloads onto the default aggregate.
// Restored dependents and authorized persons get fresh local IDs; the
// collections are padded back up to the seeded slot count.
func MergeDraft(a *Aggregate, cached wizard.CachedDraft) {
	if raw, ok := cached.Payload(1); ok {
		mergeBasicInfo(a, raw)
	}
	if raw, ok := cached.Payload(2); ok {
		mergeDependents(a, raw)
	}
	if raw, ok := cached.Payload(3); ok {
		mergeAddressDetails(a, raw)
	}
	if raw, ok := cached.Payload(4); ok {
		mergeWorkInformation(a, raw)
	}
	if raw, ok := cached.Payload(5); ok {
		mergeAuthorization(a, raw)
	}
	if raw, ok := cached.Payload(6); ok {
		mergeCashCard(a, raw)
	}
	if raw, ok := cached.Payload(7); ok {
		mergeVerification(a, raw)
	}
}

func mergeBasicInfo(a *Aggregate, raw json.RawMessage) {
	var payload struct {
		FirstName    string        `json:"bi_first_name"`
		MiddleName   string        `json:"bi_middle_name"`
		LastName     string        `json:"bi_last_name"`
		Suffix       string        `json:"bi_suffix"`
		BirthDate    string        `json:"bi_birth_date"`
		BirthPlace   string        `json:"bi_birth_place"`
		Gender       string        `json:"bi_gender"`
		CivilStatus  string        `json:"bi_civil_status"`
		Email        string        `json:"bi_email"`
		MobileNumber string        `json:"bi_mobile_number"`
		TINNumber    string        `json:"bi_tin_number"`
		DateOfDeath  string        `json:"bi_date_of_death"`
		Spouse       spousePayload `json:"spouse"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	a.FirstName = payload.FirstName
	a.MiddleName = payload.MiddleName
	a.LastName = payload.LastName
	a.Suffix = payload.Suffix
	a.BirthDate = wizard.AsDate(payload.BirthDate)
	a.BirthPlace = payload.BirthPlace
	a.Gender = payload.Gender
	a.CivilStatus = payload.CivilStatus
	a.Email = payload.Email
	a.MobileNumber = payload.MobileNumber
	a.TINNumber = payload.TINNumber
	a.DateOfDeath = wizard.AsDate(payload.DateOfDeath)
	a.SpouseName = payload.Spouse.Name
	a.SpouseOccupation = payload.Spouse.Occupation
	a.SpouseAddress = payload.Spouse.Address
	a.SpouseContact = payload.Spouse.Contact
}

func mergeDependents(a *Aggregate, raw json.RawMessage) {
	var payload struct {
		Dependents []dependentPayload `json:"dependents"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	deps := make([]Dependent, 0, seededSlots)
	for _, dep := range payload.Dependents {
		deps = append(deps, Dependent{
			ID:        uuid.NewString(),
			Name:      dep.Name,
			Birthdate: wizard.AsDate(dep.Birthdate),
		})
	}
	for len(deps) < seededSlots {
		deps = append(deps, Dependent{ID: uuid.NewString()})
	}
	a.Dependents = deps
}

func mergeAddressDetails(a *Aggregate, raw json.RawMessage) {
	var payload struct {
		Current       addressPayload `json:"current_address"`
		SameAsCurrent bool           `json:"same_as_current"`
		Permanent     addressPayload `json:"permanent_address"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	a.CurrentHouseNo = payload.Current.HouseNo
	a.CurrentStreet = payload.Current.Street
	a.CurrentBarangay = payload.Current.Barangay
	a.CurrentCity = payload.Current.City
	a.CurrentProvince = payload.Current.Province
	a.CurrentPostalCode = payload.Current.PostalCode
	a.SameAsCurrent = payload.SameAsCurrent
	a.PermanentHouseNo = payload.Permanent.HouseNo
	a.PermanentStreet = payload.Permanent.Street
	a.PermanentBarangay = payload.Permanent.Barangay
	a.PermanentCity = payload.Permanent.City
	a.PermanentProvince = payload.Permanent.Province
	a.PermanentPostalCode = payload.Permanent.PostalCode
}

func mergeWorkInformation(a *Aggregate, raw json.RawMessage) {
	var payload struct {
		EmployerName  string  `json:"wi_employer_name"`
		Position      string  `json:"wi_position"`
		YearsEmployed int     `json:"wi_years_employed"`
		MonthlyIncome float64 `json:"wi_monthly_income"`
		WorkAddress   string  `json:"wi_work_address"`
		WorkContact   string  `json:"wi_work_contact"`
		OfficeMapLink string  `json:"wi_office_map_link"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	a.EmployerName = payload.EmployerName
	a.Position = payload.Position
	a.YearsEmployed = payload.YearsEmployed
	a.MonthlyIncome = payload.MonthlyIncome
	a.WorkAddress = payload.WorkAddress
	a.WorkContact = payload.WorkContact
	a.OfficeMapLink = payload.OfficeMapLink
}

func mergeAuthorization(a *Aggregate, raw json.RawMessage) {
	var payload struct {
		AuthorizedPersons []authorizedPersonPayload `json:"authorized_persons"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	persons := make([]AuthorizedPerson, 0, seededSlots)
	for _, person := range payload.AuthorizedPersons {
		persons = append(persons, AuthorizedPerson{
			ID:            uuid.NewString(),
			Name:          person.Name,
			Relationship:  person.Relationship,
			ContactNumber: person.ContactNumber,
		})
	}
	for len(persons) < seededSlots {
		persons = append(persons, AuthorizedPerson{ID: uuid.NewString()})
	}
	a.AuthorizedPersons = persons
}

func mergeCashCard(a *Aggregate, raw json.RawMessage) {
	var payload struct {
		CardNumber     string `json:"cc_card_number"`
		CardHolderName string `json:"cc_card_holder_name"`
		IssueDate      string `json:"cc_issue_date"`
		ExpiryDate     string `json:"cc_expiry_date"`
		BankBranch     string `json:"cc_bank_branch"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	a.CardNumber = payload.CardNumber
	a.CardHolderName = payload.CardHolderName
	a.CardIssueDate = wizard.AsDate(payload.IssueDate)
	a.CardExpiryDate = wizard.AsDate(payload.ExpiryDate)
	a.BankBranch = payload.BankBranch
}

func mergeVerification(a *Aggregate, raw json.RawMessage) {
	var payload struct {
		IDPresented  string `json:"vf_id_presented"`
		IDNumber     string `json:"vf_id_number"`
		Acknowledged bool   `json:"vf_acknowledged"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return
	}
	a.IDPresented = payload.IDPresented
	a.IDNumber = payload.IDNumber
	a.Acknowledged = payload.Acknowledged
}
