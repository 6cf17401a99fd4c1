package borrowerprofile

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"philfund-wizard/internal/wizard"
)

// allowedMapProviders are the domain substrings an office map link must
// contain, on top of being a well-formed URL.
var allowedMapProviders = []string{
	"google.com/maps",
	"maps.app.goo.gl",
	"goo.gl/maps",
	"waze.com",
}

// ValidateBasicInfo checks the first step: identity, contact, and the
// conditional spouse block. Spouse fields are required only while civil
// status is "married"; a date of death must fall strictly after the birth
// date.
func ValidateBasicInfo(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	requireString(errs, "firstName", "First Name", a.FirstName)
	requireString(errs, "lastName", "Last Name", a.LastName)
	requireString(errs, "birthPlace", "Birth Place", a.BirthPlace)
	requireString(errs, "gender", "Gender", a.Gender)
	requireString(errs, "civilStatus", "Civil Status", a.CivilStatus)
	requireString(errs, "mobileNumber", "Mobile Number", a.MobileNumber)

	if a.BirthDate == nil {
		errs.Add("birthDate", "Birth Date is required")
	} else if a.BirthDate.After(time.Now()) {
		errs.Add("birthDate", "Birth Date must not be in the future")
	}

	if a.DateOfDeath != nil && a.BirthDate != nil && !a.DateOfDeath.After(*a.BirthDate) {
		errs.Add("dateOfDeath", "Date of Death must be after the birth date")
	}

	if a.Email != "" {
		if err := validation.Validate(a.Email, is.Email); err != nil {
			errs.Add("email", "Email address is not valid")
		}
	}
	if a.MobileNumber != "" {
		if err := validation.Validate(a.MobileNumber, is.Digit); err != nil {
			errs.Add("mobileNumber", "Mobile Number must contain digits only")
		}
	}
	if a.TINNumber != "" {
		if err := validation.Validate(a.TINNumber, is.Digit); err != nil {
			errs.Add("tinNumber", "TIN must contain digits only")
		}
	}

	if a.CivilStatus == "married" {
		requireString(errs, "spouseName", "Spouse Name", a.SpouseName)
		requireString(errs, "spouseOccupation", "Spouse Occupation", a.SpouseOccupation)
		requireString(errs, "spouseAddress", "Spouse Address", a.SpouseAddress)
		requireString(errs, "spouseContact", "Spouse Contact", a.SpouseContact)
	}

	return errs
}

// ValidateDependents applies the repeatable-collection rule: the step passes
// when at least one slot is complete. With zero complete slots, every
// partially-filled slot gets per-field errors and a collection-level summary
// error is added under "dependents". Future birthdates are rejected
// regardless.
func ValidateDependents(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}
	now := time.Now()

	for _, dep := range a.Dependents {
		if dep.Birthdate != nil && dep.Birthdate.After(now) {
			errs.Add(dep.ID+"_birthdate", "Birthdate must not be in the future")
		}
	}

	complete := 0
	for _, dep := range a.Dependents {
		if dep.IsComplete() {
			complete++
		}
	}
	if complete > 0 {
		return errs
	}

	for _, dep := range a.Dependents {
		if dep.IsEmpty() {
			continue
		}
		if dep.Name == "" {
			errs.Add(dep.ID+"_name", "Dependent name is required")
		}
		if dep.Birthdate == nil {
			errs.Add(dep.ID+"_birthdate", "Dependent birthdate is required")
		}
	}
	errs.Add("dependents", "At least one complete dependent is required")
	return errs
}

// ValidateAddressDetails requires the current address and, unless the
// permanent address is declared the same as the current one, the permanent
// address too.
func ValidateAddressDetails(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	requireString(errs, "currentStreet", "Street", a.CurrentStreet)
	requireString(errs, "currentBarangay", "Barangay", a.CurrentBarangay)
	requireString(errs, "currentCity", "City", a.CurrentCity)
	requireString(errs, "currentProvince", "Province", a.CurrentProvince)
	requireString(errs, "currentPostalCode", "Postal Code", a.CurrentPostalCode)

	if a.CurrentPostalCode != "" {
		if err := validation.Validate(a.CurrentPostalCode, is.Digit); err != nil {
			errs.Add("currentPostalCode", "Postal Code must contain digits only")
		}
	}

	if !a.SameAsCurrent {
		requireString(errs, "permanentStreet", "Permanent Street", a.PermanentStreet)
		requireString(errs, "permanentBarangay", "Permanent Barangay", a.PermanentBarangay)
		requireString(errs, "permanentCity", "Permanent City", a.PermanentCity)
		requireString(errs, "permanentProvince", "Permanent Province", a.PermanentProvince)
		requireString(errs, "permanentPostalCode", "Permanent Postal Code", a.PermanentPostalCode)

		if a.PermanentPostalCode != "" {
			if err := validation.Validate(a.PermanentPostalCode, is.Digit); err != nil {
				errs.Add("permanentPostalCode", "Permanent Postal Code must contain digits only")
			}
		}
	}

	return errs
}

// ValidateWorkInformation checks employment fields. The office map link must
// be a well-formed URL and point at one of the allowed map providers; both
// checks must pass.
func ValidateWorkInformation(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	requireString(errs, "employerName", "Employer Name", a.EmployerName)
	requireString(errs, "position", "Position", a.Position)
	requireString(errs, "workAddress", "Work Address", a.WorkAddress)

	if a.MonthlyIncome <= 0 {
		errs.Add("monthlyIncome", "Monthly Income is required")
	}

	link := strings.TrimSpace(a.OfficeMapLink)
	if link == "" {
		errs.Add("officeMapLink", "Office Map Link is required")
	} else if !govalidator.IsURL(link) {
		errs.Add("officeMapLink", "Office Map Link must be a valid URL")
	} else if !hasAllowedMapProvider(link) {
		errs.Add("officeMapLink", "Office Map Link must point to a supported map provider")
	}

	return errs
}

func hasAllowedMapProvider(link string) bool {
	for _, provider := range allowedMapProviders {
		if strings.Contains(link, provider) {
			return true
		}
	}
	return false
}

// ValidateAuthorization mirrors the dependents collection rule for
// authorized persons.
func ValidateAuthorization(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	for _, person := range a.AuthorizedPersons {
		if person.ContactNumber != "" {
			if err := validation.Validate(person.ContactNumber, is.Digit); err != nil {
				errs.Add(person.ID+"_contact", "Contact number must contain digits only")
			}
		}
	}

	complete := 0
	for _, person := range a.AuthorizedPersons {
		if person.IsComplete() {
			complete++
		}
	}
	if complete > 0 {
		return errs
	}

	for _, person := range a.AuthorizedPersons {
		if person.IsEmpty() {
			continue
		}
		if person.Name == "" {
			errs.Add(person.ID+"_name", "Name is required")
		}
		if person.Relationship == "" {
			errs.Add(person.ID+"_relationship", "Relationship is required")
		}
		if person.ContactNumber == "" {
			errs.Add(person.ID+"_contact", "Contact number is required")
		}
	}
	errs.Add("authorizedPersons", "At least one complete authorized person is required")
	return errs
}

// ValidatePhilfundCashCard checks the cash card step. The expiry date must
// be strictly in the future relative to validation time.
func ValidatePhilfundCashCard(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}
	now := time.Now()

	requireString(errs, "cardHolderName", "Card Holder Name", a.CardHolderName)
	requireString(errs, "bankBranch", "Bank Branch", a.BankBranch)

	if strings.TrimSpace(a.CardNumber) == "" {
		errs.Add("cardNumber", "Card Number is required")
	} else if err := validation.Validate(a.CardNumber, is.Digit); err != nil {
		errs.Add("cardNumber", "Card Number must contain digits only")
	}

	if a.CardIssueDate == nil {
		errs.Add("cardIssueDate", "Card issue date is required")
	} else if a.CardIssueDate.After(now) {
		errs.Add("cardIssueDate", "Card issue date must not be in the future")
	}

	if a.CardExpiryDate == nil {
		errs.Add("cardExpiryDate", "Card expiry date is required")
	} else if !a.CardExpiryDate.After(now) {
		errs.Add("cardExpiryDate", "Card expiry date must be in the future")
	}

	return errs
}

// ValidateVerification checks the final step: the presented ID and the
// declaration acknowledgement.
func ValidateVerification(a *Aggregate) wizard.ValidationErrors {
	errs := wizard.ValidationErrors{}

	requireString(errs, "idPresented", "ID Presented", a.IDPresented)
	requireString(errs, "idNumber", "ID Number", a.IDNumber)

	if !a.Acknowledged {
		errs.Add("acknowledged", "You must confirm the declaration")
	}

	return errs
}

// requireString flags empty or whitespace-only values.
func requireString(errs wizard.ValidationErrors, field, label, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, label+" is required")
	}
}
