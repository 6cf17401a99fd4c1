package borrowerprofile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func validBasicInfo() *Aggregate {
	a := NewAggregate()
	a.FirstName = "Maria"
	a.LastName = "Santos"
	a.BirthDate = date(1990, time.March, 12)
	a.BirthPlace = "Cebu City"
	a.Gender = "female"
	a.CivilStatus = "single"
	a.MobileNumber = "09171234567"
	return a
}

func TestValidateBasicInfoPasses(t *testing.T) {
	errs := ValidateBasicInfo(validBasicInfo())
	assert.True(t, errs.IsEmpty(), "unexpected errors: %v", errs)
}

func TestValidateBasicInfoRequiredFields(t *testing.T) {
	errs := ValidateBasicInfo(NewAggregate())

	assert.Equal(t, "First Name is required", errs["firstName"])
	assert.Equal(t, "Last Name is required", errs["lastName"])
	assert.Equal(t, "Birth Date is required", errs["birthDate"])
	assert.Equal(t, "Mobile Number is required", errs["mobileNumber"])
	_, hasSpouse := errs["spouseName"]
	assert.False(t, hasSpouse, "spouse fields must not be required while not married")
}

func TestValidateBasicInfoWhitespaceOnly(t *testing.T) {
	a := validBasicInfo()
	a.FirstName = "   "
	errs := ValidateBasicInfo(a)
	assert.Equal(t, "First Name is required", errs["firstName"])
}

func TestValidateBasicInfoBirthDateInFuture(t *testing.T) {
	a := validBasicInfo()
	a.BirthDate = date(time.Now().Year()+1, time.January, 1)
	errs := ValidateBasicInfo(a)
	assert.Equal(t, "Birth Date must not be in the future", errs["birthDate"])
}

func TestValidateBasicInfoDateOfDeathOrdering(t *testing.T) {
	a := validBasicInfo()

	// Death before birth is rejected on the dateOfDeath field.
	a.DateOfDeath = date(1980, time.January, 1)
	errs := ValidateBasicInfo(a)
	assert.Equal(t, "Date of Death must be after the birth date", errs["dateOfDeath"])

	// Equal dates are rejected too; the ordering is strict.
	a.DateOfDeath = date(1990, time.March, 12)
	errs = ValidateBasicInfo(a)
	assert.Contains(t, errs, "dateOfDeath")

	a.DateOfDeath = date(2020, time.June, 1)
	errs = ValidateBasicInfo(a)
	assert.NotContains(t, errs, "dateOfDeath")
}

func TestValidateBasicInfoFormats(t *testing.T) {
	a := validBasicInfo()
	a.Email = "not-an-email"
	a.MobileNumber = "0917-123"
	a.TINNumber = "12a45"

	errs := ValidateBasicInfo(a)
	assert.Equal(t, "Email address is not valid", errs["email"])
	assert.Equal(t, "Mobile Number must contain digits only", errs["mobileNumber"])
	assert.Equal(t, "TIN must contain digits only", errs["tinNumber"])
}

func TestValidateBasicInfoSpouseConditional(t *testing.T) {
	a := validBasicInfo()
	a.CivilStatus = "married"

	errs := ValidateBasicInfo(a)
	assert.Equal(t, "Spouse Name is required", errs["spouseName"])
	assert.Equal(t, "Spouse Occupation is required", errs["spouseOccupation"])
	assert.Equal(t, "Spouse Address is required", errs["spouseAddress"])
	assert.Equal(t, "Spouse Contact is required", errs["spouseContact"])

	a.SpouseName = "Jose Santos"
	a.SpouseOccupation = "Nurse"
	a.SpouseAddress = "Cebu City"
	a.SpouseContact = "09181234567"
	assert.True(t, ValidateBasicInfo(a).IsEmpty())

	// Switching back to single drops the spouse requirement entirely.
	a.SpouseName = ""
	a.SpouseOccupation = ""
	a.SpouseAddress = ""
	a.SpouseContact = ""
	a.CivilStatus = "single"
	assert.True(t, ValidateBasicInfo(a).IsEmpty())
}

func TestValidateDependentsOneCompletePasses(t *testing.T) {
	a := NewAggregate()
	a.Dependents[0].Name = "Ana"
	a.Dependents[0].Birthdate = date(2015, time.May, 2)

	// Untouched sibling slots do not block the step.
	assert.True(t, ValidateDependents(a).IsEmpty())
}

func TestValidateDependentsNoneComplete(t *testing.T) {
	a := NewAggregate()
	a.Dependents[0].Name = "Ana" // partial: missing birthdate
	a.Dependents[1].Birthdate = date(2018, time.July, 9)

	errs := ValidateDependents(a)
	assert.Equal(t, "Dependent birthdate is required", errs[a.Dependents[0].ID+"_birthdate"])
	assert.Equal(t, "Dependent name is required", errs[a.Dependents[1].ID+"_name"])
	assert.Equal(t, "At least one complete dependent is required", errs["dependents"])
	// The empty third slot contributes nothing.
	assert.NotContains(t, errs, a.Dependents[2].ID+"_name")
}

func TestValidateDependentsAllEmpty(t *testing.T) {
	errs := ValidateDependents(NewAggregate())
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "dependents")
}

func TestValidateDependentsFutureBirthdateAlwaysRejected(t *testing.T) {
	a := NewAggregate()
	// One complete dependent would normally carry the step.
	a.Dependents[0].Name = "Ana"
	a.Dependents[0].Birthdate = date(2015, time.May, 2)
	a.Dependents[1].Name = "Ben"
	a.Dependents[1].Birthdate = date(time.Now().Year()+2, time.January, 1)

	errs := ValidateDependents(a)
	assert.Equal(t, "Birthdate must not be in the future", errs[a.Dependents[1].ID+"_birthdate"])
}

func validAddress() *Aggregate {
	a := NewAggregate()
	a.CurrentStreet = "Osmena Blvd"
	a.CurrentBarangay = "Capitol Site"
	a.CurrentCity = "Cebu City"
	a.CurrentProvince = "Cebu"
	a.CurrentPostalCode = "6000"
	a.SameAsCurrent = true
	return a
}

func TestValidateAddressDetailsSameAsCurrent(t *testing.T) {
	assert.True(t, ValidateAddressDetails(validAddress()).IsEmpty())
}

func TestValidateAddressDetailsPermanentRequired(t *testing.T) {
	a := validAddress()
	a.SameAsCurrent = false

	errs := ValidateAddressDetails(a)
	assert.Contains(t, errs, "permanentStreet")
	assert.Contains(t, errs, "permanentBarangay")
	assert.Contains(t, errs, "permanentCity")
	assert.Contains(t, errs, "permanentProvince")
	assert.Contains(t, errs, "permanentPostalCode")

	a.PermanentStreet = "Mango Ave"
	a.PermanentBarangay = "Lahug"
	a.PermanentCity = "Cebu City"
	a.PermanentProvince = "Cebu"
	a.PermanentPostalCode = "6000"
	assert.True(t, ValidateAddressDetails(a).IsEmpty())
}

func TestValidateAddressDetailsPostalCodeDigits(t *testing.T) {
	a := validAddress()
	a.CurrentPostalCode = "60A0"
	errs := ValidateAddressDetails(a)
	assert.Equal(t, "Postal Code must contain digits only", errs["currentPostalCode"])
}

func validWork() *Aggregate {
	a := NewAggregate()
	a.EmployerName = "Acme Trading"
	a.Position = "Clerk"
	a.WorkAddress = "Colon St, Cebu City"
	a.MonthlyIncome = 18000
	a.OfficeMapLink = "https://www.google.com/maps/place/Acme"
	return a
}

func TestValidateWorkInformationPasses(t *testing.T) {
	assert.True(t, ValidateWorkInformation(validWork()).IsEmpty())
}

func TestValidateWorkInformationMapLink(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		message string
	}{
		{"empty", "", "Office Map Link is required"},
		{"not a url", "not a url at all", "Office Map Link must be a valid URL"},
		{"valid url wrong provider", "https://example.com/maps", "Office Map Link must point to a supported map provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validWork()
			a.OfficeMapLink = tt.link
			errs := ValidateWorkInformation(a)
			assert.Equal(t, tt.message, errs["officeMapLink"])
		})
	}

	for _, link := range []string{
		"https://www.google.com/maps/place/X",
		"https://maps.app.goo.gl/abc123",
		"https://waze.com/ul/xyz",
	} {
		a := validWork()
		a.OfficeMapLink = link
		assert.True(t, ValidateWorkInformation(a).IsEmpty(), "link %s should pass", link)
	}
}

func TestValidateWorkInformationIncome(t *testing.T) {
	a := validWork()
	a.MonthlyIncome = 0
	errs := ValidateWorkInformation(a)
	assert.Equal(t, "Monthly Income is required", errs["monthlyIncome"])
}

func TestValidateAuthorizationMirrorsCollectionRule(t *testing.T) {
	a := NewAggregate()

	errs := ValidateAuthorization(a)
	assert.Contains(t, errs, "authorizedPersons")

	a.AuthorizedPersons[0].Name = "Pedro Cruz" // partial
	errs = ValidateAuthorization(a)
	assert.Equal(t, "Relationship is required", errs[a.AuthorizedPersons[0].ID+"_relationship"])
	assert.Equal(t, "Contact number is required", errs[a.AuthorizedPersons[0].ID+"_contact"])

	a.AuthorizedPersons[0].Relationship = "brother"
	a.AuthorizedPersons[0].ContactNumber = "09191234567"
	assert.True(t, ValidateAuthorization(a).IsEmpty())
}

func TestValidateAuthorizationContactDigits(t *testing.T) {
	a := NewAggregate()
	a.AuthorizedPersons[0].Name = "Pedro Cruz"
	a.AuthorizedPersons[0].Relationship = "brother"
	a.AuthorizedPersons[0].ContactNumber = "0919-123"

	errs := ValidateAuthorization(a)
	assert.Equal(t, "Contact number must contain digits only", errs[a.AuthorizedPersons[0].ID+"_contact"])
}

func validCashCard() *Aggregate {
	a := NewAggregate()
	a.CardHolderName = "Maria Santos"
	a.BankBranch = "Cebu Main"
	a.CardNumber = "4111222233334444"
	a.CardIssueDate = date(2024, time.January, 15)
	expiry := time.Now().AddDate(2, 0, 0)
	a.CardExpiryDate = &expiry
	return a
}

func TestValidatePhilfundCashCardPasses(t *testing.T) {
	assert.True(t, ValidatePhilfundCashCard(validCashCard()).IsEmpty())
}

func TestValidatePhilfundCashCardExpiryMustBeFuture(t *testing.T) {
	a := validCashCard()
	a.CardExpiryDate = date(2020, time.January, 1)

	errs := ValidatePhilfundCashCard(a)
	assert.Equal(t, "Card expiry date must be in the future", errs["cardExpiryDate"])

	// Correcting the date clears the failure on the next pass.
	expiry := time.Now().AddDate(1, 0, 0)
	a.CardExpiryDate = &expiry
	assert.True(t, ValidatePhilfundCashCard(a).IsEmpty())
}

func TestValidatePhilfundCashCardNumberDigits(t *testing.T) {
	a := validCashCard()
	a.CardNumber = "4111-2222"
	errs := ValidatePhilfundCashCard(a)
	assert.Equal(t, "Card Number must contain digits only", errs["cardNumber"])
}

func TestValidatePhilfundCashCardIssueDateNotFuture(t *testing.T) {
	a := validCashCard()
	a.CardIssueDate = date(time.Now().Year()+1, time.January, 1)
	errs := ValidatePhilfundCashCard(a)
	assert.Equal(t, "Card issue date must not be in the future", errs["cardIssueDate"])
}

func TestValidateVerification(t *testing.T) {
	a := NewAggregate()

	errs := ValidateVerification(a)
	assert.Contains(t, errs, "idPresented")
	assert.Contains(t, errs, "idNumber")
	assert.Equal(t, "You must confirm the declaration", errs["acknowledged"])

	a.IDPresented = "passport"
	a.IDNumber = "P1234567"
	a.Acknowledged = true
	assert.True(t, ValidateVerification(a).IsEmpty())
}

func TestDeriveAge(t *testing.T) {
	a := NewAggregate()
	assert.Equal(t, 0, a.Age)

	birth := time.Now().AddDate(-30, 0, -1)
	a.BirthDate = &birth
	Derive(a)
	assert.Equal(t, 30, a.Age)

	// Birthday later this year: still a year younger.
	birth = time.Now().AddDate(-30, 0, 15)
	a.BirthDate = &birth
	Derive(a)
	assert.Equal(t, 29, a.Age)
}
