// Package borrowerprofile defines the seven-step borrower onboarding wizard:
// basic info, dependents, address details, work information, authorization,
// cash card, and verification.
package borrowerprofile

import (
	"time"

	"github.com/google/uuid"
)

// Dependent is one repeatable dependent slot. ID is an opaque local
// identifier, stable for the editing session; empty slots are pruned before
// submission.
type Dependent struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
}

// IsEmpty reports whether the slot was never touched.
func (d Dependent) IsEmpty() bool {
	return d.Name == "" && d.Birthdate == nil
}

// IsComplete reports whether every required subfield is filled.
func (d Dependent) IsComplete() bool {
	return d.Name != "" && d.Birthdate != nil
}

// AuthorizedPerson is one person permitted to transact on the borrower's
// behalf.
type AuthorizedPerson struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Relationship  string `json:"relationship"`
	ContactNumber string `json:"contactNumber"`
}

func (p AuthorizedPerson) IsEmpty() bool {
	return p.Name == "" && p.Relationship == "" && p.ContactNumber == ""
}

func (p AuthorizedPerson) IsComplete() bool {
	return p.Name != "" && p.Relationship != "" && p.ContactNumber != ""
}

// Aggregate is the complete in-memory value object spanning every step of
// one borrower-profile wizard instance. It is owned by the wizard shell and
// discarded when the wizard closes.
type Aggregate struct {
	// basic-info
	FirstName   string
	MiddleName  string
	LastName    string
	Suffix      string
	BirthDate   *time.Time
	BirthPlace  string
	Gender      string
	CivilStatus string
	Email       string
	MobileNumber string
	TINNumber   string
	DateOfDeath *time.Time

	SpouseName       string
	SpouseOccupation string
	SpouseAddress    string
	SpouseContact    string

	// derived from BirthDate after every update
	Age int

	// dependents
	Dependents []Dependent

	// address-details
	CurrentHouseNo    string
	CurrentStreet     string
	CurrentBarangay   string
	CurrentCity       string
	CurrentProvince   string
	CurrentPostalCode string
	SameAsCurrent     bool
	PermanentHouseNo    string
	PermanentStreet     string
	PermanentBarangay   string
	PermanentCity       string
	PermanentProvince   string
	PermanentPostalCode string

	// work-information
	EmployerName    string
	Position        string
	YearsEmployed   int
	MonthlyIncome   float64
	WorkAddress     string
	WorkContact     string
	OfficeMapLink   string

	// authorization
	AuthorizedPersons []AuthorizedPerson

	// philfund-cash-card
	CardNumber     string
	CardHolderName string
	CardIssueDate  *time.Time
	CardExpiryDate *time.Time
	BankBranch     string

	// verification
	IDPresented  string
	IDNumber     string
	Acknowledged bool
}

// seededSlots is how many empty dependent and authorized-person entries the
// wizard opens with.
const seededSlots = 3

// NewAggregate returns the default skeleton: typed zero values with the
// repeatable collections pre-seeded.
func NewAggregate() *Aggregate {
	agg := &Aggregate{
		Dependents:        make([]Dependent, 0, seededSlots),
		AuthorizedPersons: make([]AuthorizedPerson, 0, seededSlots),
	}
	for i := 0; i < seededSlots; i++ {
		agg.Dependents = append(agg.Dependents, Dependent{ID: uuid.NewString()})
		agg.AuthorizedPersons = append(agg.AuthorizedPersons, AuthorizedPerson{ID: uuid.NewString()})
	}
	return agg
}

// Derive recomputes derived fields as a pure pass over the aggregate.
func Derive(a *Aggregate) {
	a.Age = ageAt(a.BirthDate, time.Now())
}

func ageAt(birthDate *time.Time, now time.Time) int {
	if birthDate == nil {
		return 0
	}
	years := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
