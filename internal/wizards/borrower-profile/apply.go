package borrowerprofile

import (
	"strings"

	"philfund-wizard/internal/wizard"
)

// Apply shallow-merges a patch into the aggregate. Field names are the UI
// names; dependent and authorized-person subfields use "{id}_{subfield}"
// keys. Unknown names are ignored.
func Apply(a *Aggregate, p wizard.Patch) {
	for field, value := range p {
		applyField(a, field, value)
	}
}

func applyField(a *Aggregate, field string, value interface{}) {
	switch field {
	case "firstName":
		a.FirstName = wizard.AsString(value)
	case "middleName":
		a.MiddleName = wizard.AsString(value)
	case "lastName":
		a.LastName = wizard.AsString(value)
	case "suffix":
		a.Suffix = wizard.AsString(value)
	case "birthDate":
		a.BirthDate = wizard.AsDate(value)
	case "birthPlace":
		a.BirthPlace = wizard.AsString(value)
	case "gender":
		a.Gender = wizard.AsString(value)
	case "civilStatus":
		a.CivilStatus = wizard.AsString(value)
	case "email":
		a.Email = wizard.AsString(value)
	case "mobileNumber":
		a.MobileNumber = wizard.AsString(value)
	case "tinNumber":
		a.TINNumber = wizard.AsString(value)
	case "dateOfDeath":
		a.DateOfDeath = wizard.AsDate(value)
	case "spouseName":
		a.SpouseName = wizard.AsString(value)
	case "spouseOccupation":
		a.SpouseOccupation = wizard.AsString(value)
	case "spouseAddress":
		a.SpouseAddress = wizard.AsString(value)
	case "spouseContact":
		a.SpouseContact = wizard.AsString(value)

	case "currentHouseNo":
		a.CurrentHouseNo = wizard.AsString(value)
	case "currentStreet":
		a.CurrentStreet = wizard.AsString(value)
	case "currentBarangay":
		a.CurrentBarangay = wizard.AsString(value)
	case "currentCity":
		a.CurrentCity = wizard.AsString(value)
	case "currentProvince":
		a.CurrentProvince = wizard.AsString(value)
	case "currentPostalCode":
		a.CurrentPostalCode = wizard.AsString(value)
	case "sameAsCurrent":
		a.SameAsCurrent = wizard.AsBool(value)
	case "permanentHouseNo":
		a.PermanentHouseNo = wizard.AsString(value)
	case "permanentStreet":
		a.PermanentStreet = wizard.AsString(value)
	case "permanentBarangay":
		a.PermanentBarangay = wizard.AsString(value)
	case "permanentCity":
		a.PermanentCity = wizard.AsString(value)
	case "permanentProvince":
		a.PermanentProvince = wizard.AsString(value)
	case "permanentPostalCode":
		a.PermanentPostalCode = wizard.AsString(value)

	case "employerName":
		a.EmployerName = wizard.AsString(value)
	case "position":
		a.Position = wizard.AsString(value)
	case "yearsEmployed":
		a.YearsEmployed = wizard.AsInt(value)
	case "monthlyIncome":
		a.MonthlyIncome = wizard.AsFloat(value)
	case "workAddress":
		a.WorkAddress = wizard.AsString(value)
	case "workContact":
		a.WorkContact = wizard.AsString(value)
	case "officeMapLink":
		a.OfficeMapLink = wizard.AsString(value)

	case "cardNumber":
		a.CardNumber = wizard.AsString(value)
	case "cardHolderName":
		a.CardHolderName = wizard.AsString(value)
	case "cardIssueDate":
		a.CardIssueDate = wizard.AsDate(value)
	case "cardExpiryDate":
		a.CardExpiryDate = wizard.AsDate(value)
	case "bankBranch":
		a.BankBranch = wizard.AsString(value)

	case "idPresented":
		a.IDPresented = wizard.AsString(value)
	case "idNumber":
		a.IDNumber = wizard.AsString(value)
	case "acknowledged":
		a.Acknowledged = wizard.AsBool(value)

	default:
		applyCollectionField(a, field, value)
	}
}

// applyCollectionField handles "{id}_{subfield}" keys for the dependent and
// authorized-person slots. The local IDs are unique across both collections.
func applyCollectionField(a *Aggregate, field string, value interface{}) {
	sep := strings.LastIndex(field, "_")
	if sep <= 0 {
		return
	}
	id, subfield := field[:sep], field[sep+1:]

	for i := range a.Dependents {
		if a.Dependents[i].ID != id {
			continue
		}
		switch subfield {
		case "name":
			a.Dependents[i].Name = wizard.AsString(value)
		case "birthdate":
			a.Dependents[i].Birthdate = wizard.AsDate(value)
		}
		return
	}

	for i := range a.AuthorizedPersons {
		if a.AuthorizedPersons[i].ID != id {
			continue
		}
		switch subfield {
		case "name":
			a.AuthorizedPersons[i].Name = wizard.AsString(value)
		case "relationship":
			a.AuthorizedPersons[i].Relationship = wizard.AsString(value)
		case "contact":
			a.AuthorizedPersons[i].ContactNumber = wizard.AsString(value)
		}
		return
	}
}
