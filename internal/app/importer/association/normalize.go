// Package association turns raw association rows into domain.Association
// records: phone cleanup, placeholder disambiguation, chairperson derivation.
package association

import (
	"strings"

	"github.com/heartmarshall/membership-backend/internal/app/importer/layout"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Columns is the column-position contract of the association export.
// Only the first four cells are required; spreadsheet readers drop trailing
// blank cells, so rows without a chairperson or phone are shorter.
var Columns = layout.Columns{
	Roles: []layout.Role{
		layout.RoleSequence,
		layout.RoleProvince,
		layout.RoleDistrict,
		layout.RoleAssocName,
		layout.RoleFirstName,
		layout.RoleLastName,
		layout.RolePhone,
	},
	Min: 4,
}

// Phone length bounds, in digits.
const (
	PhoneMinDigits = 10
	PhoneMaxDigits = 15
)

// Placeholder is the generic name many representative rows share.
const Placeholder = "Temsilci"

// Notes records non-fatal adjustments made to a row, for logging.
type Notes struct {
	// PhoneDigits is the digit count before truncation or discard.
	PhoneDigits    int
	PhoneTruncated bool
	PhoneDiscarded bool
	Disambiguated  bool
}

// Normalize builds an association from row.
// Non-data rows return a domain.ErrRowSkipped error; rows without province or
// name return a *domain.ValidationError.
func Normalize(row []string) (domain.Association, Notes, error) {
	var notes Notes

	if err := Columns.Check(row); err != nil {
		return domain.Association{}, notes, err
	}

	province := domain.UpperText(Columns.Cell(row, layout.RoleProvince))
	name := Columns.Cell(row, layout.RoleAssocName)

	var missing []domain.FieldError
	if province == "" {
		missing = append(missing, domain.FieldError{Field: "province", Message: "required"})
	}
	if name == "" {
		missing = append(missing, domain.FieldError{Field: "association_name", Message: "required"})
	}
	if len(missing) > 0 {
		return domain.Association{}, notes, domain.NewValidationErrors(missing)
	}

	district := domain.UpperText(Columns.Cell(row, layout.RoleDistrict))

	if domain.EqualFoldText(name, Placeholder) {
		name = disambiguate(name, province, district)
		notes.Disambiguated = true
	}

	phone := domain.DigitsOnly(Columns.Cell(row, layout.RolePhone))
	notes.PhoneDigits = len(phone)
	switch {
	case len(phone) > PhoneMaxDigits:
		phone = phone[:PhoneMaxDigits]
		notes.PhoneTruncated = true
	case len(phone) > 0 && len(phone) < PhoneMinDigits:
		phone = ""
		notes.PhoneDiscarded = true
	}

	return domain.Association{
		Name:        name,
		Chairperson: chairperson(Columns.Cell(row, layout.RoleFirstName), Columns.Cell(row, layout.RoleLastName)),
		Phone:       domain.OptionalText(phone),
		Province:    province,
		District:    domain.OptionalText(district),
	}, notes, nil
}

// disambiguate appends the location so rows sharing the placeholder name stay
// distinct: "Temsilci - ANKARA" or "Temsilci - ANKARA / ÇANKAYA".
func disambiguate(name, province, district string) string {
	name = name + " - " + province
	if district != "" {
		name += " / " + district
	}
	return name
}

// chairperson joins the upper-cased first and last name; nil when both are blank.
func chairperson(first, last string) *string {
	full := strings.TrimSpace(domain.UpperText(first) + " " + domain.UpperText(last))
	return domain.OptionalText(full)
}
