// Package school turns raw school rows into domain.School records.
package school

import (
	"strings"

	"github.com/heartmarshall/membership-backend/internal/app/importer/layout"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Columns is the column-position contract of the school export.
var Columns = layout.Columns{
	Roles: []layout.Role{
		layout.RoleSequence,
		layout.RoleProvince,
		layout.RoleDistrict,
		layout.RoleCode,
		layout.RoleSchoolName,
	},
	Min: 5,
}

// Normalize builds a school of type t from row.
// Non-data rows return a domain.ErrRowSkipped error; rows without province or
// name return a *domain.ValidationError.
func Normalize(row []string, t domain.SchoolType) (domain.School, error) {
	if err := Columns.Check(row); err != nil {
		return domain.School{}, err
	}

	province := domain.UpperText(Columns.Cell(row, layout.RoleProvince))
	name := Columns.Cell(row, layout.RoleSchoolName)

	var missing []domain.FieldError
	if province == "" {
		missing = append(missing, domain.FieldError{Field: "province", Message: "required"})
	}
	if name == "" {
		missing = append(missing, domain.FieldError{Field: "institution_name", Message: "required"})
	}
	if len(missing) > 0 {
		return domain.School{}, domain.NewValidationErrors(missing)
	}

	return domain.School{
		Province:        province,
		District:        domain.OptionalText(domain.UpperText(Columns.Cell(row, layout.RoleDistrict))),
		InstitutionCode: domain.OptionalText(cleanCode(Columns.Cell(row, layout.RoleCode))),
		Name:            name,
		Type:            t,
	}, nil
}

// cleanCode undoes float rendering of numeric codes ("123456.0" -> "123456").
func cleanCode(code string) string {
	whole, frac, ok := strings.Cut(code, ".")
	if !ok || whole == "" || strings.Trim(frac, "0") != "" {
		return code
	}
	if domain.DigitsOnly(whole) != whole {
		return code
	}
	return whole
}
