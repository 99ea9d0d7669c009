// Package layout declares the fixed column-position contract of a dataset
// and the row checks shared by every normalizer.
package layout

import (
	"fmt"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Role names what a column position holds.
type Role string

const (
	RoleSequence   Role = "sequence_no"
	RoleProvince   Role = "province"
	RoleDistrict   Role = "district"
	RoleCode       Role = "institution_code"
	RoleSchoolName Role = "institution_name"
	RoleAssocName  Role = "association_name"
	RoleFirstName  Role = "first_name"
	RoleLastName   Role = "last_name"
	RolePhone      Role = "phone"
)

// Columns maps column positions to roles. Roles[i] is the role of cell i.
// Rows shorter than Min are not data rows.
type Columns struct {
	Roles []Role
	Min   int
}

// sequenceLabels are first-cell texts of a header row, compared case-insensitively.
var sequenceLabels = []string{"sıra no", "sıra", "sira no", "no", "#"}

// provinceLabel is the second-cell text of a header row.
const provinceLabel = "il"

// Check returns a domain.ErrRowSkipped error for rows that are too short or
// repeat the header labels.
func (c Columns) Check(row []string) error {
	if len(row) < c.Min {
		return fmt.Errorf("%w: %d of %d columns", domain.ErrRowSkipped, len(row), c.Min)
	}
	if IsHeader(row) {
		return fmt.Errorf("%w: header row", domain.ErrRowSkipped)
	}
	return nil
}

// Cell returns the cleaned value of the cell holding role, or "" when the
// row has no such cell. Spreadsheet readers drop trailing blank cells, so a
// missing trailing cell reads as blank.
func (c Columns) Cell(row []string, role Role) string {
	for i, r := range c.Roles {
		if r != role {
			continue
		}
		if i >= len(row) {
			return ""
		}
		return domain.CleanText(row[i])
	}
	return ""
}

// IsHeader reports whether row looks like the header: a sequence label in
// the first cell or the province label in the second.
func IsHeader(row []string) bool {
	if len(row) > 0 {
		first := domain.CleanText(row[0])
		for _, label := range sequenceLabels {
			if domain.EqualFoldText(first, label) {
				return true
			}
		}
	}
	return len(row) > 1 && domain.EqualFoldText(row[1], provinceLabel)
}
