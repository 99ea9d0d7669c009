package domain

// School is a normalized row of the school dataset.
// Province and District are upper-cased; Name keeps its source casing.
type School struct {
	Province        string
	District        *string
	InstitutionCode *string
	Name            string
	Type            SchoolType
}

// SchoolKey is the lookup key the existing-record index answers for.
// A school matches when, within the same Type, either InstitutionCode is
// equal (only when present) or (Province, District-or-empty, Name) is equal.
type SchoolKey struct {
	Type            SchoolType
	InstitutionCode string
	Province        string
	District        string
	Name            string
}

// Key derives the duplicate-detection key of s.
func (s School) Key() SchoolKey {
	return SchoolKey{
		Type:            s.Type,
		InstitutionCode: Deref(s.InstitutionCode),
		Province:        s.Province,
		District:        Deref(s.District),
		Name:            s.Name,
	}
}
