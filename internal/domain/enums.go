package domain

// SchoolType is the education level a school row is imported as.
// Values are stored verbatim in schools.school_type.
type SchoolType string

const (
	SchoolTypeLowerSecondary SchoolType = "ortaokul"
	SchoolTypeUpperSecondary SchoolType = "lise"
)

func (t SchoolType) String() string { return string(t) }

func (t SchoolType) IsValid() bool {
	switch t {
	case SchoolTypeLowerSecondary, SchoolTypeUpperSecondary:
		return true
	}
	return false
}

// DatasetKind identifies one of the two fixed input shapes the importer understands.
type DatasetKind string

const (
	DatasetSchools      DatasetKind = "schools"
	DatasetAssociations DatasetKind = "associations"
)

func (k DatasetKind) String() string { return string(k) }

func (k DatasetKind) IsValid() bool {
	switch k {
	case DatasetSchools, DatasetAssociations:
		return true
	}
	return false
}

// AllDatasets lists datasets in their canonical processing order.
func AllDatasets() []DatasetKind {
	return []DatasetKind{DatasetSchools, DatasetAssociations}
}
