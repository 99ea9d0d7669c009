package domain

// Association is a normalized row of the association dataset.
// Columns populated elsewhere in the system (logo, founding date, social
// media, email, admin user, coordinates, address) are not represented: the
// importer always writes them as NULL.
type Association struct {
	Name        string
	Chairperson *string
	Phone       *string
	Province    string
	District    *string
}

// GroupCount is one row of a grouped aggregate (e.g. records per province).
type GroupCount struct {
	Label string `db:"label"`
	Total int64  `db:"total"`
}

// Aggregates holds the read-only post-run counts rendered in the final report.
// Province groupings are complete and ordered by Total descending; the
// report decides how many to show.
type Aggregates struct {
	SchoolsByType          []GroupCount
	SchoolsByProvince      []GroupCount
	AssociationsTotal      int64
	AssociationsByProvince []GroupCount
}
