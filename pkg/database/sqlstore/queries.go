package sqlstore

// Queries holds the dialect specific SQL for a Store.
type Queries struct {
	InsertStation string
	GetStation    string
	ListStations  string
	UpdateStation string
	DeleteStation string

	DeleteStationAssignments string
	DeleteStationTVs         string

	InsertTV          string
	GetTV             string
	ListTVs           string
	ListStationTVs    string
	UpdateTV          string
	SetTransitionTime string
	DeleteTV          string

	InsertMedia string
	GetMedia    string
	ListMedia   string
	DeleteMedia string

	DeleteTVAssignments    string
	DeleteMediaAssignments string
	InsertAssignment       string
	SetAssignmentActive    string
	ListActiveAssignments  string
}
