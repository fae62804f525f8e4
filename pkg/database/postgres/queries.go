package postgres

import "github.com/terrycain/station-tv-server/pkg/database/sqlstore"

const (
	InsertStation = `INSERT INTO stations ("name", "location", "created_at") VALUES ($1, $2, $3) RETURNING "id";`
	GetStation    = `SELECT id, name, location, created_at FROM stations WHERE id = $1;`
	ListStations  = `SELECT id, name, location, created_at FROM stations ORDER BY name, id;`
	UpdateStation = `UPDATE stations SET name = $1, location = $2 WHERE id = $3;`
	DeleteStation = `DELETE FROM stations WHERE id = $1;`

	DeleteStationAssignments = `DELETE FROM tv_media WHERE tv_id IN (SELECT id FROM tvs WHERE station_id = $1);`
	DeleteStationTVs         = `DELETE FROM tvs WHERE station_id = $1;`

	InsertTV          = `INSERT INTO tvs ("station_id", "name", "transition_ms", "created_at") VALUES ($1, $2, $3, $4) RETURNING "id";`
	GetTV             = `SELECT id, station_id, name, transition_ms, created_at FROM tvs WHERE id = $1;`
	ListTVs           = `SELECT id, station_id, name, transition_ms, created_at FROM tvs ORDER BY station_id, name, id;`
	ListStationTVs    = `SELECT id, station_id, name, transition_ms, created_at FROM tvs WHERE station_id = $1 ORDER BY name, id;`
	UpdateTV          = `UPDATE tvs SET name = $1 WHERE id = $2;`
	SetTransitionTime = `UPDATE tvs SET transition_ms = $1 WHERE id = $2;`
	DeleteTV          = `DELETE FROM tvs WHERE id = $1;`

	InsertMedia = `INSERT INTO media ("filename", "original_name", "kind", "size", "uploaded_at") VALUES ($1, $2, $3, $4, $5) RETURNING "id";`
	GetMedia    = `SELECT id, filename, original_name, kind, size, uploaded_at FROM media WHERE id = $1;`
	ListMedia   = `SELECT id, filename, original_name, kind, size, uploaded_at FROM media ORDER BY uploaded_at DESC, id DESC;`
	DeleteMedia = `DELETE FROM media WHERE id = $1;`

	DeleteTVAssignments    = `DELETE FROM tv_media WHERE tv_id = $1;`
	DeleteMediaAssignments = `DELETE FROM tv_media WHERE media_id = $1;`
	InsertAssignment       = `INSERT INTO tv_media ("tv_id", "media_id", "display_order", "is_active") VALUES ($1, $2, $3, $4);`
	SetAssignmentActive    = `UPDATE tv_media SET is_active = $1 WHERE tv_id = $2 AND media_id = $3;`
	ListActiveAssignments  = `SELECT m.id, m.filename, m.original_name, m.kind, m.size, m.uploaded_at, tm.tv_id, tm.display_order, tm.is_active
FROM tv_media tm
JOIN media m ON m.id = tm.media_id
WHERE tm.tv_id = $1 AND tm.is_active = TRUE
ORDER BY tm.display_order ASC;`
)

var queries = sqlstore.Queries{
	InsertStation:            InsertStation,
	GetStation:               GetStation,
	ListStations:             ListStations,
	UpdateStation:            UpdateStation,
	DeleteStation:            DeleteStation,
	DeleteStationAssignments: DeleteStationAssignments,
	DeleteStationTVs:         DeleteStationTVs,
	InsertTV:                 InsertTV,
	GetTV:                    GetTV,
	ListTVs:                  ListTVs,
	ListStationTVs:           ListStationTVs,
	UpdateTV:                 UpdateTV,
	SetTransitionTime:        SetTransitionTime,
	DeleteTV:                 DeleteTV,
	InsertMedia:              InsertMedia,
	GetMedia:                 GetMedia,
	ListMedia:                ListMedia,
	DeleteMedia:              DeleteMedia,
	DeleteTVAssignments:      DeleteTVAssignments,
	DeleteMediaAssignments:   DeleteMediaAssignments,
	InsertAssignment:         InsertAssignment,
	SetAssignmentActive:      SetAssignmentActive,
	ListActiveAssignments:    ListActiveAssignments,
}
