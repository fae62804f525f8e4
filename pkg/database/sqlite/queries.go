package sqlite

import "github.com/terrycain/station-tv-server/pkg/database/sqlstore"

const (
	InsertStation = `INSERT INTO stations ("name", "location", "created_at") VALUES (?, ?, ?) RETURNING "id";`
	GetStation    = `SELECT id, name, location, created_at FROM stations WHERE id = ?;`
	ListStations  = `SELECT id, name, location, created_at FROM stations ORDER BY name, id;`
	UpdateStation = `UPDATE stations SET name = ?, location = ? WHERE id = ?;`
	DeleteStation = `DELETE FROM stations WHERE id = ?;`

	DeleteStationAssignments = `DELETE FROM tv_media WHERE tv_id IN (SELECT id FROM tvs WHERE station_id = ?);`
	DeleteStationTVs         = `DELETE FROM tvs WHERE station_id = ?;`

	InsertTV          = `INSERT INTO tvs ("station_id", "name", "transition_ms", "created_at") VALUES (?, ?, ?, ?) RETURNING "id";`
	GetTV             = `SELECT id, station_id, name, transition_ms, created_at FROM tvs WHERE id = ?;`
	ListTVs           = `SELECT id, station_id, name, transition_ms, created_at FROM tvs ORDER BY station_id, name, id;`
	ListStationTVs    = `SELECT id, station_id, name, transition_ms, created_at FROM tvs WHERE station_id = ? ORDER BY name, id;`
	UpdateTV          = `UPDATE tvs SET name = ? WHERE id = ?;`
	SetTransitionTime = `UPDATE tvs SET transition_ms = ? WHERE id = ?;`
	DeleteTV          = `DELETE FROM tvs WHERE id = ?;`

	InsertMedia = `INSERT INTO media ("filename", "original_name", "kind", "size", "uploaded_at") VALUES (?, ?, ?, ?, ?) RETURNING "id";`
	GetMedia    = `SELECT id, filename, original_name, kind, size, uploaded_at FROM media WHERE id = ?;`
	ListMedia   = `SELECT id, filename, original_name, kind, size, uploaded_at FROM media ORDER BY uploaded_at DESC, id DESC;`
	DeleteMedia = `DELETE FROM media WHERE id = ?;`

	DeleteTVAssignments    = `DELETE FROM tv_media WHERE tv_id = ?;`
	DeleteMediaAssignments = `DELETE FROM tv_media WHERE media_id = ?;`
	InsertAssignment       = `INSERT INTO tv_media ("tv_id", "media_id", "display_order", "is_active") VALUES (?, ?, ?, ?);`
	SetAssignmentActive    = `UPDATE tv_media SET is_active = ? WHERE tv_id = ? AND media_id = ?;`
	ListActiveAssignments  = `SELECT m.id, m.filename, m.original_name, m.kind, m.size, m.uploaded_at, tm.tv_id, tm.display_order, tm.is_active
FROM tv_media tm
JOIN media m ON m.id = tm.media_id
WHERE tm.tv_id = ? AND tm.is_active = 1
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
