package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
)

const (
	DefaultTransitionMs = 5000
	MinTransitionMs     = 1000
	MaxTransitionMs     = 60000
)

// Store implements the metadata operations shared by the SQL backends.
type Store struct {
	DB       *sql.DB
	Q        Queries
	IsUnique func(err error) bool
}

func (st *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := st.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (st *Store) mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return e.ErrNotFound
	}
	if st.IsUnique != nil && st.IsUnique(err) {
		return e.ErrAlreadyExists
	}
	return err
}

func expectAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (st *Store) CreateStation(ctx context.Context, name, location string) (s.Station, error) {
	station := s.Station{Name: name, Location: location, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := st.DB.QueryRowContext(ctx, st.Q.InsertStation, name, location, station.CreatedAt).Scan(&station.ID); err != nil {
		return s.Station{}, st.mapErr(err)
	}
	log.Debug().Int64("station_id", station.ID).Msg("Created station")
	return station, nil
}

func (st *Store) GetStation(ctx context.Context, id int64) (s.Station, error) {
	var station s.Station
	err := st.DB.QueryRowContext(ctx, st.Q.GetStation, id).Scan(&station.ID, &station.Name, &station.Location, &station.CreatedAt)
	if err != nil {
		return s.Station{}, st.mapErr(err)
	}
	return station, nil
}

func (st *Store) ListStations(ctx context.Context) ([]s.Station, error) {
	rows, err := st.DB.QueryContext(ctx, st.Q.ListStations)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]s.Station, 0)
	for rows.Next() {
		var station s.Station
		if err = rows.Scan(&station.ID, &station.Name, &station.Location, &station.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, station)
	}
	return result, rows.Err()
}

func (st *Store) UpdateStation(ctx context.Context, station s.Station) error {
	result, err := st.DB.ExecContext(ctx, st.Q.UpdateStation, station.Name, station.Location, station.ID)
	if err != nil {
		return st.mapErr(err)
	}
	return expectAffected(result)
}

// DeleteStation removes the station along with its TVs and their assignments.
func (st *Store) DeleteStation(ctx context.Context, id int64) error {
	return st.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, st.Q.DeleteStationAssignments, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, st.Q.DeleteStationTVs, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, st.Q.DeleteStation, id)
		if err != nil {
			return err
		}
		return expectAffected(result)
	})
}

func (st *Store) CreateTV(ctx context.Context, stationID int64, name string) (s.TV, error) {
	if _, err := st.GetStation(ctx, stationID); err != nil {
		return s.TV{}, err
	}

	tv := s.TV{StationID: stationID, Name: name, TransitionMs: DefaultTransitionMs, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	err := st.DB.QueryRowContext(ctx, st.Q.InsertTV, stationID, name, tv.TransitionMs, tv.CreatedAt).Scan(&tv.ID)
	if err != nil {
		return s.TV{}, st.mapErr(err)
	}
	log.Debug().Int64("tv_id", tv.ID).Int64("station_id", stationID).Msg("Created TV")
	return tv, nil
}

func (st *Store) GetTV(ctx context.Context, id int64) (s.TV, error) {
	var tv s.TV
	err := st.DB.QueryRowContext(ctx, st.Q.GetTV, id).Scan(&tv.ID, &tv.StationID, &tv.Name, &tv.TransitionMs, &tv.CreatedAt)
	if err != nil {
		return s.TV{}, st.mapErr(err)
	}
	return tv, nil
}

// ListTVs lists every TV, or only the TVs of one station when stationID is non zero.
func (st *Store) ListTVs(ctx context.Context, stationID int64) ([]s.TV, error) {
	var rows *sql.Rows
	var err error
	if stationID == 0 {
		rows, err = st.DB.QueryContext(ctx, st.Q.ListTVs)
	} else {
		rows, err = st.DB.QueryContext(ctx, st.Q.ListStationTVs, stationID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]s.TV, 0)
	for rows.Next() {
		var tv s.TV
		if err = rows.Scan(&tv.ID, &tv.StationID, &tv.Name, &tv.TransitionMs, &tv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, tv)
	}
	return result, rows.Err()
}

func (st *Store) UpdateTV(ctx context.Context, tv s.TV) error {
	result, err := st.DB.ExecContext(ctx, st.Q.UpdateTV, tv.Name, tv.ID)
	if err != nil {
		return st.mapErr(err)
	}
	return expectAffected(result)
}

func (st *Store) SetTransitionTime(ctx context.Context, tvID int64, ms int) error {
	if ms < MinTransitionMs || ms > MaxTransitionMs {
		return e.ErrInvalidTransitionTime
	}
	result, err := st.DB.ExecContext(ctx, st.Q.SetTransitionTime, ms, tvID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (st *Store) DeleteTV(ctx context.Context, id int64) error {
	return st.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, st.Q.DeleteTVAssignments, id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, st.Q.DeleteTV, id)
		if err != nil {
			return err
		}
		return expectAffected(result)
	})
}

func (st *Store) CreateMedia(ctx context.Context, m s.MediaAsset) (s.MediaAsset, error) {
	if m.UploadedAt.IsZero() {
		m.UploadedAt = time.Now().UTC().Truncate(time.Second)
	}
	err := st.DB.QueryRowContext(ctx, st.Q.InsertMedia, m.Filename, m.OriginalName, string(m.Kind), m.Size, m.UploadedAt).Scan(&m.ID)
	if err != nil {
		return s.MediaAsset{}, st.mapErr(err)
	}
	return m, nil
}

func scanMedia(row interface{ Scan(...interface{}) error }) (s.MediaAsset, error) {
	var m s.MediaAsset
	var kind string
	if err := row.Scan(&m.ID, &m.Filename, &m.OriginalName, &kind, &m.Size, &m.UploadedAt); err != nil {
		return s.MediaAsset{}, err
	}
	m.Kind = s.MediaKind(kind)
	return m, nil
}

func (st *Store) GetMedia(ctx context.Context, id int64) (s.MediaAsset, error) {
	m, err := scanMedia(st.DB.QueryRowContext(ctx, st.Q.GetMedia, id))
	if err != nil {
		return s.MediaAsset{}, st.mapErr(err)
	}
	return m, nil
}

func (st *Store) ListMedia(ctx context.Context) ([]s.MediaAsset, error) {
	rows, err := st.DB.QueryContext(ctx, st.Q.ListMedia)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]s.MediaAsset, 0)
	for rows.Next() {
		m, err2 := scanMedia(rows)
		if err2 != nil {
			return nil, err2
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// DeleteMedia removes the asset and every assignment referencing it, returning the deleted row
// so the caller can remove the blob.
func (st *Store) DeleteMedia(ctx context.Context, id int64) (s.MediaAsset, error) {
	var deleted s.MediaAsset
	err := st.withTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMedia(tx.QueryRowContext(ctx, st.Q.GetMedia, id))
		if err != nil {
			return st.mapErr(err)
		}
		if _, err = tx.ExecContext(ctx, st.Q.DeleteMediaAssignments, id); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, st.Q.DeleteMedia, id); err != nil {
			return err
		}
		deleted = m
		return nil
	})
	return deleted, err
}

// ReplaceAssignments replaces a TV's playlist wholesale, display_order is the index in mediaIDs.
func (st *Store) ReplaceAssignments(ctx context.Context, tvID int64, mediaIDs []int64) error {
	if _, err := st.GetTV(ctx, tvID); err != nil {
		return err
	}

	return st.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, st.Q.DeleteTVAssignments, tvID); err != nil {
			return err
		}
		for i, mediaID := range mediaIDs {
			if _, err := scanMedia(tx.QueryRowContext(ctx, st.Q.GetMedia, mediaID)); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("media %d: %w", mediaID, e.ErrInvalidAssignment)
				}
				return err
			}
			if _, err := tx.ExecContext(ctx, st.Q.InsertAssignment, tvID, mediaID, i, true); err != nil {
				return st.mapErr(err)
			}
		}
		return nil
	})
}

func (st *Store) SetAssignmentActive(ctx context.Context, tvID, mediaID int64, active bool) error {
	result, err := st.DB.ExecContext(ctx, st.Q.SetAssignmentActive, active, tvID, mediaID)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// GetTVMedia returns the media library plus the TV's active assignments in display order.
func (st *Store) GetTVMedia(ctx context.Context, tvID int64) (s.TVMedia, error) {
	if _, err := st.GetTV(ctx, tvID); err != nil {
		return s.TVMedia{}, err
	}

	allMedia, err := st.ListMedia(ctx)
	if err != nil {
		return s.TVMedia{}, err
	}

	rows, err := st.DB.QueryContext(ctx, st.Q.ListActiveAssignments, tvID)
	if err != nil {
		return s.TVMedia{}, err
	}
	defer rows.Close()

	assigned := make([]s.PlaybackItem, 0)
	for rows.Next() {
		var item s.PlaybackItem
		var kind string
		err = rows.Scan(&item.ID, &item.Filename, &item.OriginalName, &kind, &item.Size, &item.UploadedAt,
			&item.TVID, &item.DisplayOrder, &item.Active)
		if err != nil {
			return s.TVMedia{}, err
		}
		item.Kind = s.MediaKind(kind)
		item.MediaID = item.ID
		assigned = append(assigned, item)
	}
	if err = rows.Err(); err != nil {
		return s.TVMedia{}, err
	}

	return s.TVMedia{AllMedia: allMedia, AssignedMedia: assigned, TVID: tvID}, nil
}
