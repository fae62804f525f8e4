package database

import (
	"context"
	"errors"

	"github.com/terrycain/station-tv-server/pkg/database/postgres"
	"github.com/terrycain/station-tv-server/pkg/database/sqlite"
	"github.com/terrycain/station-tv-server/pkg/s"
)

//go:generate mockgen -destination=../mocks/mock_database.go -package=mocks -mock_names=Backend=MockDatabaseBackend github.com/terrycain/station-tv-server/pkg/database Backend

// Backend is the metadata store for stations, TVs, media and playlist assignments.
type Backend interface {
	Type() string

	CreateStation(ctx context.Context, name, location string) (s.Station, error)
	GetStation(ctx context.Context, id int64) (s.Station, error)
	ListStations(ctx context.Context) ([]s.Station, error)
	UpdateStation(ctx context.Context, station s.Station) error
	DeleteStation(ctx context.Context, id int64) error

	CreateTV(ctx context.Context, stationID int64, name string) (s.TV, error)
	GetTV(ctx context.Context, id int64) (s.TV, error)
	ListTVs(ctx context.Context, stationID int64) ([]s.TV, error)
	UpdateTV(ctx context.Context, tv s.TV) error
	SetTransitionTime(ctx context.Context, tvID int64, ms int) error
	DeleteTV(ctx context.Context, id int64) error

	CreateMedia(ctx context.Context, m s.MediaAsset) (s.MediaAsset, error)
	GetMedia(ctx context.Context, id int64) (s.MediaAsset, error)
	ListMedia(ctx context.Context) ([]s.MediaAsset, error)
	DeleteMedia(ctx context.Context, id int64) (s.MediaAsset, error)

	ReplaceAssignments(ctx context.Context, tvID int64, mediaIDs []int64) error
	SetAssignmentActive(ctx context.Context, tvID, mediaID int64, active bool) error
	GetTVMedia(ctx context.Context, tvID int64) (s.TVMedia, error)
}

func GetBackend(backend, connectionString string) (Backend, error) {
	switch backend {
	case "sqlite":
		b, err := sqlite.NewSQLiteBackend(connectionString)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "postgres":
		b, err := postgres.NewPostgresBackend(connectionString)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, errors.New("invalid database backend")
	}
}
