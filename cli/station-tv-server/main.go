package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/database"
	"github.com/terrycain/station-tv-server/pkg/database/cached"
	"github.com/terrycain/station-tv-server/pkg/metrics"
	"github.com/terrycain/station-tv-server/pkg/storage"
	"github.com/terrycain/station-tv-server/pkg/utils/logging"
	"github.com/terrycain/station-tv-server/pkg/web"
)

var cli struct {
	// Database backends
	DBSqlite   string `env:"DB_SQLITE" xor:"db" help:"SQLite filepath e.g. /tmp/db.sqlite"`
	DBPostgres string `env:"DB_POSTGRES" xor:"db" help:"Postgres URI e.g. postgresql://blah"`
	RedisURL   string `env:"REDIS_URL" help:"Cache TV metadata in Redis e.g. redis://localhost:6379/0"`

	// Storage backends
	StorageDisk      string `env:"STORAGE_DISK" xor:"storage" help:"Use disk storage for media e.g. /var/lib/station-tv/uploads"`
	StorageS3        string `env:"STORAGE_S3" xor:"storage" name:"storage-s3" help:"Use S3 storage for media e.g. s3://bucket/prefix"`
	StorageAzureBlob string `env:"STORAGE_AZUREBLOB" xor:"storage" help:"Use Azure Blob storage for media, an account connection string with ContainerName=..."`

	// Admin
	AdminTokenSecret string        `env:"ADMIN_TOKEN_SECRET" help:"HS256 secret for admin bearer tokens"`
	MintToken        string        `help:"Print an admin token for this subject and exit"`
	TokenTTL         time.Duration `default:"720h" help:"Lifetime of minted admin tokens"`

	// Misc
	LogLevel             string `env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error"`
	LogConsole           bool   `env:"LOG_CONSOLE" help:"Human readable logs instead of JSON"`
	ListenAddress        string `env:"LISTEN_ADDR" default:"0.0.0.0:8080" help:"Listen address e.g. 0.0.0.0:8080"`
	MetricsListenAddress string `env:"METRICS_LISTEN_ADDR" default:"0.0.0.0:9102" help:"Listen address for prometheus metrics e.g. 0.0.0.0:9102"`
	Debug                bool   `env:"DEBUG" help:"Enable debug mode"`
}

func main() {
	kong.Parse(&cli)

	logging.SetupLogging(cli.LogLevel, cli.LogConsole)

	if cli.MintToken != "" {
		token, err := web.MintAdminToken([]byte(cli.AdminTokenSecret), cli.MintToken, cli.TokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to mint admin token")
		}
		fmt.Println(token)
		return
	}

	var databaseBackendName, dbConnectionString string
	if cli.DBSqlite != "" {
		databaseBackendName = "sqlite"
		dbConnectionString = cli.DBSqlite
	}
	if cli.DBPostgres != "" {
		databaseBackendName = "postgres"
		dbConnectionString = cli.DBPostgres
	}

	var storageBackendName, storageConnectionString string
	if cli.StorageDisk != "" {
		storageBackendName = "disk"
		storageConnectionString = cli.StorageDisk
	}
	if cli.StorageS3 != "" {
		storageBackendName = "s3"
		storageConnectionString = cli.StorageS3
	}
	if cli.StorageAzureBlob != "" {
		storageBackendName = "azureblob"
		storageConnectionString = cli.StorageAzureBlob
	}

	if databaseBackendName == "" || storageBackendName == "" {
		log.Fatal().Msg("One database (DB_SQLITE or DB_POSTGRES) and one storage backend (STORAGE_DISK, STORAGE_S3 or STORAGE_AZUREBLOB) are required")
	}
	if cli.AdminTokenSecret == "" {
		log.Warn().Msg("ADMIN_TOKEN_SECRET is not set, the admin API will reject every request")
	}

	dbBackend, err := database.GetBackend(databaseBackendName, dbConnectionString)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initiate database backend")
	}
	if cli.RedisURL != "" {
		cachedBackend, err := cached.New(dbBackend, cli.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		dbBackend = cachedBackend
	}

	storageBackend, err := storage.GetStorageBackend(storageBackendName, storageConnectionString)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initiate storage backend")
	}
	log.Info().Str("database", dbBackend.Type()).Str("storage", storageBackend.Type()).Msg("Backends ready")

	handlers := web.Handlers{
		Database:    dbBackend,
		Storage:     storageBackend,
		TokenSecret: []byte(cli.AdminTokenSecret),
		Debug:       cli.Debug,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go metrics.Server(ctx, cli.MetricsListenAddress)

	srv := &http.Server{
		Addr:              cli.ListenAddress,
		Handler:           web.GetRouter(handlers, true),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Msgf("Listening on %s", cli.ListenAddress)
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed HTTP server loop")
	}
	log.Info().Msg("Shut down")
}
