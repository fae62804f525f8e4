package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/storage"
	s3backend "github.com/terrycain/station-tv-server/pkg/storage/aws-s3"
	"github.com/terrycain/station-tv-server/pkg/storage/azureblob"
	"github.com/terrycain/station-tv-server/pkg/storage/disk"
)

func GetDiskBackend(filepath string, t *testing.T) storage.Backend {
	t.Helper()
	backend, err := disk.New(filepath)
	if err != nil {
		t.Fatal(err)
	}
	if err = backend.Setup(); err != nil {
		t.Fatal(err)
	}
	return backend
}

func GetS3Backend(t *testing.T, localstack string) storage.Backend {
	t.Helper()
	bucket := uuid.NewString()

	// Create s3 bucket
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("us-east-1"),
		Endpoint:         aws.String(localstack),
		DisableSSL:       aws.Bool(strings.HasPrefix(localstack, "http://")),
		Credentials:      credentials.NewStaticCredentials("test", "test", ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		t.Fatal(err)
	}

	s3Client := s3.New(sess, sess.Config)
	_, err = s3Client.CreateBucket(&s3.CreateBucketInput{
		Bucket:                    aws.String(bucket),
		CreateBucketConfiguration: &s3.CreateBucketConfiguration{LocationConstraint: aws.String("eu-west-1")},
	})
	if err != nil {
		t.Fatal(err)
	}

	query := url.Values{}
	query.Add("endpoint", localstack)
	URL := url.URL{
		Scheme:   "s3",
		Host:     bucket,
		Path:     "someprefix",
		RawQuery: query.Encode(),
	}

	backend, err := s3backend.New(URL.String())
	if err != nil {
		t.Fatal(err)
	}

	if err = backend.Setup(); err != nil {
		t.Fatal(err)
	}
	return backend
}

// TestStorageBackends performs the same read/write checks over every storage backend.
// Backends needing an external service are skipped unless their env var is set.
func TestStorageBackends(t *testing.T) {
	runTests := func(backend storage.Backend, t *testing.T) {
		t.Run("type-string", testStorageBackendTypeString(backend))
		t.Run("write-stat-open", testWriteStatOpen(backend))
		t.Run("open-range", testOpenRange(backend))
		t.Run("missing-blob", testMissingBlob(backend))
		t.Run("write-delete", testWriteDelete(backend))
	}

	t.Run("disk", func(t *testing.T) {
		backend := GetDiskBackend(t.TempDir(), t)

		runTests(backend, t)
	})

	t.Run("s3", func(t *testing.T) {
		s3Endpoint := os.Getenv("S3_ENDPOINT")
		if s3Endpoint == "" {
			t.Skip("Skipped s3 as no env var")
		}
		backend := GetS3Backend(t, s3Endpoint)

		runTests(backend, t)
	})

	t.Run("azureblob", func(t *testing.T) {
		connStr := os.Getenv("AZURITE_CONN")
		if connStr == "" {
			t.Skip("Skipped azureblob as no env var")
		}
		backend, err := azureblob.New(connStr)
		if err != nil {
			t.Fatal(err)
		}

		runTests(backend, t)
	})
}

func randomBlob(t *testing.T, size int) []byte {
	t.Helper()
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("Failed to generate random file data: %s", err.Error())
	}
	return buf
}

func testStorageBackendTypeString(backend storage.Backend) func(t *testing.T) {
	return func(t *testing.T) {
		if len(backend.Type()) == 0 {
			t.Fatal("Backend needs a type string set")
		}
	}
}

func testWriteStatOpen(backend storage.Backend) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.Background()
		name := storage.NewBlobName("clip.MP4")
		data := randomBlob(t, 2*1024*1024)

		written, err := backend.Write(ctx, name, bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Failed to write blob: %s", err.Error())
		}
		if diff := cmp.Diff(int64(len(data)), written); diff != "" {
			t.Fatal(diff)
		}

		info, err := backend.Stat(ctx, name)
		if err != nil {
			t.Fatalf("Failed to stat blob: %s", err.Error())
		}
		if diff := cmp.Diff(int64(len(data)), info.Size); diff != "" {
			t.Fatal(diff)
		}
		if info.ModTime.IsZero() {
			t.Fatal("Expected a modification time")
		}

		r, err := backend.Open(ctx, name, 0, -1)
		if err != nil {
			t.Fatalf("Failed to open blob: %s", err.Error())
		}
		defer r.Close()
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, got) {
			t.Fatal("Blob contents differ from what was written")
		}
	}
}

func testOpenRange(backend storage.Backend) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.Background()
		name := storage.NewBlobName("clip.webm")
		data := randomBlob(t, 1000)

		if _, err := backend.Write(ctx, name, bytes.NewReader(data)); err != nil {
			t.Fatalf("Failed to write blob: %s", err.Error())
		}

		tables := []struct {
			name   string
			offset int64
			length int64
			want   []byte
		}{
			{"middle", 200, 100, data[200:300]},
			{"to end", 990, -1, data[990:]},
			{"empty", 10, 0, []byte{}},
		}
		for _, table := range tables {
			r, err := backend.Open(ctx, name, table.offset, table.length)
			if err != nil {
				t.Fatalf("%s: failed to open blob: %s", table.name, err.Error())
			}
			got, err := io.ReadAll(r)
			_ = r.Close()
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(table.want, got) {
				t.Fatalf("%s: got %d bytes, want %d", table.name, len(got), len(table.want))
			}
		}
	}
}

func testMissingBlob(backend storage.Backend) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.Background()
		if _, err := backend.Stat(ctx, uuid.NewString()+".png"); !errors.Is(err, e.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
		if _, err := backend.Open(ctx, uuid.NewString()+".png", 0, 10); !errors.Is(err, e.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	}
}

func testWriteDelete(backend storage.Backend) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.Background()
		name := storage.NewBlobName("poster.png")

		if _, err := backend.Write(ctx, name, bytes.NewReader(randomBlob(t, 64))); err != nil {
			t.Fatalf("Failed to write blob: %s", err.Error())
		}
		if err := backend.Delete(ctx, name); err != nil {
			t.Fatalf("Failed to delete blob: %s", err.Error())
		}
		if _, err := backend.Stat(ctx, name); !errors.Is(err, e.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound after delete, got %v", err)
		}
	}
}

func TestDiskRejectsEscapingNames(t *testing.T) {
	backend := GetDiskBackend(t.TempDir(), t)
	for _, name := range []string{"../etc/passwd", "..", "", "a/../../b"} {
		if _, err := backend.Stat(context.Background(), name); !errors.Is(err, e.ErrNotFound) {
			t.Errorf("Stat(%q) expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestNewBlobName(t *testing.T) {
	a := storage.NewBlobName("Holiday Promo.JPG")
	b := storage.NewBlobName("Holiday Promo.JPG")
	if a == b {
		t.Fatal("Expected unique blob names")
	}
	if !strings.HasSuffix(a, ".jpg") {
		t.Fatalf("Expected lowercased extension, got %s", a)
	}
}
