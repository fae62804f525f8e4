package awss3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	p "path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/utils"
)

type Backend struct {
	BucketURL string
	Session   *session.Session
	Client    *s3.S3

	bucket string
	prefix string
	region string
}

func New(connectionString string) (*Backend, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String("us-east-1")})
	if err != nil {
		return &Backend{}, err
	}
	// Enable uuid rand pool for better performance
	uuid.EnableRandPool()

	backend := Backend{
		BucketURL: connectionString,
		Session:   sess,
		region:    "us-east-1", // Region is calculated in Setup()
	}
	return &backend, nil
}

// Setup parses s3://bucket/prefix, a localstack style endpoint can be passed as ?endpoint=http://host:4566
func (b *Backend) Setup() error {
	parsedURL, err := url.Parse(b.BucketURL)
	if err != nil {
		return err
	}

	if parsedURL.Scheme != "s3" {
		//goland:noinspection GoErrorStringFormat
		return errors.New("S3 url should be in the format of s3://bucket/prefix")
	}

	b.bucket = parsedURL.Host
	b.prefix = strings.TrimPrefix(parsedURL.Path, "/")

	if endpoint := parsedURL.Query().Get("endpoint"); endpoint != "" {
		b.Session.Config.Endpoint = aws.String(endpoint)
		b.Session.Config.DisableSSL = aws.Bool(strings.HasPrefix(endpoint, "http://"))
		b.Session.Config.S3ForcePathStyle = aws.Bool(true)
	}
	if region := parsedURL.Query().Get("region"); region != "" {
		b.region = region
		b.Session.Config.Region = aws.String(region)
	}

	b.Client = s3.New(b.Session, &aws.Config{Region: aws.String(b.region)})
	resp, err := b.Client.GetBucketLocation(&s3.GetBucketLocationInput{Bucket: aws.String(b.bucket)})
	if err != nil {
		return err
	}

	if resp.LocationConstraint != nil {
		b.region = *resp.LocationConstraint
		b.Session.Config.Region = resp.LocationConstraint
		b.Client = s3.New(b.Session, &aws.Config{Region: resp.LocationConstraint})
	}

	return nil
}

func (b *Backend) Type() string {
	return "s3"
}

func (b *Backend) key(name string) string {
	return p.Join(b.prefix, "media", name)
}

func (b *Backend) Write(ctx context.Context, name string, r io.Reader) (int64, error) {
	filePath := b.key(name)

	uploader := s3manager.NewUploader(b.Session)
	_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(b.bucket),
		Body:        r,
		Key:         aws.String(filePath),
		ContentType: aws.String(utils.MimeType(name)),
	})
	if err != nil {
		return 0, err
	}

	info, err := b.Stat(ctx, name)
	if err != nil {
		return 0, err
	}

	return info.Size, nil
}

func (b *Backend) Delete(ctx context.Context, name string) error {
	_, err := b.Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	})

	return err
}

func (b *Backend) Stat(ctx context.Context, name string) (s.BlobInfo, error) {
	headResponse, err := b.Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	})
	if err != nil {
		return s.BlobInfo{}, mapError(err)
	}

	return s.BlobInfo{
		Name:    name,
		Size:    aws.Int64Value(headResponse.ContentLength),
		ModTime: aws.TimeValue(headResponse.LastModified),
	}, nil
}

func (b *Backend) Open(ctx context.Context, name string, offset, length int64) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	}
	switch {
	case length == 0:
		return io.NopCloser(strings.NewReader("")), nil
	case length > 0:
		input.Range = aws.String(fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))
	case offset > 0:
		input.Range = aws.String(fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := b.Client.GetObjectWithContext(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return resp.Body, nil
}

func mapError(err error) error {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return e.ErrNotFound
		}
	}
	return err
}
