package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	sc "github.com/dmitrijs2005/stockkeeper/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveURLValidity is how long a presigned download link stays usable.
const ArchiveURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Archive is a stored inventory snapshot.
type Archive struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ArchiveService stores CSV snapshots of the inventory in S3-compatible
// object storage and hands out presigned download links.
type ArchiveService struct {
	items  *ItemService
	config *sc.Config
	now    func() time.Time
}

func NewArchiveService(items *ItemService, config *sc.Config) *ArchiveService {
	return &ArchiveService{items: items, config: config, now: time.Now}
}

// Enabled reports whether a bucket is configured.
func (s *ArchiveService) Enabled() bool {
	return s.config.ArchiveEnabled()
}

// ArchiveKey returns a fresh object key of the form exports/YYYY/MM/DD/<uuid>.csv.
func ArchiveKey(d time.Time) string {
	return fmt.Sprintf("exports/%04d/%02d/%02d/%v.csv", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ArchiveService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		// path-style addressing for MinIO
		o.UsePathStyle = true
	}), nil
}

// Create renders the current inventory as CSV, uploads it and returns its
// key with a presigned GET URL. Without a bucket it returns
// common.ErrArchiveDisabled.
func (s *ArchiveService) Create(ctx context.Context) (*Archive, error) {
	if !s.Enabled() {
		return nil, common.ErrArchiveDisabled
	}

	var buf bytes.Buffer
	if err := s.items.ExportCSV(ctx, &buf); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := ArchiveKey(s.now().UTC())

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	}); err != nil {
		return nil, fmt.Errorf("upload archive: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ArchiveURLValidity))
	if err != nil {
		return nil, fmt.Errorf("presign archive: %w", err)
	}

	return &Archive{Key: key, URL: req.URL}, nil
}
