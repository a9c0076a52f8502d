package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/logging"
	sc "github.com/civicops/drconsole/internal/server/config"
	"github.com/civicops/drconsole/internal/timex"
	"github.com/google/uuid"
)

// DocumentKeyPrefix starts every storage key DocumentService hands out.
const DocumentKeyPrefix = "documents/"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// DocumentService issues presigned S3 URLs for documents attached to
// resources records. The bytes never pass through the server.
type DocumentService struct {
	config *sc.Config
	clock  timex.Clock
	logger logging.Logger
}

func NewDocumentService(cfg *sc.Config, logger logging.Logger) *DocumentService {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &DocumentService{config: cfg, clock: timex.SystemClock{}, logger: logger.With("module", "document_service")}
}

func (s *DocumentService) storageKey() string {
	d := s.clock.Now()
	return fmt.Sprintf("%s%04d/%02d/%02d/%s", DocumentKeyPrefix, d.Year(), d.Month(), d.Day(), uuid.NewString())
}

func (s *DocumentService) ttl() time.Duration {
	if s.config.PresignTTL > 0 {
		return s.config.PresignTTL
	}
	return 15 * time.Minute
}

func (s *DocumentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload allocates a storage key and returns it with a presigned PUT URL.
func (s *DocumentService) PresignUpload(ctx context.Context) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := s.storageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.ttl()))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	s.logger.Debug(ctx, "presigned upload", "key", key)
	return key, req.URL, nil
}

// PresignDownload returns a presigned GET URL for key. Only keys handed out
// by PresignUpload are accepted.
func (s *DocumentService) PresignDownload(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, DocumentKeyPrefix) || strings.Contains(key, "..") {
		return "", newFieldError(map[string]string{"key": "is not a document key"})
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.ttl()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	return req.URL, nil
}
