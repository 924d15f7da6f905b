// Package exports hands out presigned S3 PUT URLs that clients upload their
// CSV exports to.
package exports

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/google/uuid"
)

// URLValidity is how long a presigned URL accepts the upload.
const URLValidity = 15 * time.Minute

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
)

// S3Config locates the bucket. BaseEndpoint points at S3-compatible storage
// such as MinIO; when empty the AWS default resolver is used.
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

type Service struct {
	cfg    S3Config
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(cfg S3Config, logger logging.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger.With(logging.FieldModule, "exports"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// StorageKey is the object key of one export of userID.
func StorageKey(userID string, at time.Time, id string) string {
	at = at.UTC()
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.csv", userID, at.Year(), int(at.Month()), at.Day(), id)
}

func (s *Service) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return newS3PresignClient(client), nil
}

// PresignPut returns an upload URL and the object key it writes to.
func (s *Service) PresignPut(ctx context.Context, userID string) (url, key string, err error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("s3 config: %w", err)
	}

	bucket := s.cfg.Bucket
	key = StorageKey(userID, s.now(), s.newID())

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(URLValidity))
	if err != nil {
		return "", "", fmt.Errorf("presign: %w", err)
	}

	s.logger.Info(ctx, "export upload presigned", logging.FieldUserID, userID, "key", key)
	return req.URL, key, nil
}
