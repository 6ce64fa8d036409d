// Package storage archives rendered receipts in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	infraconfig "github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/infrastructure/printing"
)

// Ensure S3Archive implements ReceiptArchive
var _ printing.ReceiptArchive = (*S3Archive)(nil)

// maxDeleteBatch is the DeleteObjects limit per request
const maxDeleteBatch = 1000

// S3API is the subset of the S3 client the archive uses
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3Archive stores receipts in an S3 bucket under a key prefix.
// It is compatible with any S3-compatible storage (AWS S3, MinIO, etc.)
type S3Archive struct {
	client S3API
	bucket string
	prefix string
	now    func() time.Time
	logger *zap.Logger
}

// S3ArchiveOption is a functional option for configuring S3Archive
type S3ArchiveOption func(*S3Archive)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ArchiveOption {
	return func(s *S3Archive) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for retention cutoffs
func WithClock(now func() time.Time) S3ArchiveOption {
	return func(s *S3Archive) {
		s.now = now
	}
}

// NewS3Archive creates an archive from configuration. Without static keys the
// default AWS credential chain is used.
func NewS3Archive(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...S3ArchiveOption) (*S3Archive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.S3AccessKey == "") != (cfg.S3SecretKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.S3AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint := cfg.S3Endpoint
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3PathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return NewS3ArchiveWithClient(client, cfg.S3Bucket, cfg.S3Prefix, opts...), nil
}

// NewS3ArchiveWithClient creates an archive around an existing client
func NewS3ArchiveWithClient(client S3API, bucket, prefix string, opts ...S3ArchiveOption) *S3Archive {
	a := &S3Archive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (s *S3Archive) key(rel string) string {
	if s.prefix == "" {
		return rel
	}
	return path.Join(s.prefix, rel)
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3Archive) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating receipt archive bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store uploads a receipt and returns its archive path (without the prefix)
func (s *S3Archive) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if req == nil || len(req.Data) == 0 {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "receipt data is empty", nil)
	}

	rel := printing.ArchivePath(req)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(rel)),
		Body:          bytes.NewReader(req.Data),
		ContentLength: aws.Int64(int64(len(req.Data))),
		ContentType:   aws.String(req.Format.ContentType()),
		Metadata: map[string]string{
			"render-id": req.RenderID.String(),
			"kind":      string(req.Kind),
		},
	})
	if err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload receipt", err)
	}

	s.logger.Debug("receipt archived",
		zap.String("bucket", s.bucket),
		zap.String("key", s.key(rel)),
		zap.Int("size", len(req.Data)))

	return &printing.StoreResult{Path: rel, Size: int64(len(req.Data))}, nil
}

// Get downloads an archived receipt. The caller closes the reader.
func (s *S3Archive) Get(ctx context.Context, rel string) (io.ReadCloser, error) {
	if rel == "" || strings.Contains(rel, "..") {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "invalid archive path", nil)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(rel)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, printing.NewRenderError(printing.ErrCodeNotFound,
				fmt.Sprintf("receipt not found: %s", rel), err)
		}
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to download receipt", err)
	}
	return out.Body, nil
}

// CleanupOlderThan deletes every object under the prefix last modified before now-age
func (s *S3Archive) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	listPrefix := ""
	if s.prefix != "" {
		listPrefix = s.prefix + "/"
	}

	var stale []types.ObjectIdentifier
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to list archived receipts", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified != nil && obj.LastModified.Before(cutoff) {
				stale = append(stale, types.ObjectIdentifier{Key: obj.Key})
			}
		}
	}

	deleted := 0
	for start := 0; start < len(stale); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(stale))
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: stale[start:end], Quiet: aws.Bool(true)},
		})
		if err != nil {
			return deleted, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to delete archived receipts", err)
		}
		deleted += (end - start) - len(out.Errors)
		for _, e := range out.Errors {
			s.logger.Warn("failed to delete archived receipt",
				zap.String("key", aws.ToString(e.Key)),
				zap.String("code", aws.ToString(e.Code)))
		}
	}

	if deleted > 0 {
		s.logger.Info("archived receipts cleaned up",
			zap.Int("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

// GetBucket returns the bucket name
func (s *S3Archive) GetBucket() string {
	return s.bucket
}
