package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/rpupo63/unified-personal-site-admin/config"
)

// ImageUploader stores a project image and returns the URL it is served from.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
}

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageUploader puts images under projects/ in a public bucket.
type S3ImageUploader struct {
	client  ObjectPutter
	bucket  string
	region  string
	baseURL string
}

// NewS3ImageUploader uses the static key pair from settings when both halves
// are set and the default AWS credential chain otherwise.
func NewS3ImageUploader(ctx context.Context, settings config.S3) (*S3ImageUploader, error) {
	if settings.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if (settings.AccessKey == "") != (settings.SecretKey == "") {
		return nil, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(settings.Region)}
	if settings.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3ImageUploaderWithClient(s3.NewFromConfig(cfg), settings.Bucket, settings.Region, settings.BaseURL), nil
}

func NewS3ImageUploaderWithClient(client ObjectPutter, bucket, region, baseURL string) *S3ImageUploader {
	return &S3ImageUploader{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (u *S3ImageUploader) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	objectName := "projects/" + uuid.NewString() + ext

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objectName),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("S3 upload failed: %w", err)
	}

	if u.baseURL != "" {
		return fmt.Sprintf("%s/%s", u.baseURL, objectName), nil
	}
	// Format: https://bucket-name.s3.region.amazonaws.com/key
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, objectName), nil
}
