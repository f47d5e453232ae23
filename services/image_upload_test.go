package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/unified-personal-site-admin/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	data, _ := io.ReadAll(params.Body)
	f.body = string(data)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3ImageUploader_Upload(t *testing.T) {
	t.Run("virtual-hosted URL", func(t *testing.T) {
		putter := &fakePutter{}
		uploader := NewS3ImageUploaderWithClient(putter, "project-images", "eu-west-1", "")

		url, err := uploader.Upload(context.Background(), "Shot.PNG", strings.NewReader("png-bytes"))

		require.NoError(t, err)
		key := aws.ToString(putter.input.Key)
		assert.True(t, strings.HasPrefix(key, "projects/"))
		assert.True(t, strings.HasSuffix(key, ".png"))
		assert.Equal(t, "project-images", aws.ToString(putter.input.Bucket))
		assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
		assert.Equal(t, "png-bytes", putter.body)
		assert.Equal(t, "https://project-images.s3.eu-west-1.amazonaws.com/"+key, url)
	})

	t.Run("custom base URL", func(t *testing.T) {
		putter := &fakePutter{}
		uploader := NewS3ImageUploaderWithClient(putter, "project-images", "eu-west-1", "https://cdn.example.com/")

		url, err := uploader.Upload(context.Background(), "shot", strings.NewReader("x"))

		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", aws.ToString(putter.input.ContentType))
		assert.Equal(t, "https://cdn.example.com/"+aws.ToString(putter.input.Key), url)
	})

	t.Run("put failure", func(t *testing.T) {
		uploader := NewS3ImageUploaderWithClient(&fakePutter{err: errors.New("access denied")}, "b", "r", "")
		_, err := uploader.Upload(context.Background(), "shot.png", strings.NewReader("x"))
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestNewS3ImageUploader_RequiresBucket(t *testing.T) {
	_, err := NewS3ImageUploader(context.Background(), config.S3{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestNewS3ImageUploader_StaticKeysComeInPairs(t *testing.T) {
	_, err := NewS3ImageUploader(context.Background(), config.S3{Bucket: "b", Region: "us-east-1", AccessKey: "AKIA"})
	assert.ErrorContains(t, err, "must be set together")
}

func TestNewS3ImageUploader_StaticKeys(t *testing.T) {
	uploader, err := NewS3ImageUploader(context.Background(), config.S3{
		Bucket: "b", Region: "us-east-1", AccessKey: "AKIA", SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "b", uploader.bucket)
}
