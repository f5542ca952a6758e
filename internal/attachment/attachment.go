package attachment

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type UploadURL struct {
	URL       string
	Key       string
	ExpiresAt time.Time
}

// Signer issues presigned upload URLs for message attachments.
type Signer interface {
	PresignUpload(ctx context.Context, key, contentType string) (*UploadURL, error)
}

type presignPutAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Signer struct {
	presigner presignPutAPI
	bucket    string
	expiry    time.Duration
}

func NewS3Signer(cfg aws.Config, bucket string, expiry time.Duration) *S3Signer {
	return &S3Signer{
		presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket:    bucket,
		expiry:    expiry,
	}
}

func (s *S3Signer) PresignUpload(ctx context.Context, key, contentType string) (*UploadURL, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload of %s: %w", key, err)
	}

	return &UploadURL{URL: req.URL, Key: key, ExpiresAt: time.Now().Add(s.expiry).UTC()}, nil
}
