package blob

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// IBlobStore is the picture storage collaborator: uploads blobs and signs
// short-lived read URLs for stored blob names.
type IBlobStore interface {
	Upload(ctx context.Context, blobName string, data []byte, contentType string) (string, error)
	SignURL(ctx context.Context, blobName string, expiry time.Duration) (string, error)
}

type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store initializes the S3 client from the ambient AWS credentials.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}, nil
}

// Upload stores the blob and returns its canonical object URL. The canonical
// URL is what goes in the database; clients are only ever handed signed URLs.
func (s *S3Store) Upload(ctx context.Context, blobName string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(blobName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, blobName), nil
}

// SignURL produces a presigned GET URL for a stored blob.
func (s *S3Store) SignURL(ctx context.Context, blobName string, expiry time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.client)
	presigned, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(blobName),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}
