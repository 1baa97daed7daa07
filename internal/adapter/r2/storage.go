package r2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
)

// Object is an opened document. Callers must close Body.
type Object struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
}

// Store reads product documents from a bucket.
type Store interface {
	Open(ctx context.Context, key string) (*Object, error)
}

// Options configures the bucket client.
type Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Client implements Store on top of the S3 compatible R2 API.
type Client struct {
	api    *s3.Client
	bucket string
	logger *slog.Logger
}

// NewClient builds a static-credential S3 client pointed at the endpoint.
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("r2 endpoint must be provided")
	}
	api := s3.New(s3.Options{
		Region:                     "auto",
		BaseEndpoint:               aws.String(opts.Endpoint),
		UsePathStyle:               true,
		Credentials:                credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})
	return &Client{api: api, bucket: opts.Bucket, logger: logger}, nil
}

// Open streams the object stored under key. Missing objects map to ErrNotFound.
func (c *Client) Open(ctx context.Context, key string) (*Object, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domainErrors.ErrNotFound
		}
		c.logger.Error("r2 get object failed", slog.String("key", key), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrStorageUnavailable, err)
	}
	return &Object{
		Body:          out.Body,
		ContentLength: aws.ToInt64(out.ContentLength),
		ContentType:   aws.ToString(out.ContentType),
	}, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
