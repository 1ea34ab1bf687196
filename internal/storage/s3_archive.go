package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Archiver keeps a copy of every uploaded source file
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte) error
}

// NoopArchiver is used when no archive bucket is configured
type NoopArchiver struct{}

func (NoopArchiver) Archive(_ context.Context, _ string, _ []byte) error {
	return nil
}

// Config holds configuration for the S3 archive
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
}

// S3Archiver stores uploads in S3-compatible storage
type S3Archiver struct {
	s3Client *s3.S3
	bucket   string
}

// NewS3Archiver creates a new S3 archiver
func NewS3Archiver(config *Config) (*S3Archiver, error) {
	if config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return &S3Archiver{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
	}, nil
}

// Archive uploads data under key
func (a *S3Archiver) Archive(ctx context.Context, key string, data []byte) error {
	_, err := a.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/xml"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// ArchiveKey builds "<documentType>/<sessionID>/<fileName>"
func ArchiveKey(documentType, sessionID, fileName string) string {
	name := path.Base(fileName)
	if name == "." || name == "/" || name == "" {
		name = "upload.xml"
	}
	return path.Join(documentType, sessionID, name)
}
