package backup

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/zarlcorp/core/pkg/zfilesystem"
)

// Uploader stores one backup archive under name.
type Uploader interface {
	Name() string
	Upload(ctx context.Context, name string, data []byte) error
}

// DirUploader writes archives into a directory of a file system.
type DirUploader struct {
	fs  zfilesystem.ReadWriteFileFS
	dir string
}

func NewDirUploader(fsys zfilesystem.ReadWriteFileFS, dir string) *DirUploader {
	return &DirUploader{fs: fsys, dir: dir}
}

func (u *DirUploader) Name() string { return "dir" }

func (u *DirUploader) Upload(ctx context.Context, name string, data []byte) error {
	if err := u.fs.MkdirAll(u.dir, 0o700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := u.fs.WriteFile(path.Join(u.dir, name), data, 0o600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// S3Config points at an S3 compatible bucket.
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	Prefix       string
}

// objectPutter is the part of *s3.Client the uploader uses.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	client objectPutter
	bucket string
	prefix string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Uploader builds a client with static credentials. BaseEndpoint, when
// set, targets a self hosted store such as MinIO.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (u *S3Uploader) Name() string { return "s3" }

func (u *S3Uploader) Upload(ctx context.Context, name string, data []byte) error {
	key := path.Join(u.prefix, name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/zip"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}
