package bundle

import (
	"bytes"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	"github.com/Taichi-iskw/yt-notes/internal/errors"
	"github.com/Taichi-iskw/yt-notes/internal/model"
)

// PutObjectAPI is the part of the S3 client the uploader needs
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores bundles in an S3-compatible bucket
type Uploader struct {
	client PutObjectAPI
	bucket string
	prefix string
	log    logrus.FieldLogger
}

// NewUploader creates an uploader over an existing client
func NewUploader(client PutObjectAPI, bucket, prefix string, log logrus.FieldLogger) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: prefix, log: log}
}

// NewUploaderFromConfig builds an S3 client from the storage section.
// A custom endpoint switches to path-style addressing (MinIO, Spaces, R2).
func NewUploaderFromConfig(ctx context.Context, cfg config.S3Config, log logrus.FieldLogger) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, errors.New(errors.CodeInvalidArg, "storage.s3.bucket is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "unable to load S3 configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewUploader(client, cfg.Bucket, cfg.Prefix, log), nil
}

// Key returns the object key for a video id
func (u *Uploader) Key(videoID string) string {
	if u.prefix == "" {
		return videoID + ".zip"
	}
	return path.Join(u.prefix, videoID+".zip")
}

// Upload zips record and puts it at {prefix}/{video_id}.zip, returning the key
func (u *Uploader) Upload(ctx context.Context, record *model.HistoryRecord) (string, error) {
	data, err := Zip(record)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to build bundle")
	}

	key := u.Key(record.VideoID)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/zip"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUnavailable, "failed to upload bundle")
	}

	u.log.WithFields(logrus.Fields{"bucket": u.bucket, "key": key, "bytes": len(data)}).Info("uploaded bundle")
	return key, nil
}
