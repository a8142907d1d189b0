// Package blob writes generated files to a local path or an S3 bucket.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// S3Config reaches an S3 compatible endpoint. Credentials fall back to the
// default AWS chain when AccessKeyID is empty.
type S3Config struct {
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string

	// HTTPClient replaces the SDK's client, mostly for tests.
	HTTPClient *http.Client
}

// Target is where Put writes.
type Target struct {
	Bucket string
	Key    string
	Path   string
}

// IsS3 reports whether the target names an object.
func (t Target) IsS3() bool { return t.Bucket != "" }

func (t Target) String() string {
	if t.IsS3() {
		return s3Scheme + t.Bucket + "/" + t.Key
	}
	return t.Path
}

// Parse reads `s3://bucket/key` or a local path.
func Parse(target string) (Target, error) {
	if !strings.HasPrefix(target, s3Scheme) {
		if target == "" {
			return Target{}, errors.New("blob: empty target")
		}
		return Target{Path: target}, nil
	}
	bucket, key, _ := strings.Cut(strings.TrimPrefix(target, s3Scheme), "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Target{}, fmt.Errorf("blob: %q must be s3://bucket/key", target)
	}
	return Target{Bucket: bucket, Key: key}, nil
}

// Writer puts whole files.
type Writer struct {
	S3 S3Config
}

// Put stores data at target with the given content type.
func (w *Writer) Put(ctx context.Context, target Target, contentType string, data []byte) error {
	if !target.IsS3() {
		return os.WriteFile(target.Path, data, 0o644)
	}
	client, err := w.client(ctx)
	if err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(target.Bucket),
		Key:    aws.String(target.Key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("blob: put %s: %w", target, err)
	}
	return nil
}

func (w *Writer) client(ctx context.Context) (*s3.Client, error) {
	cfg := w.S3
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("blob: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	}), nil
}
