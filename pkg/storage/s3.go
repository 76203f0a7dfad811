package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Provider represents the S3-compatible storage provider
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
)

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
}

// S3Config holds the backup bucket settings.
type S3Config struct {
	Provider        Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	Endpoint        string // overrides the provider default, e.g. a MinIO URL
	Prefix          string
}

var ErrBackupNotConfigured = errors.New("backup bucket is not configured")

func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// endpoint returns the custom base endpoint, or "" for plain AWS.
func (c S3Config) endpoint() string {
	if c.Endpoint != "" {
		if strings.HasPrefix(c.Endpoint, "http://") || strings.HasPrefix(c.Endpoint, "https://") {
			return c.Endpoint
		}
		return "https://" + c.Endpoint
	}
	if c.Provider == ProviderWasabi {
		if host, ok := WasabiEndpoints[c.Region]; ok {
			return "https://" + host
		}
		return "https://s3.wasabisys.com"
	}
	return ""
}

// NewS3Client creates an S3 client with static credentials. Custom endpoints
// (Wasabi, MinIO) use path-style addressing.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	if !cfg.Enabled() {
		return nil, ErrBackupNotConfigured
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.endpoint()
	if endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

// ObjectPutter is the slice of the S3 API the backup needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Backup copies operator files (data document, audit log) into a bucket
// under <prefix>/<UTC timestamp>/<name>, tagging each object with its SHA-256.
type Backup struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

func NewBackup(client ObjectPutter, bucket, prefix string) *Backup {
	return &Backup{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

// Upload stores data and returns the object key.
func (b *Backup) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	stamp := b.now().UTC().Format("20060102T150405Z")
	key := path.Join(b.prefix, stamp, path.Base(name))
	sum := sha256.Sum256(data)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"sha256": hex.EncodeToString(sum[:])},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
