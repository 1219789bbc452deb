// Package objectstore turns stored deck file locations into URLs a client
// or the extraction service can fetch.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/coderhuBypassion/BriefBank/internal/config"
)

// ErrUnsupportedLocation is returned for locations that are neither s3:// nor http(s)://.
var ErrUnsupportedLocation = errors.New("unsupported file location")

// ErrNotConfigured is returned for s3:// locations when no S3 client is set up.
var ErrNotConfigured = errors.New("object storage is not configured")

// Presigner resolves file locations: s3://bucket/key gets a presigned GET URL,
// http(s) URLs pass through unchanged.
type Presigner struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
	now    func() time.Time
}

// NewPresigner builds an S3 presign client. Static credentials are used when
// configured, otherwise the default AWS credential chain.
func NewPresigner(ctx context.Context, cfg appconfig.S3Config) (*Presigner, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Presigner{
		client: s3.NewPresignClient(client),
		bucket: cfg.Bucket,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Resolve returns a fetchable URL for location. expiresAt is zero for
// pass-through URLs. A nil Presigner still passes http(s) URLs through.
func (p *Presigner) Resolve(ctx context.Context, location string) (string, time.Time, error) {
	loc := strings.TrimSpace(location)
	u, err := url.Parse(loc)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedLocation, location)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return loc, time.Time{}, nil
	case "s3":
		if p == nil || p.client == nil {
			return "", time.Time{}, ErrNotConfigured
		}
		bucket := u.Host
		if bucket == "" {
			bucket = p.bucket
		}
		key := strings.TrimPrefix(u.Path, "/")
		if bucket == "" || key == "" {
			return "", time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedLocation, location)
		}
		req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(p.ttl))
		if err != nil {
			return "", time.Time{}, fmt.Errorf("presign %s: %w", location, err)
		}
		return req.URL, p.now().Add(p.ttl), nil
	default:
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedLocation, location)
	}
}
