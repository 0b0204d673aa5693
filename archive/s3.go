package archive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"renderbot/config"
)

// Config controls the optional S3 archive of downloaded videos.
// Bucket is required; everything else falls back to the standard AWS
// config/credential chain.
type Config struct {
	Bucket string
	Prefix string
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
	// UsePathStyle forces path-style addressing for S3-compatible providers.
	UsePathStyle bool
}

// FromEnv builds the archive config from S3_* environment variables.
// Returns ok=false when S3_BUCKET is unset, which disables archiving.
func FromEnv() (Config, bool) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return Config{}, false
	}
	return Config{
		Bucket:       bucket,
		Prefix:       config.GetEnvOrDefault("S3_PREFIX", "renders"),
		Region:       os.Getenv("S3_REGION"),
		Profile:      os.Getenv("S3_PROFILE"),
		UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
	}, true
}

// Uploader copies finished downloads into an S3 bucket. It satisfies the
// poller's Archiver interface; archive failures are reported but never
// change a video's tracked state.
type Uploader struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewUploader creates an Uploader using the default AWS configuration
// chain, with optional overrides from cfg.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("archive: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("archive: load aws config: %w", err)
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Uploader{client: c, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Archive uploads the file at localPath under <prefix>/<id>/<filename>.
// Uploading is idempotent: an object already present is left alone so a
// re-run after a crash does not re-send the video.
func (u *Uploader) Archive(ctx context.Context, localPath, id string) error {
	key := u.key(id, filepath.Base(localPath))

	exists, err := u.exists(ctx, key)
	if err != nil {
		return fmt.Errorf("archive: head s3://%s/%s: %w", u.bucket, key, err)
	}
	if exists {
		log.Printf("⏩ Archive already holds s3://%s/%s", u.bucket, key)
		return nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", localPath, err)
	}
	defer f.Close()

	in := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentTypeFor(localPath)),
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("archive: put s3://%s/%s: %w", u.bucket, key, err)
	}
	log.Printf("☁️ Archived %s to s3://%s/%s", filepath.Base(localPath), u.bucket, key)
	return nil
}

func (u *Uploader) key(id, filename string) string {
	if u.prefix == "" {
		return path.Join(id, filename)
	}
	return path.Join(u.prefix, id, filename)
}

// exists returns true on HTTP 200 from HeadObject, false on 404/NotFound.
func (u *Uploader) exists(ctx context.Context, key string) (bool, error) {
	_, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}

	return false, err
}

func contentTypeFor(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	default:
		return "application/octet-stream"
	}
}
