package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"syriazone/pkg/utils"
)

// ObjectStore 上传后返回可公开访问的 URL
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type uploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Store struct {
	up            uploader
	bucket        string
	region        string
	publicBaseURL string
}

func NewS3Store(ctx context.Context, region, bucket, publicBaseURL string) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Store{
		up:            manager.NewUploader(client),
		bucket:        bucket,
		region:        region,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.up.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *S3Store) URL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

// LogoKey stores/<userId>/<随机 id><原扩展名>
func LogoKey(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("stores", userID, utils.NewID()+ext)
}
