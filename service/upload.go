// Package service contains the media-hosting collaborator. Account
// handlers hand it a multipart file and get back a hosted URL; nothing
// in here ever touches account state.
package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"streamhub/account-api/cloudflare"
	"streamhub/account-api/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

const multipartLimit = 8 << 20

// MediaUploader accepts an uploaded file and returns its hosted URL.
type MediaUploader interface {
	UploadImage(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// R2Uploader stores images in a Cloudflare R2 bucket and serves them
// from the configured public base URL.
type R2Uploader struct {
	R2        *cloudflare.R2Client
	PublicURL string
}

func NewR2Uploader(r2 *cloudflare.R2Client, publicURL string) *R2Uploader {
	return &R2Uploader{
		R2:        r2,
		PublicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

func (u *R2Uploader) UploadImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file, %w", err)
	}
	defer f.Close()

	key := util.RandStr(16) + strings.ToLower(path.Ext(fh.Filename))

	input := &s3.PutObjectInput{
		Bucket:        u.R2.Bucket,
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(fh.Size),
		ContentType:   aws.String(fh.Header.Get("Content-Type")),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	}

	now := time.Now()

	if fh.Size > multipartLimit {
		m := manager.NewUploader(u.R2.C, func(m *manager.Uploader) {
			m.Concurrency = 5
			m.PartSize = 5 << 20
		})

		_, err = m.Upload(ctx, input)
	} else {
		_, err = u.R2.C.PutObject(ctx, input)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upload image, %w", err)
	}

	zap.L().Debug("Image uploaded", zap.String("key", key), zap.Duration("took", time.Since(now)))

	return u.PublicURL + "/" + key, nil
}
