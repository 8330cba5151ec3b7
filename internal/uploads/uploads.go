package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"storefront-service/internal/util"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Validation-class errors: these are raised before any network call
// and the upload is never attempted.
var (
	ErrNotAnImage    = errors.New("file must declare an image content type")
	ErrImageTooLarge = errors.New("image exceeds the size limit")
	ErrTooManyFiles  = errors.New("too many images for one product")
)

// Uploader validates product images locally and writes accepted ones
// to the object store, returning a publicly fetchable URL.
type Uploader struct {
	gcs      *storage.Client
	bucket   string
	maxBytes int64
	maxFiles int
	logger   *zap.Logger
}

// NewUploader creates an uploader for the given bucket
func NewUploader(gcs *storage.Client, bucket string, maxBytes int64, maxFiles int) *Uploader {
	return &Uploader{
		gcs:      gcs,
		bucket:   bucket,
		maxBytes: maxBytes,
		maxFiles: maxFiles,
		logger:   util.GetLogger(),
	}
}

// Validate applies the client-side constraints: image content type,
// size cap, and a per-product file count cap. existingCount is how
// many images the product already has.
func (u *Uploader) Validate(contentType string, size int64, existingCount int) error {
	if existingCount+1 > u.maxFiles {
		util.UploadsRejectedTotal.WithLabelValues("too_many_files").Inc()
		return fmt.Errorf("%w: limit is %d", ErrTooManyFiles, u.maxFiles)
	}
	if !strings.HasPrefix(contentType, "image/") {
		util.UploadsRejectedTotal.WithLabelValues("not_an_image").Inc()
		return fmt.Errorf("%w: got %q", ErrNotAnImage, contentType)
	}
	if size > u.maxBytes {
		util.UploadsRejectedTotal.WithLabelValues("too_large").Inc()
		return fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, size, u.maxBytes)
	}
	return nil
}

// Upload writes the blob under products/<productID>/ and returns its
// public URL. Callers must have passed Validate first.
func (u *Uploader) Upload(ctx context.Context, productID, filename, contentType string, body io.Reader) (string, error) {
	ctx, span := util.StartSpan(ctx, "Uploader.Upload")
	defer span.End()

	object := fmt.Sprintf("products/%s/%s%s", productID, uuid.New().String(), path.Ext(filename))

	w := u.gcs.Bucket(u.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, io.LimitReader(body, u.maxBytes)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", object, err)
	}

	util.UploadsTotal.Inc()
	u.logger.Info("Image uploaded",
		zap.String("bucket", u.bucket),
		zap.String("object", object))

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, object), nil
}
