package commands

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	reqdto "stayfinder/internal/handler/dto/request"
	"stayfinder/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxImagesPerUpload = 5
	MaxImageBytes      = 5 << 20
)

var (
	ErrStorageFailure    = errs.New("storage failure")
	ErrInvalidImage      = errs.New("only .jpg, .jpeg and .png files up to 5 MiB are allowed")
	ErrTooManyUploads    = errs.New("at most 5 images can be uploaded at once")
	ErrImageUploadFailed = errs.New("image upload failed")
)

// ImageStore keeps uploaded images and hands back their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, url string) error
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

func validateImages(files []reqdto.ImageFile) error {
	if len(files) > MaxImagesPerUpload {
		return ErrTooManyUploads
	}
	for _, f := range files {
		if _, err := imageContentType(f); err != nil {
			return err
		}
	}
	return nil
}

// Both the extension and the declared content type must name the same image format.
func imageContentType(f reqdto.ImageFile) (string, error) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	want, ok := imageTypes[ext]
	if !ok || f.Size <= 0 || f.Size > MaxImageBytes {
		return "", ErrInvalidImage
	}
	if ct := strings.ToLower(f.ContentType); ct != "" && ct != want && !(want == "image/jpeg" && ct == "image/jpg") {
		return "", ErrInvalidImage
	}
	return want, nil
}

func uploadImages(ctx context.Context, store ImageStore, prefix string, files []reqdto.ImageFile) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := uploadImage(ctx, store, prefix, f)
		if err != nil {
			removeImages(ctx, store, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func uploadImage(ctx context.Context, store ImageStore, prefix string, f reqdto.ImageFile) (string, error) {
	contentType, err := imageContentType(f)
	if err != nil {
		return "", err
	}
	body, err := f.Open()
	if err != nil {
		return "", errs.Mark(err, ErrImageUploadFailed)
	}
	defer body.Close()

	key := prefix + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(f.Filename))
	url, err := store.Upload(ctx, key, body, f.Size, contentType)
	if err != nil {
		return "", errs.Mark(err, ErrImageUploadFailed)
	}
	return url, nil
}

// removeImages is best effort; the listing change has already been decided.
func removeImages(ctx context.Context, store ImageStore, urls []string) {
	for _, url := range urls {
		if err := store.Remove(ctx, url); err != nil {
			slog.Warn("failed to remove image", "url", url, "error", err.Error())
		}
	}
}
