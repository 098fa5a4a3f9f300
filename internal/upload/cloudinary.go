package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrNotConfigured = errors.New("image uploads not configured")

// Cloudinary stores product images. Built from a CLOUDINARY_URL; an empty
// URL yields a disabled uploader that rejects uploads with ErrNotConfigured.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func New(url string) (*Cloudinary, error) {
	if url == "" {
		return &Cloudinary{}, nil
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

// Upload stores an image and returns its delivery URL and public id. The
// public id is kept on the product document so Delete can clean up later.
func (u *Cloudinary) Upload(ctx context.Context, r io.Reader) (url, publicID string, err error) {
	if u == nil || u.cld == nil {
		return "", "", ErrNotConfigured
	}
	res, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{})
	if err != nil {
		return "", "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return res.SecureURL, res.PublicID, nil
}

func (u *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if u == nil || u.cld == nil || publicID == "" {
		return nil
	}
	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}
