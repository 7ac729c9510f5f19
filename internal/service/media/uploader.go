package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"InstaCatalog/internal/lib/sl"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// Uploader re-hosts Instagram CDN images on Cloudinary; their signed URLs expire.
type Uploader struct {
	api    uploadAPI
	folder string
	log    *slog.Logger
}

func NewUploader(cloudName, apiKey, apiSecret, folder string, log *slog.Logger) (*Uploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	log.Info("cloudinary enabled",
		slog.String("cloud", cloudName),
		sl.Secret("api_key", apiKey))
	return &Uploader{
		api:    &cld.Upload,
		folder: folder,
		log:    log.With(sl.Module("media")),
	}, nil
}

// Rehost uploads the remote image and returns its secure URL. A nil Uploader returns imageURL unchanged.
func (u *Uploader) Rehost(ctx context.Context, imageURL, publicID string) (string, error) {
	if u == nil || imageURL == "" {
		return imageURL, nil
	}

	res, err := u.api.Upload(ctx, imageURL, uploader.UploadParams{
		PublicID:     sanitizeID(publicID),
		Folder:       u.folder,
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", publicID, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("upload %s: empty url", publicID)
	}

	u.log.Debug("image rehosted", slog.String("public_id", res.PublicID), slog.Int("bytes", res.Bytes))
	return res.SecureURL, nil
}

// Cloudinary public IDs may contain slashes but not dots from Instagram usernames.
func sanitizeID(id string) string {
	return strings.NewReplacer(".", "_", " ", "_").Replace(id)
}
