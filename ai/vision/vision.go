package vision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

const (
	minLabelScore = 0.6
	maxColors     = 3
)

type Client struct {
	svc       *vision.Service
	maxLabels int64
	log       *slog.Logger
}

// New authenticates with a service account file when given, otherwise with an API key.
func New(ctx context.Context, credentialsFile, apiKey string, maxLabels int, log *slog.Logger) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case credentialsFile != "":
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, vision.CloudVisionScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	case apiKey != "":
		opts = append(opts, option.WithAPIKey(apiKey))
	default:
		return nil, fmt.Errorf("vision: no credentials configured")
	}
	return NewWithOptions(ctx, maxLabels, log, opts...)
}

func NewWithOptions(ctx context.Context, maxLabels int, log *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision service: %w", err)
	}
	if maxLabels <= 0 {
		maxLabels = 5
	}
	return &Client{
		svc:       svc,
		maxLabels: int64(maxLabels),
		log:       log.With(sl.Module("vision")),
	}, nil
}

// Analyze returns confident labels and the dominant colours of a remote image.
func (c *Client) Analyze(ctx context.Context, imageURL string) (*entity.ImageAnalysis, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image: &vision.Image{Source: &vision.ImageSource{ImageUri: imageURL}},
			Features: []*vision.Feature{
				{Type: "LABEL_DETECTION", MaxResults: c.maxLabels},
				{Type: "IMAGE_PROPERTIES"},
			},
		}},
	}

	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("annotate: empty response")
	}
	r := resp.Responses[0]
	if r.Error != nil && r.Error.Message != "" {
		return nil, fmt.Errorf("annotate: %s", r.Error.Message)
	}

	res := &entity.ImageAnalysis{}
	for _, l := range r.LabelAnnotations {
		if l.Score >= minLabelScore && int64(len(res.Labels)) < c.maxLabels {
			res.Labels = append(res.Labels, l.Description)
		}
	}

	if r.ImagePropertiesAnnotation != nil && r.ImagePropertiesAnnotation.DominantColors != nil {
		colors := r.ImagePropertiesAnnotation.DominantColors.Colors
		sort.SliceStable(colors, func(i, j int) bool { return colors[i].Score > colors[j].Score })
		for _, ci := range colors {
			if ci.Color == nil || len(res.Colors) == maxColors {
				continue
			}
			res.Colors = append(res.Colors, hex(ci.Color))
		}
	}

	c.log.Debug("image analysed",
		slog.String("labels", strings.Join(res.Labels, ",")),
		slog.String("colors", strings.Join(res.Colors, ",")))
	return res, nil
}

func hex(col *vision.Color) string {
	clamp := func(v float64) int {
		switch {
		case v < 0:
			return 0
		case v > 255:
			return 255
		}
		return int(v)
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp(col.Red), clamp(col.Green), clamp(col.Blue))
}
