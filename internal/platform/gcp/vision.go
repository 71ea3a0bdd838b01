package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/yungbote/materials-advisor/internal/platform/ctxutil"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

// VisionOCR extracts drawing text with Cloud Vision DOCUMENT_TEXT_DETECTION.
type VisionOCR struct {
	log          *logger.Logger
	visionClient *vision.ImageAnnotatorClient
	timeout      time.Duration
	languages    []string
}

type VisionConfig struct {
	Credentials   string
	LanguageHints []string
	Timeout       time.Duration
}

func NewVisionOCR(log *logger.Logger, cfg VisionConfig) (*VisionOCR, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.VisionOCR")

	c, err := vision.NewImageAnnotatorClient(context.Background(), ClientOptions(cfg.Credentials)...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if len(cfg.LanguageHints) == 0 {
		cfg.LanguageHints = []string{"ru", "en"}
	}
	slog.Info("Cloud Vision OCR initialized", "languages", cfg.LanguageHints)
	return &VisionOCR{
		log:          slog,
		visionClient: c,
		timeout:      cfg.Timeout,
		languages:    cfg.LanguageHints,
	}, nil
}

func (v *VisionOCR) Name() string { return "vision" }

func (v *VisionOCR) ExtractText(ctx context.Context, img []byte, mimeType string) (string, error) {
	if len(img) == 0 {
		return "", nil
	}
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image:        &visionpb.Image{Content: img},
		Features:     []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		ImageContext: &visionpb.ImageContext{LanguageHints: v.languages},
	}
	resp, err := v.visionClient.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if r0.FullTextAnnotation == nil || strings.TrimSpace(r0.FullTextAnnotation.Text) == "" {
		return "", nil
	}
	return flattenText(r0.FullTextAnnotation.Text), nil
}

func (v *VisionOCR) Close() error {
	if v == nil || v.visionClient == nil {
		return nil
	}
	return v.visionClient.Close()
}
