package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

const (
	// MaxImageSizeBytes is the maximum image size for a single Vision request (20MB)
	MaxImageSizeBytes = 20 * 1024 * 1024

	visionName = "vision"
)

// Vision implements Engine using Google Cloud Vision API.
type Vision struct {
	once    sync.Once
	client  *vision.ImageAnnotatorClient
	initErr error
}

// NewVision creates a Vision engine. The API client is created on first use.
func NewVision() *Vision {
	return &Vision{}
}

// NewVisionWithClient creates a Vision engine with an explicit client (for testing).
func NewVisionWithClient(client *vision.ImageAnnotatorClient) *Vision {
	v := &Vision{client: client}
	v.once.Do(func() {})
	return v
}

// Name implements Engine.
func (v *Vision) Name() string { return visionName }

// Available reports whether credentials are configured.
func (v *Vision) Available(ctx context.Context) bool {
	if v.client != nil {
		return true
	}
	return os.Getenv("GOOGLE_CREDENTIALS") != "" || os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != ""
}

// connect creates the client with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func (v *Vision) connect(ctx context.Context) error {
	const op = "connect"

	v.once.Do(func() {
		ctx := context.WithoutCancel(ctx)

		var opts []option.ClientOption
		if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
			opts = append(opts, option.WithCredentialsFile(credFile))
		}

		client, err := vision.NewImageAnnotatorClient(ctx, opts...)
		if err != nil {
			if len(opts) == 0 {
				v.initErr = WrapOCRError(visionName, op, ErrMissingCredentials, "no credentials found in environment")
				return
			}
			v.initErr = WrapOCRError(visionName, op, err, "failed to create Vision client")
			return
		}
		v.client = client
	})

	return v.initErr
}

// Recognize runs document text detection on one image.
func (v *Vision) Recognize(ctx context.Context, imagePath string) (string, error) {
	const op = "Recognize"

	if err := v.connect(ctx); err != nil {
		return "", err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", WrapOCRError(visionName, op, err, "failed to read image")
	}
	if len(data) > MaxImageSizeBytes {
		return "", WrapOCRError(visionName, op, ErrImageTooLarge, fmt.Sprintf("image size: %d bytes", len(data)))
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", WrapOCRError(visionName, op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return "", WrapOCRError(visionName, op, ErrOCRFailed, "no response from Vision API")
	}

	imageResp := resp.Responses[0]
	if imageResp.Error != nil {
		return "", WrapOCRError(visionName, op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", imageResp.Error.Message))
	}
	if imageResp.FullTextAnnotation == nil {
		return "", nil
	}

	return strings.TrimSpace(imageResp.FullTextAnnotation.Text), nil
}

// Close closes the underlying Vision client.
func (v *Vision) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
