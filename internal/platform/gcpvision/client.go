package gcpvision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	_ "golang.org/x/image/webp"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/lovepattern-backend/internal/modules/analysis/prompts"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

const ProviderName = "gcp_vision"

// ClientOptionsFromEnv reads GOOGLE_APPLICATION_CREDENTIALS_JSON (inline) or
// GOOGLE_APPLICATION_CREDENTIALS (file path). No options means ADC.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

type annotator interface {
	detectFace(ctx context.Context, img []byte) (*visionpb.AnnotateImageResponse, error)
	Close() error
}

type gcpAnnotator struct {
	client *vision.ImageAnnotatorClient
}

func (a *gcpAnnotator) detectFace(ctx context.Context, img []byte) (*visionpb.AnnotateImageResponse, error) {
	resp, err := a.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: img},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_FACE_DETECTION, MaxResults: 1}},
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.GetResponses()) == 0 {
		return nil, fmt.Errorf("empty annotate response")
	}
	return resp.GetResponses()[0], nil
}

func (a *gcpAnnotator) Close() error { return a.client.Close() }

// Client reads faces with Cloud Vision face detection and emits the same
// VisionAnalysis JSON an LLM vision call would.
type Client struct {
	log *logger.Logger
	ann annotator
}

func NewClient(ctx context.Context, log *logger.Logger, opts ...option.ClientOption) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	vc, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &Client{log: log.With("service", "gcp.Vision"), ann: &gcpAnnotator{client: vc}}, nil
}

func (c *Client) Name() string { return ProviderName }

func (c *Client) Close() error {
	if c == nil || c.ann == nil {
		return nil
	}
	return c.ann.Close()
}

func (c *Client) Vision(ctx context.Context, req prompts.VisionRequest) (string, error) {
	if len(req.Image) == 0 {
		return "", fmt.Errorf("vision request without image")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(req.Image))
	if err != nil {
		return "", fmt.Errorf("read image size: %w", err)
	}
	resp, err := c.ann.detectFace(ctx, req.Image)
	if err != nil {
		return "", c.rpcError(err)
	}
	if e := resp.GetError(); e != nil && e.GetMessage() != "" {
		return "", fmt.Errorf("face detection: %s", e.GetMessage())
	}
	faces := resp.GetFaceAnnotations()
	if len(faces) == 0 {
		return "", fmt.Errorf("no face detected")
	}
	va := FaceToVision(faces[0], cfg.Width, cfg.Height)
	raw, err := json.Marshal(va)
	if err != nil {
		return "", err
	}
	c.log.Debug("face detected", "confidence", faces[0].GetDetectionConfidence())
	return string(raw), nil
}

// rpcError keeps the gRPC status code in the message and the chain.
func (c *Client) rpcError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded:
		c.log.Warn("face detection unavailable", "code", st.Code().String())
	case codes.Unauthenticated, codes.PermissionDenied:
		c.log.Error("face detection credentials rejected", "code", st.Code().String())
	}
	return fmt.Errorf("face detection (%s): %w", st.Code(), err)
}
