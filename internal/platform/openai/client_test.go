package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern/patterntest"
	"github.com/yungbote/lovepattern-backend/internal/modules/analysis/prompts"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, fn roundTripperFunc) *Client {
	t.Helper()
	c, err := NewClient(logger.NewNop(), Config{
		APIKey:     "sk-test",
		BaseURL:    "https://example.test/",
		Model:      "test-model",
		HTTPClient: &http.Client{Transport: fn},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

const okBody = `{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"{\"ok\":true}"}]}]}`

func TestVisionSendsDataURLAndStrictSchema(t *testing.T) {
	var captured map[string]any
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.String() != "https://example.test/v1/responses" {
			t.Fatalf("unexpected url %s", r.URL)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("auth header: %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &captured); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, okBody), nil
	})

	in := patterntest.Input()
	in.Photo = &pattern.Photo{Data: patterntest.PNG, MIMEType: "image/png"}
	req, err := prompts.BuildVisionRequest(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out, err := c.Vision(context.Background(), req)
	if err != nil {
		t.Fatalf("vision: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("output: %q", out)
	}

	format := captured["text"].(map[string]any)["format"].(map[string]any)
	if format["type"] != "json_schema" || format["name"] != "vision_analysis" || format["strict"] != true {
		t.Fatalf("unexpected format: %v", format)
	}
	input := captured["input"].([]any)
	user := input[1].(map[string]any)["content"].([]any)
	img := user[1].(map[string]any)
	if !strings.HasPrefix(img["image_url"].(string), "data:image/png;base64,") {
		t.Fatalf("image not sent as data URL: %v", img["image_url"])
	}
}

func TestNarrativeErrors(t *testing.T) {
	cases := []struct {
		name    string
		resp    *http.Response
		wantErr string
	}{
		{name: "http error", resp: jsonResponse(http.StatusTooManyRequests, `{"error":"slow down"}`), wantErr: "openai http 429"},
		{name: "empty output", resp: jsonResponse(http.StatusOK, `{"output":[]}`), wantErr: "no output_text"},
		{name: "refusal", resp: jsonResponse(http.StatusOK, `{"output":[{"type":"message","role":"assistant","content":[{"type":"refusal","refusal":"no"}]}]}`), wantErr: "model refused"},
	}
	nr, err := prompts.BuildNarrativeRequest(patterntest.Input(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			c := newTestClient(t, func(*http.Request) (*http.Response, error) {
				calls++
				return tc.resp, nil
			})
			_, err := c.Narrative(context.Background(), nr)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("want error containing %q got=%v", tc.wantErr, err)
			}
			if calls != 1 {
				t.Fatalf("calls: want=1 got=%d", calls)
			}
		})
	}
}

func TestNarrativeTransportError(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	c := newTestClient(t, func(*http.Request) (*http.Response, error) { return nil, boom })
	nr, _ := prompts.BuildNarrativeRequest(patterntest.Input(), nil)
	if _, err := c.Narrative(context.Background(), nr); !errors.Is(err, boom) {
		t.Fatalf("want transport error got=%v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.NewNop(), Config{}); err == nil {
		t.Fatalf("want missing key error")
	}
}
