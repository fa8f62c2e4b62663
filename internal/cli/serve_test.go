package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/pipeline"
)

const testScene = `
name = "tooltip"
placement = "bottom"
reference = "anchor"

[viewport]
width = 400
height = 300

[[element]]
id = "anchor"
x = 150
y = 130
width = 100
height = 40

[floating]
width = 60
height = 20
`

const testSceneJSON = `{
  "placement": "bottom",
  "reference": "anchor",
  "viewport": {"width": 400, "height": 300},
  "elements": [{"id": "anchor", "x": 150, "y": 130, "width": 100, "height": 40}],
  "floating": {"width": 60, "height": 20}
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := httptest.NewServer(newServer(pipeline.NewRunner(nil, nil, logger), logger).routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestServePosition(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		wantX       float64
		wantY       float64
		wantPlace   string
	}{
		{"toml", "", "application/toml", testScene, 170, 170, "bottom"},
		{"json", "", "application/json", testSceneJSON, 170, 170, "bottom"},
		{"placement override", "?placement=top", "application/toml", testScene, 170, 110, "top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/position"+tt.query, tt.contentType, tt.body)
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				t.Fatalf("status = %d, body = %s", resp.StatusCode, b)
			}
			var res struct {
				X         float64 `json:"x"`
				Y         float64 `json:"y"`
				Placement string  `json:"placement"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
				t.Fatal(err)
			}
			if res.X != tt.wantX || res.Y != tt.wantY || res.Placement != tt.wantPlace {
				t.Errorf("got (%g, %g) %s, want (%g, %g) %s",
					res.X, res.Y, res.Placement, tt.wantX, tt.wantY, tt.wantPlace)
			}
		})
	}
}

func TestServeRender(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"txt", "text/plain; charset=utf-8", "\n"},
		{"json", "application/json", `"placement": "bottom"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/render?format="+tt.format, "application/toml", testScene)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if got := resp.Header.Get("X-Cache"); got != "miss" {
				t.Errorf("X-Cache = %q, want miss", got)
			}
			b, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(b), tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, b)
			}
		})
	}
}

func TestServeErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode string
	}{
		{"bad placement", "/v1/position?placement=middle", testScene, "INVALID_PLACEMENT"},
		{"empty body", "/v1/position", "", "INVALID_INPUT"},
		{"bad scene", "/v1/position", "viewport = 3", "INVALID_SCENE"},
		{"bad format", "/v1/render?format=png", testScene, "INVALID_FORMAT"},
		{"bad cols", "/v1/render?format=txt&cols=x", testScene, "INVALID_INPUT"},
		{"huge grid", "/v1/render?format=txt&cols=100000&rows=100000", testScene, "INVALID_INPUT"},
		{"overflowing grid", "/v1/render?format=txt&cols=4611686018427387904&rows=4", testScene, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+tt.path, "application/toml", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body struct {
				Error struct {
					Code      string `json:"code"`
					RequestID string `json:"request_id"`
				} `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestServePlacements(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/placements?reference=100x40&floating=60x30&at=100,100")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var rows []placementRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 12 {
		t.Fatalf("len(rows) = %d, want 12", len(rows))
	}
	if rows[0].Placement != "top" || rows[0].X != 120 || rows[0].Y != 70 {
		t.Errorf("rows[0] = %+v, want top at (120, 70)", rows[0])
	}

	bad, err := http.Get(srv.URL + "/v1/placements?reference=wide")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", bad.StatusCode)
	}
}

func TestServeKeepsRequestID(t *testing.T) {
	srv := newTestServer(t)

	const id = "7f1c2a9e-4b3d-4e8f-9a6b-1c2d3e4f5a6b"
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}
}

func TestServeUnknownRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/nothing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/v1/position")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d, want 405", resp.StatusCode)
	}
}
