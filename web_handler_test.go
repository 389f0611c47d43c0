package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/analysis_server/domain/models"
)

func newTestServer(t *testing.T, maxUploadBytes int64) *httptest.Server {
	env := newTestEnv(t, true)
	router := ConfigureRouter(Config{
		Addr:            ":0",
		ShutdownTimeout: time.Second,
		AllowedOrigins:  []string{"http://localhost:3000"},
		MaxUploadBytes:  maxUploadBytes,
		Dependencies: Dependencies{
			Analyzer: env.analyzer,
			Storage:  env.storage,
			Logger:   zerolog.New(zerolog.NewTestWriter(t)),
		},
	})
	return httptest.NewServer(router)
}

func postFile(t *testing.T, url, field, name string, content []byte) *http.Response {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/analysis/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type errorBody struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code"`
}

func TestBannerAndHealth(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	defer ts.Close()

	tests := []struct {
		path     string
		expected map[string]string
	}{
		{"/", map[string]string{"message": "Data Analysis API Server", "version": "1.0.0"}},
		{"/health", map[string]string{"status": "healthy", "service": "analysis-server"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.expected, decodeBody[map[string]string](t, resp))
		})
	}
}

func TestUploadAndFetchCharts(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	defer ts.Close()

	resp := postFile(t, ts.URL, "file", "people.csv", []byte(sampleCSV))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeBody[models.AnalysisReport](t, resp)

	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, []string{"age", "city"}, report.Columns)
	require.Equal(t, []string{"bar", "pie"}, chartKinds(report.Charts))

	for _, c := range report.Charts {
		resp, err := http.Get(ts.URL + c.URL)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
	}

	resp, err := http.Get(ts.URL + report.Charts[0].URL + "?format=html")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))

	resp, err = http.Get(ts.URL + "/api/analysis/chart/" + report.FileID + "/heatmap")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errorBody{Detail: "chart not found", ErrorCode: "ArtifactNotFound"}, decodeBody[errorBody](t, resp))
}

func TestChartNotFound(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	defer ts.Close()

	for _, path := range []string{
		"/api/analysis/chart/" + newFileID() + "/bar",
		"/api/analysis/chart/" + newFileID() + "/radar",
		"/api/analysis/chart/not-an-id/bar",
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "ArtifactNotFound", decodeBody[errorBody](t, resp).ErrorCode, path)
	}
}

func TestUploadErrors(t *testing.T) {
	ts := newTestServer(t, 4096)
	defer ts.Close()

	tests := []struct {
		name   string
		field  string
		file   string
		data   []byte
		status int
		code   string
	}{
		{"unsupported extension", "file", "notes.txt", []byte(sampleCSV), http.StatusBadRequest, "UnsupportedExtension"},
		{"parse failure", "file", "broken.csv", []byte("a,b\n1,2,3\n"), http.StatusBadRequest, "GenericParseFailure"},
		{"bad json", "file", "data.json", []byte("42"), http.StatusBadRequest, "UnsupportedJSONStructure"},
		{"missing field", "upload", "people.csv", []byte(sampleCSV), http.StatusBadRequest, "MISSING_FILE"},
		{"too large", "file", "big.csv", bytes.Repeat([]byte("1,2\n"), 4096), http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postFile(t, ts.URL, tt.field, tt.file, tt.data)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeBody[errorBody](t, resp)
			assert.Equal(t, tt.code, body.ErrorCode)
			assert.NotEmpty(t, body.Detail)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/analysis/upload", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
