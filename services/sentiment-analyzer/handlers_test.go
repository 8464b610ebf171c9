package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"puresearch/sentiment-analyzer/common/logging"
	"puresearch/sentiment-analyzer/common/models"
	"puresearch/sentiment-analyzer/common/sentiment"
)

const demoManifest = "../../artifacts/manifest.yaml"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger = zap.NewNop()
	goleak.VerifyTestMain(m)
}

// stubAnalyzer returns a fixed result and counts calls
type stubAnalyzer struct {
	res   sentiment.Result
	err   error
	calls int
}

func (s *stubAnalyzer) Analyze(text string) (sentiment.Result, error) {
	if strings.TrimSpace(text) == "" {
		return sentiment.Result{}, sentiment.ErrEmptyReview
	}
	s.calls++
	return s.res, s.err
}

func (s *stubAnalyzer) AnalyzeBatch(texts []string) []sentiment.BatchItem {
	items := make([]sentiment.BatchItem, len(texts))
	for i, text := range texts {
		res, err := s.Analyze(text)
		items[i] = sentiment.BatchItem{Text: text, Result: res, Err: err}
	}
	return items
}

func newTestRouter(t *testing.T, analyzer reviewAnalyzer) *gin.Engine {
	t.Helper()
	router, err := newRouter(&server{
		analyzer: analyzer,
		info:     models.ModelInfo{Name: "test-model", MaxLen: 200},
		logger:   zap.NewNop(),
	}, []string{"*"})
	require.NoError(t, err)
	return router
}

func newDemoRouter(t *testing.T) *gin.Engine {
	t.Helper()
	analyzer, info, err := loadAnalyzer(context.Background(), demoManifest)
	require.NoError(t, err)
	router, err := newRouter(&server{analyzer: analyzer, info: info, logger: zap.NewNop()}, []string{"*"})
	require.NoError(t, err)
	return router
}

func postForm(router http.Handler, review string) *httptest.ResponseRecorder {
	form := url.Values{"review": {review}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.HealthResponse{Status: "OK", Service: serviceName, Model: "test-model"}, resp)
	assert.NotEmpty(t, w.Header().Get(logging.RequestIDHeader))
}

func TestIndexPage(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `<textarea name="review"`)
	assert.Contains(t, body, "Analyze Sentiment")
	assert.Contains(t, body, "test-model")
	for _, ex := range sentiment.Examples() {
		assert.Contains(t, body, ex.Text)
	}
	assert.NotContains(t, body, `id="result"`)
}

func TestStaticAssets(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".result-card")
}

func TestAnalyzeForm_EmptyShowsWarning(t *testing.T) {
	stub := &stubAnalyzer{}
	router := newTestRouter(t, stub)

	for _, review := range []string{"", "   \n\t"} {
		w := postForm(router, review)
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, "Please enter a review to analyze!")
		assert.NotContains(t, body, `id="result"`)
	}
	assert.Zero(t, stub.calls)
}

func TestAnalyzeForm_RendersResult(t *testing.T) {
	stub := &stubAnalyzer{res: sentiment.Result{
		Score:      0.93,
		Label:      sentiment.Positive,
		Confidence: 0.93,
		Words:      5,
		Characters: 29,
	}}
	router := newTestRouter(t, stub)

	w := postForm(router, "I absolutely loved this movie!")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `id="result"`)
	assert.Contains(t, body, "positive-sentiment")
	assert.Contains(t, body, "POSITIVE")
	assert.Contains(t, body, "93.0%")
	assert.Contains(t, body, `<progress value="0.93" max="1">`)
	assert.Contains(t, body, "0.930")
	assert.Contains(t, body, ">5<")
	assert.Contains(t, body, ">29<")
	assert.NotContains(t, body, "Please enter a review")
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyzeForm_Failure(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{err: errors.New("boom")})

	w := postForm(router, "fine")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "could not be analyzed")
	assert.NotContains(t, w.Body.String(), `id="result"`)
}

func TestAnalyzeAPI(t *testing.T) {
	stub := &stubAnalyzer{res: sentiment.Result{
		Score:      0.12,
		Label:      sentiment.Negative,
		Confidence: 0.88,
		Words:      5,
		Characters: 21,
	}}
	router := newTestRouter(t, stub)

	w := postJSON(router, "/api/v1/analyze", `{"text":"What a waste of time."}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NEGATIVE", resp.Result.Label)
	assert.False(t, resp.Result.Positive)
	assert.InDelta(t, 0.12, resp.Result.Score, 1e-12)
	assert.InDelta(t, 0.88, resp.Result.Confidence, 1e-12)
	assert.Equal(t, 5, resp.Result.Stats.Words)
	assert.Equal(t, 21, resp.Result.Stats.Characters)
	assert.Equal(t, "What a waste of time.", resp.TextSample)
	assert.Equal(t, w.Header().Get(logging.RequestIDHeader), resp.RequestID)
}

func TestAnalyzeAPI_BadRequests(t *testing.T) {
	stub := &stubAnalyzer{}
	router := newTestRouter(t, stub)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "malformed", body: `{"text":`, message: "Invalid request"},
		{name: "missing text", body: `{}`, message: "Invalid request"},
		{name: "empty text", body: `{"text":""}`, message: "Invalid request"},
		{name: "blank text", body: `{"text":"   "}`, message: "Empty review"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/v1/analyze", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusBadRequest, resp.Status)
			assert.Equal(t, tt.message, resp.Message)
			assert.NotEmpty(t, resp.Error)
		})
	}
	assert.Zero(t, stub.calls)
}

func TestAnalyzeAPI_Failure(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{err: errors.New("boom")})

	w := postJSON(router, "/api/v1/analyze", `{"text":"fine"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Analysis failed", resp.Message)
	assert.Equal(t, "boom", resp.Error)
}

func TestAnalyzeBatchAPI(t *testing.T) {
	stub := &stubAnalyzer{res: sentiment.Result{Score: 0.7, Label: sentiment.Positive, Confidence: 0.7}}
	router := newTestRouter(t, stub)

	w := postJSON(router, "/api/v1/analyze/batch", `{"texts":["good","  ","also good"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BatchAnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)

	require.NotNil(t, resp.Items[0].Result)
	assert.Equal(t, "POSITIVE", resp.Items[0].Result.Label)
	assert.Empty(t, resp.Items[0].Error)

	assert.Nil(t, resp.Items[1].Result)
	assert.Equal(t, sentiment.ErrEmptyReview.Error(), resp.Items[1].Error)

	require.NotNil(t, resp.Items[2].Result)
	assert.Equal(t, "also good", resp.Items[2].TextSample)
	assert.Equal(t, 2, stub.calls)
}

func TestAnalyzeBatchAPI_Limits(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	w := postJSON(router, "/api/v1/analyze/batch", `{"texts":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	texts, err := json.Marshal(map[string][]string{"texts": make([]string, 101)})
	require.NoError(t, err)
	w = postJSON(router, "/api/v1/analyze/batch", string(texts))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, &stubAnalyzer{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSample(t *testing.T) {
	assert.Equal(t, "short", sample("short"))

	long := strings.Repeat("é", sampleLength+5)
	got := sample(long)
	assert.Equal(t, strings.Repeat("é", sampleLength)+"...", got)
}
