package main

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"puresearch/sentiment-analyzer/common/logging"
	"puresearch/sentiment-analyzer/common/models"
	"puresearch/sentiment-analyzer/common/sentiment"
)

const sampleLength = 80

var templateFuncs = template.FuncMap{
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"score":   func(v float64) string { return fmt.Sprintf("%.3f", v) },
}

// pageData feeds web/templates/index.html
type pageData struct {
	ModelName string
	Review    string
	Warning   string
	Failure   string
	Result    *sentiment.Result
	Examples  []sentiment.Example
}

func (s *server) page(review string) pageData {
	return pageData{
		ModelName: s.info.Name,
		Review:    review,
		Examples:  sentiment.Examples(),
	}
}

// handleHealth reports liveness and the loaded model
func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "OK",
		Service: serviceName,
		Model:   s.info.Name,
	})
}

// handleIndex renders the empty form
func (s *server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.page(""))
}

// handleAnalyzeForm processes the form submission and renders the result card,
// or a warning when the review is blank
func (s *server) handleAnalyzeForm(c *gin.Context) {
	review := c.PostForm("review")
	data := s.page(review)

	res, err := s.analyzer.Analyze(review)
	switch {
	case errors.Is(err, sentiment.ErrEmptyReview):
		data.Warning = emptyReviewWarning
	case err != nil:
		s.logger.Error("Analysis failed", zap.String("request_id", logging.RequestID(c)), zap.Error(err))
		_ = c.Error(err)
		data.Failure = "The review could not be analyzed. Please try again."
		c.HTML(http.StatusInternalServerError, "index.html", data)
		return
	default:
		data.Result = &res
	}
	c.HTML(http.StatusOK, "index.html", data)
}

// handleAnalyze godoc
// @Summary      Analyze review sentiment
// @Description  Classify a review as positive or negative with a confidence score
// @Tags         analyze
// @Accept       json
// @Produce      json
// @Param        request body models.AnalysisRequest true "Review to analyze"
// @Success      200 {object} models.AnalysisResponse
// @Failure      400 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Router       /analyze [post]
func (s *server) handleAnalyze(c *gin.Context) {
	var request models.AnalysisRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	res, err := s.analyzer.Analyze(request.Text)
	if errors.Is(err, sentiment.ErrEmptyReview) {
		abortWithError(c, http.StatusBadRequest, "Empty review", err)
		return
	}
	if err != nil {
		s.logger.Error("Analysis failed", zap.String("request_id", logging.RequestID(c)), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Analysis failed", err)
		return
	}

	c.JSON(http.StatusOK, models.AnalysisResponse{
		Result:     toAnalysisResult(res),
		TextSample: sample(request.Text),
		RequestID:  logging.RequestID(c),
	})
}

// handleAnalyzeBatch godoc
// @Summary      Analyze several reviews
// @Description  Classify each review independently; blank reviews get a per-item error
// @Tags         analyze
// @Accept       json
// @Produce      json
// @Param        request body models.BatchAnalysisRequest true "Reviews to analyze"
// @Success      200 {object} models.BatchAnalysisResponse
// @Failure      400 {object} models.ErrorResponse
// @Router       /analyze/batch [post]
func (s *server) handleAnalyzeBatch(c *gin.Context) {
	var request models.BatchAnalysisRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	items := lo.Map(s.analyzer.AnalyzeBatch(request.Texts), func(item sentiment.BatchItem, _ int) models.BatchAnalysisItem {
		out := models.BatchAnalysisItem{TextSample: sample(item.Text)}
		if item.Err != nil {
			out.Error = item.Err.Error()
			return out
		}
		out.Result = lo.ToPtr(toAnalysisResult(item.Result))
		return out
	})

	c.JSON(http.StatusOK, models.BatchAnalysisResponse{Items: items, RequestID: logging.RequestID(c)})
}

// handleModel godoc
// @Summary      Describe the loaded model
// @Tags         model
// @Produce      json
// @Success      200 {object} models.ModelInfo
// @Router       /model [get]
func (s *server) handleModel(c *gin.Context) {
	c.JSON(http.StatusOK, s.info)
}

func abortWithError(c *gin.Context, status int, message string, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Status:  status,
		Message: message,
		Error:   err.Error(),
	})
}

func toAnalysisResult(res sentiment.Result) models.AnalysisResult {
	out := models.AnalysisResult{
		Label:      string(res.Label),
		Positive:   res.Label == sentiment.Positive,
		Score:      res.Score,
		Confidence: res.Confidence,
	}
	out.Stats.Words = res.Words
	out.Stats.Characters = res.Characters
	out.Stats.KnownTokens = res.KnownTokens
	out.Stats.Language = res.Language
	return out
}

// sample truncates long reviews for echoing back, on a rune boundary
func sample(text string) string {
	if utf8.RuneCountInString(text) <= sampleLength {
		return text
	}
	return string([]rune(text)[:sampleLength]) + "..."
}
