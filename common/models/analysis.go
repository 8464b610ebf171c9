package models

// AnalysisRequest represents a request to analyze the sentiment of a review
type AnalysisRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnalysisResult represents the outcome of one forward pass
type AnalysisResult struct {
	Label      string  `json:"label"`
	Positive   bool    `json:"positive"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Stats      struct {
		Words       int    `json:"words"`
		Characters  int    `json:"characters"`
		KnownTokens int    `json:"known_tokens"`
		Language    string `json:"language,omitempty"`
	} `json:"stats"`
}

// AnalysisResponse represents the response to an analysis request
type AnalysisResponse struct {
	Result     AnalysisResult `json:"result"`
	TextSample string         `json:"text_sample"`
	RequestID  string         `json:"request_id,omitempty"`
}

// BatchAnalysisRequest represents a request to analyze multiple reviews
type BatchAnalysisRequest struct {
	Texts []string `json:"texts" binding:"required,min=1,max=100"`
}

// BatchAnalysisItem is one entry of a batch response; exactly one of Result and Error is set
type BatchAnalysisItem struct {
	Result     *AnalysisResult `json:"result,omitempty"`
	TextSample string          `json:"text_sample"`
	Error      string          `json:"error,omitempty"`
}

// BatchAnalysisResponse represents the response to a batch analysis request
type BatchAnalysisResponse struct {
	Items     []BatchAnalysisItem `json:"items"`
	RequestID string              `json:"request_id,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Model   string `json:"model"`
}

// ModelInfo describes the loaded artifacts
type ModelInfo struct {
	Name       string      `json:"name"`
	MaxLen     int         `json:"max_len"`
	Threshold  float64     `json:"threshold"`
	Padding    string      `json:"padding"`
	Truncating string      `json:"truncating"`
	Vocabulary int         `json:"vocabulary"`
	Layers     []LayerInfo `json:"layers"`
}

// LayerInfo describes one model layer
type LayerInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	OutputSize int    `json:"output_size"`
	Params     int    `json:"params"`
}
