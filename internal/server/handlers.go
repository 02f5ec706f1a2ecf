package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/sustainability-evaluator/internal/logger"
	"github.com/jonathan/sustainability-evaluator/internal/pipeline"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type textBody struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

type dataBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Hello"})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvaluate rates the merchant behind a URL or free text.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req types.EvaluateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInputRequired, "")
		return
	}

	rating, err := s.evaluator.Evaluate(r.Context(), req.Input())
	if err != nil {
		s.failure(w, r, err, "Failed to evaluate company")
		return
	}
	s.jsonResponse(w, http.StatusOK, textBody{Success: true, Text: string(rating)})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req types.RecommendRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgRecommendFields, "")
		return
	}

	text, err := s.advisor.Recommend(r.Context(), req)
	if err != nil {
		s.failure(w, r, err, "Failed to get recommendations")
		return
	}
	s.jsonResponse(w, http.StatusOK, textBody{Success: true, Text: text})
}

// handleEval runs the full scored analysis for a product page.
func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	var req types.URLRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgURLRequired, "")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		s.failure(w, r, err, "Failed to evaluate product")
		return
	}
	s.jsonResponse(w, http.StatusOK, dataBody{Success: true, Data: result})
}

// handleEvalStream runs the analysis and streams stage progress via SSE.
// Request errors are reported as plain JSON before the stream opens.
func (s *Server) handleEvalStream(w http.ResponseWriter, r *http.Request) {
	var req types.URLRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgURLRequired, "")
		return
	}

	stream, err := openEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	log := logger.FromContext(r.Context(), s.log)

	// Stages run sequentially on this goroutine, so events need no locking.
	ctx := pipeline.WithProgress(r.Context(), func(event pipeline.ProgressEvent) {
		if err := stream.Stage(event); err != nil {
			log.Warn("failed to write SSE event", logger.Error(err))
		}
	})

	result, err := s.analyzer.Analyze(ctx, req.URL)
	if err != nil {
		log.Error("analysis failed", logger.Error(err))
		_, message := classify(err, "Failed to evaluate product")
		if werr := stream.Fail(message, err.Error()); werr != nil {
			log.Warn("failed to write SSE error", logger.Error(werr))
		}
		return
	}
	if err := stream.Finish(result); err != nil {
		log.Warn("failed to write SSE result", logger.Error(err))
	}
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req types.URLRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgURLRequired, "")
		return
	}

	product, err := s.analyzer.Scrape(r.Context(), req.URL)
	if err != nil {
		fallback := "Failed to process URL"
		if isParseFailure(err) {
			fallback = "Failed to parse product data"
		}
		s.failure(w, r, err, fallback)
		return
	}
	s.jsonResponse(w, http.StatusOK, dataBody{Success: true, Data: product})
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	var req types.StoresRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgProductRequired, "")
		return
	}

	stores, err := s.advisor.RecommendStores(r.Context(), req.Product)
	if err != nil {
		s.failure(w, r, err, "Failed to get recommendations")
		return
	}
	s.jsonResponse(w, http.StatusOK, dataBody{Success: true, Data: stores})
}

// decode reads a JSON request body into v. It writes a 400 and returns false
// on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return false
	}
	return true
}

// failure logs err and writes the classified error response.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := classify(err, fallback)
	log := logger.FromContext(r.Context(), s.log)
	if status >= http.StatusInternalServerError {
		log.Error(message, logger.Error(err))
	} else {
		log.Info(message, logger.Error(err))
	}
	s.errorResponse(w, status, message, err.Error())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", logger.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message, details string) {
	s.jsonResponse(w, status, errorBody{Success: false, Error: message, Details: details})
}
