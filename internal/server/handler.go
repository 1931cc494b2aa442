package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumelift/internal/observability"
	"resumelift/internal/score"
	"resumelift/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createOptimizeHandler wraps the optimize handler with observability
func (s *Server) createOptimizeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelift.api")
		ctx, span := tracer.Start(ctx, "api.optimize")
		defer span.End()

		var req OptimizeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if !s.validateOptimizeRequest(w, &req) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeContent)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "optimize"),
		)

		input := types.OptimizeInput{
			ResumeContent:      req.ResumeContent,
			JobDescription:     req.JobDescription,
			Language:           req.Language,
			CustomInstructions: req.CustomInstructions,
		}

		metrics := om.GetMetrics()
		result, _, err := s.orchestrator.Optimize(ctx, input)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordResumeOptimized(ctx, false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to optimize resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordResumeOptimized(ctx, true,
			attribute.String("provider", result.Provider),
			attribute.Int("output.optimized_length", len(result.OptimizedText)),
			attribute.Int("ats.score", result.ATSScore))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("provider", result.Provider),
			attribute.Int("response.optimized_length", len(result.OptimizedText)),
			attribute.Int("ats.score", result.ATSScore),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createReoptimizeHandler wraps the reoptimize handler with observability
func (s *Server) createReoptimizeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelift.api")
		ctx, span := tracer.Start(ctx, "api.reoptimize")
		defer span.End()

		var req ReoptimizeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if !s.validateOptimizeRequest(w, &req.OptimizeRequest) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeContent)),
			attribute.String("request.original_provider", req.Provider),
			attribute.String("operation", "reoptimize"),
		)

		input := types.OptimizeInput{
			ResumeContent:      req.ResumeContent,
			JobDescription:     req.JobDescription,
			Language:           req.Language,
			CustomInstructions: req.CustomInstructions,
		}

		metrics := om.GetMetrics()
		result, _, err := s.orchestrator.Reoptimize(ctx, input, req.Provider)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordResumeOptimized(ctx, false,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to reoptimize resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordResumeOptimized(ctx, true,
			attribute.String("provider", result.Provider),
			attribute.Int("ats.score", result.ATSScore))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("provider", result.Provider),
			attribute.Int("ats.score", result.ATSScore),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// validateOptimizeRequest checks the shared fields of optimize-style requests.
// It writes the error response itself and reports whether the request is usable.
func (s *Server) validateOptimizeRequest(w http.ResponseWriter, req *OptimizeRequest) bool {
	if strings.TrimSpace(req.ResumeContent) == "" {
		writeErrorResponse(w, "Missing resume content", "resumeContent field is required", http.StatusBadRequest)
		return false
	}
	if s.MaxRequestSize > 0 && len(req.ResumeContent) > int(s.MaxRequestSize/2) {
		writeErrorResponse(w, "Resume content too large",
			fmt.Sprintf("resumeContent exceeds recommended size limit of %d characters", s.MaxRequestSize/2),
			http.StatusBadRequest)
		return false
	}
	if s.MaxRequestSize > 0 && len(req.JobDescription) > int(s.MaxRequestSize/2) {
		writeErrorResponse(w, "Job description too large",
			fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2),
			http.StatusBadRequest)
		return false
	}
	return true
}

// createScoreHandler computes a detailed ATS score breakdown
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	engine := score.NewEngine()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelift.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Float64("request.base_score", req.BaseScore),
			attribute.Int("request.suggestions", len(req.Suggestions)),
			attribute.Int("request.keywords", len(req.Keywords)),
			attribute.String("operation", "score"),
		)

		breakdown := engine.DetailedATSScore(req.BaseScore, req.Suggestions, req.Keywords, req.ResumeContent)

		om.GetMetrics().RecordScoreComputed(ctx,
			attribute.Float64("score.total", breakdown.Total),
			attribute.Float64("score.potential", breakdown.Potential))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("score.total", breakdown.Total),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(breakdown); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createSimulateHandler previews the score impact of applying a single item
func (s *Server) createSimulateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	engine := score.NewEngine()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelift.api")
		ctx, span := tracer.Start(ctx, "api.score.simulate")
		defer span.End()

		var req SimulateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		session := score.NewSession(engine, s.Logger, req.BaseScore, req.ResumeContent, req.Suggestions, req.Keywords)

		var result types.SimulationResult
		switch req.ItemType {
		case "suggestion":
			if req.Index < 0 || req.Index >= len(req.Suggestions) {
				writeErrorResponse(w, "Invalid index",
					fmt.Sprintf("suggestion index %d out of range", req.Index), http.StatusBadRequest)
				return
			}
			result = session.SimulateSuggestion(req.Index)
		case "keyword":
			if req.Index < 0 || req.Index >= len(req.Keywords) {
				writeErrorResponse(w, "Invalid index",
					fmt.Sprintf("keyword index %d out of range", req.Index), http.StatusBadRequest)
				return
			}
			result = session.SimulateKeyword(req.Index)
		default:
			writeErrorResponse(w, "Invalid item type", "itemType must be 'suggestion' or 'keyword'", http.StatusBadRequest)
			return
		}

		om.GetMetrics().RecordScoreComputed(ctx,
			attribute.String("simulation.item_type", req.ItemType),
			attribute.Float64("simulation.point_impact", result.PointImpact))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("simulation.item_type", req.ItemType),
			attribute.Float64("simulation.new_score", result.NewScore),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordRateLimitHit(r.Context(),
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
