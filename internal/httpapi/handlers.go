package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"modelq/internal/manager"
	"modelq/pkg/types"
)

// modelsHandler godoc
// @Summary      List models
// @Description  Models discovered in the models directory and the one served by this process.
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /models [get]
func modelsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		models := svc.ListModels()
		if models == nil {
			models = []types.Model{}
		}
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: models, Loaded: svc.ModelID()})
	}
}

// statusHandler godoc
// @Summary      Queue and engine status
// @Tags         status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func statusHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	}
}

// completionsHandler godoc
// @Summary      Structured completion
// @Description  Queues the prompt and decodes the model output as JSON. A ```json fenced block is preferred; otherwise the whole output must be JSON.
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        request  body      types.CompletionRequest  true  "Completion request"
// @Success      200      {object}  types.CompletionResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Failure      502      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Failure      504      {object}  types.ErrorResponse
// @Router       /v1/completions [post]
func completionsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := runCompletion(w, r, svc, manager.ModeStructured)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, types.CompletionResponse{ID: res.ID, Result: res.JSON})
	}
}

// textHandler godoc
// @Summary      Plain-text completion
// @Description  Queues the prompt and returns the model output unmodified.
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        request  body      types.CompletionRequest  true  "Completion request"
// @Success      200      {object}  types.TextResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Failure      504      {object}  types.ErrorResponse
// @Router       /v1/text [post]
func textHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := runCompletion(w, r, svc, manager.ModePlainText)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, types.TextResponse{ID: res.ID, Text: res.Text})
	}
}

// embeddingsHandler godoc
// @Summary      Embedding
// @Description  Calls the engine directly, outside the completion queue.
// @Tags         inference
// @Accept       json
// @Produce      json
// @Param        request  body      types.EmbeddingRequest  true  "Embedding request"
// @Success      200      {object}  types.EmbeddingResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /v1/embeddings [post]
func embeddingsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.EmbeddingRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		lvl := requestLogLevel(r)
		start := time.Now()
		ctx, cancel := requestContext(r)
		defer cancel()
		vec, err := svc.Embed(ctx, req.Input)
		if err != nil {
			writeServiceError(w, r, lvl, start, "embed", err)
			return
		}
		writeJSON(w, http.StatusOK, types.EmbeddingResponse{Embedding: vec})
		logEnd(r, lvl, "embed", http.StatusOK, start, nil)
	}
}

// runCompletion decodes the request body, queues it in mode and waits for the
// result. It writes the error response itself and reports ok=false on failure.
func runCompletion(w http.ResponseWriter, r *http.Request, svc Service, mode manager.Mode) (manager.CompletionResult, bool) {
	var req types.CompletionRequest
	if !decodeJSONBody(w, r, &req) {
		return manager.CompletionResult{}, false
	}
	// Basic validation
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSONError(w, http.StatusBadRequest, "prompt is required")
		return manager.CompletionResult{}, false
	}
	lvl := requestLogLevel(r)
	start := time.Now()
	logStart(r, lvl, mode.String())

	ctx, cancel := requestContext(r)
	defer cancel()
	res, err := svc.Run(ctx, toManagerRequest(req), mode)
	if err != nil {
		writeServiceError(w, r, lvl, start, mode.String(), err)
		return manager.CompletionResult{}, false
	}
	logEnd(r, lvl, mode.String(), http.StatusOK, start, nil)
	return res, true
}

// decodeJSONBody enforces the JSON content type and body size limit.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// Oversized bodies also land here; report 400 without size details.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func toManagerRequest(req types.CompletionRequest) manager.Request {
	return manager.Request{
		Context:          req.Prompt,
		Temperature:      req.Temperature,
		Stop:             req.Stop,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		MaxTokens:        req.MaxTokens,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
