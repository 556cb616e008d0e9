package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"toolkit24/spark/pkg/providers"
	"toolkit24/spark/pkg/proxy"
	"toolkit24/spark/pkg/proxy/types"
	"toolkit24/spark/pkg/telemetry/metrics"
)

// ChatHandler serves POST /ai: it validates the chat completion request,
// selects the provider, and relays the response either as a single JSON
// body or as a re-framed SSE stream.
//
// Provider selection is fixed at startup: the primary (Anthropic) serves
// every request when its key is configured, otherwise the fallback
// (OpenAI) does. With neither configured the handler fails fast with a
// configuration error; there is no per-request failover and no retry.
type ChatHandler struct {
	primary  providers.Provider
	fallback providers.Provider
	metrics  *metrics.Collector
	logger   *slog.Logger

	// detail controls whether error responses carry the underlying
	// error text (development deployments).
	detail bool
}

// NewChatHandler creates a chat handler. Either provider may be nil;
// collector may be nil to disable metrics. devMode switches error
// responses from generic messages to diagnostic detail.
func NewChatHandler(primary, fallback providers.Provider, collector *metrics.Collector, devMode bool) *ChatHandler {
	return &ChatHandler{
		primary:  primary,
		fallback: fallback,
		metrics:  collector,
		logger:   slog.Default().With("component", "handlers.chat"),
		detail:   devMode,
	}
}

// ServeHTTP implements http.Handler.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(types.NewErrorResponse(
			"Method not allowed. Use POST.",
			types.ErrorTypeInvalidRequest,
			"",
			types.CodeInvalidValue,
		))
		return
	}

	req, err := proxy.ParseChatCompletionRequest(r)
	if err != nil {
		proxy.WriteErrorResponse(w, proxy.MapError(err, h.detail))
		return
	}

	provider := h.selectProvider()
	if provider == nil {
		h.logger.Error("no AI provider configured")
		proxy.WriteErrorResponse(w, proxy.MapError(&providers.ConfigError{
			Provider: "proxy",
			Field:    "api_key",
			Message:  "no provider API key configured",
		}, h.detail))
		return
	}

	completionReq := &providers.CompletionRequest{
		Model:     req.Model,
		Messages:  toProviderMessages(req.Messages),
		MaxTokens: req.MaxTokens,
		Stream:    req.Stream,
	}

	if req.Stream {
		h.handleStreaming(w, r, provider, completionReq)
		return
	}
	h.handleCompletion(w, r, provider, completionReq)
}

// selectProvider returns the provider that serves all requests.
func (h *ChatHandler) selectProvider() providers.Provider {
	if h.primary != nil {
		return h.primary
	}
	return h.fallback
}

func (h *ChatHandler) handleCompletion(w http.ResponseWriter, r *http.Request, provider providers.Provider, req *providers.CompletionRequest) {
	start := time.Now()

	resp, err := provider.SendCompletion(r.Context(), req)
	duration := time.Since(start)

	if err != nil {
		h.recordProvider(provider.GetName(), "error", duration)
		h.logger.Warn("completion failed",
			"provider", provider.GetName(),
			"duration", duration,
			"error", err,
		)
		proxy.WriteErrorResponse(w, proxy.MapError(err, h.detail))
		return
	}

	h.recordProvider(provider.GetName(), "success", duration)
	if h.metrics != nil {
		h.metrics.RecordProviderTokens(provider.GetName(), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	h.logger.Info("completion served",
		"provider", provider.GetName(),
		"model", req.Model,
		"duration", duration,
		"total_tokens", resp.Usage.TotalTokens,
	)

	proxy.WriteJSONResponse(w, http.StatusOK, proxy.FormatChatCompletionResponse(resp, req.Model, provider.GetName()))
}

func (h *ChatHandler) handleStreaming(w http.ResponseWriter, r *http.Request, provider providers.Provider, req *providers.CompletionRequest) {
	start := time.Now()

	chunks, err := provider.StreamCompletion(r.Context(), req)
	if err != nil {
		// Nothing has been written yet, so a normal error response works.
		h.recordProvider(provider.GetName(), "error", time.Since(start))
		proxy.WriteErrorResponse(w, proxy.MapError(err, h.detail))
		return
	}

	proxy.SetSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	var promptTokens, completionTokens int
	for chunk := range chunks {
		if chunk.Error != nil {
			h.recordProvider(provider.GetName(), "stream_error", time.Since(start))
			h.logger.Warn("stream failed mid-flight",
				"provider", provider.GetName(),
				"error", chunk.Error,
			)
			proxy.WriteStreamError(w, "The AI provider stream failed.")
			return
		}

		if chunk.Usage != nil {
			promptTokens = chunk.Usage.PromptTokens
			completionTokens = chunk.Usage.CompletionTokens
		}

		if chunk.Delta == "" {
			continue
		}
		if err := proxy.WriteStreamRecord(w, &types.StreamRecord{Text: chunk.Delta}); err != nil {
			// Client went away; stop relaying.
			h.logger.Debug("stream write failed", "error", err)
			return
		}
	}

	duration := time.Since(start)
	h.recordProvider(provider.GetName(), "success", duration)
	if h.metrics != nil {
		h.metrics.RecordProviderTokens(provider.GetName(), promptTokens, completionTokens)
	}

	h.logger.Info("stream served",
		"provider", provider.GetName(),
		"model", req.Model,
		"duration", duration,
	)

	proxy.WriteStreamDone(w, provider.GetName())
}

func (h *ChatHandler) recordProvider(provider, outcome string, duration time.Duration) {
	if h.metrics != nil {
		h.metrics.RecordProviderRequest(provider, outcome, duration)
	}
}

func toProviderMessages(messages []types.Message) []providers.Message {
	out := make([]providers.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, providers.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return out
}
