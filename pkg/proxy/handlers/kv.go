package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"toolkit24/spark/pkg/kv"
	"toolkit24/spark/pkg/proxy"
	"toolkit24/spark/pkg/proxy/types"
	"toolkit24/spark/pkg/telemetry/metrics"
)

// KVHandler serves the key-value routes:
//
//	GET    /kv        -> list keys
//	POST   /kv        -> set {key, value}
//	DELETE /kv        -> clear all
//	GET    /kv/{key}  -> read value
//	POST   /kv/{key}  -> set value (raw JSON body)
//	PUT    /kv/{key}  -> set value (raw JSON body)
//	DELETE /kv/{key}  -> delete key (idempotent)
type KVHandler struct {
	store   kv.Store
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewKVHandler creates a KV handler over the given store.
// collector may be nil to disable metrics.
func NewKVHandler(store kv.Store, collector *metrics.Collector) *KVHandler {
	return &KVHandler{
		store:   store,
		metrics: collector,
		logger:  slog.Default().With("component", "handlers.kv"),
	}
}

// setRequest is the body shape for POST /kv.
type setRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// HandleCollection serves requests against /kv.
func (h *KVHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listKeys(w)
	case http.MethodPost:
		h.setFromBody(w, r)
	case http.MethodDelete:
		h.clearAll(w)
	default:
		h.methodNotAllowed(w, "GET, POST, DELETE")
	}
}

// HandleItem serves requests against /kv/{key}.
func (h *KVHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	key, errResp := h.keyFromPath(r)
	if errResp != nil {
		h.record(strings.ToLower(r.Method), "invalid_key")
		proxy.WriteErrorResponse(w, errResp)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getValue(w, key)
	case http.MethodPost, http.MethodPut:
		h.setValue(w, r, key)
	case http.MethodDelete:
		h.deleteKey(w, key)
	default:
		h.methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

func (h *KVHandler) listKeys(w http.ResponseWriter) {
	keys, err := h.store.Keys()
	if err != nil {
		h.record("keys", "error")
		h.logger.Error("failed to list keys", "error", err)
		proxy.WriteErrorResponse(w, types.NewServerError("Failed to list keys."))
		return
	}
	if keys == nil {
		keys = []string{}
	}

	h.record("keys", "ok")
	proxy.WriteJSONResponse(w, http.StatusOK, types.KVListResponse{Keys: keys})
}

// setBodyOverhead is the allowance for the key field and JSON wrapper
// around the value in a collection-route body.
const setBodyOverhead = 4096

func (h *KVHandler) setFromBody(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, kv.MaxValueSize+setBodyOverhead+1))
	if err != nil {
		h.record("set", "error")
		proxy.WriteErrorResponse(w, types.NewInvalidRequestError(
			"Failed to read request body.", "", types.CodeInvalidJSON))
		return
	}
	if len(body) > kv.MaxValueSize+setBodyOverhead {
		h.record("set", "value_too_large")
		proxy.WriteErrorResponse(w, types.NewRequestTooLargeError(
			"Request body exceeds the maximum value size.", "value"))
		return
	}

	var req setRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.record("set", "invalid_json")
		proxy.WriteErrorResponse(w, types.NewInvalidRequestError(
			"Request body must be JSON with key and value fields.", "", types.CodeInvalidJSON))
		return
	}
	if len(req.Value) == 0 {
		h.record("set", "invalid_value")
		proxy.WriteErrorResponse(w, types.NewInvalidRequestError(
			"A value field is required.", "value", types.CodeMissingField))
		return
	}

	h.storeValue(w, req.Key, req.Value, "set")
}

func (h *KVHandler) setValue(w http.ResponseWriter, r *http.Request, key string) {
	value, err := io.ReadAll(io.LimitReader(r.Body, kv.MaxValueSize+1))
	if err != nil {
		h.record("set", "error")
		proxy.WriteErrorResponse(w, types.NewInvalidRequestError(
			"Failed to read request body.", "", types.CodeInvalidJSON))
		return
	}
	// Size before validity: a body past the cap arrives truncated, and
	// truncated JSON must not read as malformed.
	if len(value) > kv.MaxValueSize {
		h.record("set", "value_too_large")
		proxy.WriteErrorResponse(w, types.NewRequestTooLargeError(
			kv.ValidateValue(value).Error(), "value"))
		return
	}
	if !json.Valid(value) {
		h.record("set", "invalid_json")
		proxy.WriteErrorResponse(w, types.NewInvalidRequestError(
			"Request body must be valid JSON.", "", types.CodeInvalidJSON))
		return
	}

	h.storeValue(w, key, value, "set")
}

// storeValue validates and writes one entry. No partial writes: every
// check happens before the store is touched.
func (h *KVHandler) storeValue(w http.ResponseWriter, key string, value []byte, op string) {
	if err := kv.ValidateKey(key); err != nil {
		h.record(op, "invalid_key")
		proxy.WriteErrorResponse(w, types.NewInvalidRequestError(err.Error(), "key", types.CodeInvalidKey))
		return
	}
	if err := kv.ValidateValue(value); err != nil {
		h.record(op, "value_too_large")
		proxy.WriteErrorResponse(w, types.NewRequestTooLargeError(err.Error(), "value"))
		return
	}

	if err := h.store.Set(key, value); err != nil {
		h.record(op, "error")
		h.logger.Error("failed to set key", "key", key, "error", err)
		proxy.WriteErrorResponse(w, types.NewServerError("Failed to store value."))
		return
	}

	h.record(op, "ok")
	h.updateEntryGauge()
	proxy.WriteJSONResponse(w, http.StatusOK, types.KVWriteResponse{OK: true, Key: key})
}

func (h *KVHandler) getValue(w http.ResponseWriter, key string) {
	value, err := h.store.Get(key)
	if err == kv.ErrNotFound {
		h.record("get", "miss")
		proxy.WriteJSONResponse(w, http.StatusOK, types.KVValueResponse{Value: missingValue(key)})
		return
	}
	if err != nil {
		h.record("get", "error")
		h.logger.Error("failed to get key", "key", key, "error", err)
		proxy.WriteErrorResponse(w, types.NewServerError("Failed to read value."))
		return
	}

	h.record("get", "ok")
	proxy.WriteJSONResponse(w, http.StatusOK, types.KVValueResponse{Value: json.RawMessage(value)})
}

func (h *KVHandler) deleteKey(w http.ResponseWriter, key string) {
	deleted, err := h.store.Delete(key)
	if err != nil {
		h.record("delete", "error")
		h.logger.Error("failed to delete key", "key", key, "error", err)
		proxy.WriteErrorResponse(w, types.NewServerError("Failed to delete key."))
		return
	}

	h.record("delete", "ok")
	h.updateEntryGauge()
	proxy.WriteJSONResponse(w, http.StatusOK, types.KVWriteResponse{OK: true, Key: key, Deleted: deleted})
}

func (h *KVHandler) clearAll(w http.ResponseWriter) {
	if err := h.store.Clear(); err != nil {
		h.record("clear", "error")
		h.logger.Error("failed to clear store", "error", err)
		proxy.WriteErrorResponse(w, types.NewServerError("Failed to clear store."))
		return
	}

	h.record("clear", "ok")
	h.updateEntryGauge()
	proxy.WriteJSONResponse(w, http.StatusOK, types.KVWriteResponse{OK: true, Cleared: true})
}

func (h *KVHandler) methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(types.NewErrorResponse(
		"Method not allowed.",
		types.ErrorTypeInvalidRequest,
		"",
		types.CodeInvalidValue,
	))
}

// keyFromPath extracts and validates the key from an item route.
func (h *KVHandler) keyFromPath(r *http.Request) (string, *types.ErrorResponse) {
	raw := r.PathValue("key")
	key, err := url.PathUnescape(raw)
	if err != nil {
		key = raw
	}

	if err := kv.ValidateKey(key); err != nil {
		return "", types.NewInvalidRequestError(err.Error(), "key", types.CodeInvalidKey)
	}
	return key, nil
}

// missingValue decides what a GET on an absent key returns. Keys whose
// name suggests a collection ("messages", "list", "items") read as an
// empty array so callers can append without an existence check; all
// other keys read as null.
func missingValue(key string) interface{} {
	lower := strings.ToLower(key)
	for _, marker := range []string{"messages", "list", "items"} {
		if strings.Contains(lower, marker) {
			return []interface{}{}
		}
	}
	return nil
}

func (h *KVHandler) record(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordKVOperation(operation, outcome)
	}
}

func (h *KVHandler) updateEntryGauge() {
	if h.metrics == nil {
		return
	}
	if n, err := h.store.Len(); err == nil {
		h.metrics.SetKVEntries(n)
	}
}
