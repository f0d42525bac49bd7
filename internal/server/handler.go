// Package server exposes workbook export and object transfer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ukaji3/modelsheet-go/internal/derivative"
	"github.com/ukaji3/modelsheet-go/internal/logging"
	"github.com/ukaji3/modelsheet-go/internal/service"
	"github.com/ukaji3/modelsheet-go/internal/storage"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet"
	"go.uber.org/zap"
)

// ObjectService is implemented by *service.Service.
type ObjectService interface {
	Excel(ctx context.Context, req service.ObjectRequest) (service.ExportResult, error)
	Download(ctx context.Context, bucket, object string) (string, error)
	Delete(ctx context.Context, bucket, object string) error
}

// Handler serves the object routes.
type Handler struct {
	svc    ObjectService
	logger *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc ObjectService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

type downloadResponse struct {
	Path string `json:"path"`
}

func (h *Handler) excelObject(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeObjectRequest(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Excel(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) downloadObject(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeObjectRequest(w, r)
	if !ok {
		return
	}

	path, err := h.svc.Download(r.Context(), req.Bucket, req.Object)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadResponse{Path: path})
}

func (h *Handler) deleteObject(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeObjectRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), req.Bucket, req.Object); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeObjectRequest(w http.ResponseWriter, r *http.Request) (service.ObjectRequest, bool) {
	var req service.ObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return req, false
	}
	req.Bucket = strings.TrimSpace(req.Bucket)
	req.Object = strings.TrimSpace(req.Object)
	if req.Bucket == "" || req.Object == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bucketKey and objectName are required"})
		return req, false
	}
	return req, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := logging.FromContext(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		log.Warn("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var apiErr *derivative.APIError
	var formatErr *modelsheet.FormatError
	switch {
	case errors.Is(err, modelsheet.ErrDestinationExists):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, derivative.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.As(err, &formatErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrNoStore), errors.Is(err, service.ErrNoSource):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
