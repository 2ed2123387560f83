package handler

import (
	"encoding/json"
	"net/http"

	"drafthub/internal/document/model"
	"drafthub/internal/document/service"
	"drafthub/middleware"
	"drafthub/pkg/apperrors"
	"drafthub/pkg/logger"
)

type DocumentHandler struct {
	Service *service.DocumentService
}

func NewDocumentHandler(service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(string)

	var req model.CreateDocRequest
	_ = json.NewDecoder(r.Body).Decode(&req) // Ignore error, default to empty

	doc, err := h.Service.Create(r.Context(), userID, req.Title)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create document: %v", err)
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(string)

	docs, err := h.Service.ListAll(r.Context(), userID)
	if err != nil {
		logger.Sugar.Errorf("Error fetching documents: %v", err)
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(string)
	docID := r.PathValue("id")

	doc, err := h.Service.GetOne(r.Context(), docID, userID)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func (h *DocumentHandler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(string)
	docID := r.PathValue("id")

	var req model.SaveVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Content) == 0 || string(req.Content) == "null" {
		http.Error(w, "Content cannot be empty", http.StatusBadRequest)
		return
	}

	version, err := h.Service.SaveVersion(r.Context(), docID, req.Content, req.Name, userID)
	if err != nil {
		logger.Sugar.Errorf("Error saving version for doc %s: %v", docID, err)
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(version)
}

func (h *DocumentHandler) GetVersions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(string)
	docID := r.PathValue("id")

	versions, err := h.Service.ListVersions(r.Context(), docID, userID)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(versions)
}

func (h *DocumentHandler) ShareDocument(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(string)
	docID := r.PathValue("id")

	var req model.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = model.RoleViewer
	}
	if req.Role != model.RoleViewer && req.Role != model.RoleEditor && req.Role != model.RoleAdmin {
		http.Error(w, "Invalid role. Must be VIEWER, EDITOR, or ADMIN", http.StatusBadRequest)
		return
	}

	if err := h.Service.Share(r.Context(), docID, userID, req.Email, req.Role); err != nil {
		logger.Sugar.Errorf("Handler: Failed to share doc %s: %v", docID, err)
		http.Error(w, err.Error(), apperrors.StatusCode(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Access granted"))
}
