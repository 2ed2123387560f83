package model

import (
	"encoding/json"
	"time"
)

const (
	RoleViewer = "VIEWER"
	RoleEditor = "EDITOR"
	RoleAdmin  = "ADMIN"

	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

const DefaultTitle = "Untitled Document"

type Document struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	OwnerID        string          `json:"owner_id"`
	CurrentContent json.RawMessage `json:"current_content,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DocumentVersion is an immutable historical record of a document's content.
// Rows are append-only; insertion order is the canonical history order.
type DocumentVersion struct {
	ID          string          `json:"id"`
	DocumentID  string          `json:"document_id"`
	Content     json.RawMessage `json:"content"`
	VersionName *string         `json:"version_name,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AccessGrant links a non-owner user to a document. At most one grant per
// (user, document) pair.
type AccessGrant struct {
	UserID     string `json:"user_id"`
	DocumentID string `json:"document_id"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

type CreateDocRequest struct {
	Title string `json:"title"`
}

type SaveVersionRequest struct {
	Content json.RawMessage `json:"content"`
	Name    string          `json:"name,omitempty"`
}

type ShareRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DocumentResponse is a document plus the calling user's own grant, if any,
// so the UI can show how the document was shared with them.
type DocumentResponse struct {
	Document
	Grant *AccessGrant `json:"grant,omitempty"`
}
