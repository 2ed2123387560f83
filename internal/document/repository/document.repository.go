package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"drafthub/internal/document/model"
	"drafthub/pkg/logger"
)

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(ctx context.Context, id, ownerID, title string) (*model.Document, error) {
	doc := &model.Document{ID: id, Title: title, OwnerID: ownerID}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO documents (id, title, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at`,
		id, title, ownerID,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create document for owner %s: %v", ownerID, err)
		return nil, err
	}
	return doc, nil
}

// GetWithGrant loads a document together with the given user's access grant
// row, if one exists. Returns sql.ErrNoRows when the document does not exist.
func (r *DocumentRepository) GetWithGrant(ctx context.Context, docID, userID string) (*model.Document, *model.AccessGrant, error) {
	var doc model.Document
	var content []byte
	var grantUserID, grantRole, grantStatus sql.NullString

	err := r.DB.QueryRowContext(ctx, `
		SELECT d.id, d.title, d.owner_id, d.current_content, d.created_at, d.updated_at,
		       a.user_id, a.role, a.status
		FROM documents d
		LEFT JOIN document_access a ON a.document_id = d.id AND a.user_id = $2
		WHERE d.id = $1`,
		docID, userID,
	).Scan(&doc.ID, &doc.Title, &doc.OwnerID, &content, &doc.CreatedAt, &doc.UpdatedAt,
		&grantUserID, &grantRole, &grantStatus)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Sugar.Errorf("Failed to load document %s: %v", docID, err)
		}
		return nil, nil, err
	}
	doc.CurrentContent = json.RawMessage(content)

	var grant *model.AccessGrant
	if grantUserID.Valid {
		grant = &model.AccessGrant{
			UserID:     grantUserID.String,
			DocumentID: doc.ID,
			Role:       grantRole.String,
			Status:     grantStatus.String,
		}
	}
	return &doc, grant, nil
}

// ListAccessible returns every document the user owns or holds a grant on.
// The join can yield the same document more than once (an owner with a
// redundant grant row), so results are deduplicated by document id here.
func (r *DocumentRepository) ListAccessible(ctx context.Context, userID string) ([]model.Document, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT d.id, d.title, d.owner_id, d.current_content, d.created_at, d.updated_at
		FROM documents d
		LEFT JOIN document_access a ON a.document_id = d.id
		WHERE d.owner_id = $1 OR a.user_id = $1
		ORDER BY d.updated_at DESC`,
		userID,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to list documents for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	seen := make(map[string]bool)
	for rows.Next() {
		var doc model.Document
		var content []byte
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.OwnerID, &content, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan document row: %v", err)
			return nil, err
		}
		if seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		doc.CurrentContent = json.RawMessage(content)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SaveVersion overwrites the document's current content snapshot and appends
// a version row in a single transaction. Either both writes commit or
// neither does; the snapshot is never left without a matching version.
func (r *DocumentRepository) SaveVersion(ctx context.Context, versionID, docID string, content json.RawMessage, versionName *string, createdBy string) (*model.DocumentVersion, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		logger.Sugar.Errorf("Failed to begin save transaction for doc %s: %v", docID, err)
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE documents SET current_content = $1, updated_at = NOW() WHERE id = $2`,
		[]byte(content), docID,
	); err != nil {
		logger.Sugar.Errorf("Failed to update content for doc %s: %v", docID, err)
		return nil, err
	}

	version := &model.DocumentVersion{
		ID:          versionID,
		DocumentID:  docID,
		Content:     content,
		VersionName: versionName,
		CreatedBy:   createdBy,
	}
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO document_versions (id, document_id, content, version_name, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at`,
		versionID, docID, []byte(content), versionName, createdBy,
	).Scan(&version.CreatedAt); err != nil {
		logger.Sugar.Errorf("Failed to insert version for doc %s: %v", docID, err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Sugar.Errorf("Failed to commit save for doc %s: %v", docID, err)
		return nil, err
	}
	return version, nil
}

func (r *DocumentRepository) ListVersions(ctx context.Context, docID string) ([]model.DocumentVersion, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, document_id, content, version_name, created_by, created_at
		FROM document_versions WHERE document_id = $1 ORDER BY created_at ASC`,
		docID,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to list versions for doc %s: %v", docID, err)
		return nil, err
	}
	defer rows.Close()

	versions := make([]model.DocumentVersion, 0)
	for rows.Next() {
		var v model.DocumentVersion
		var content []byte
		if err := rows.Scan(&v.ID, &v.DocumentID, &content, &v.VersionName, &v.CreatedBy, &v.CreatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan version row: %v", err)
			return nil, err
		}
		v.Content = json.RawMessage(content)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *DocumentRepository) GetUserIDByEmail(ctx context.Context, email string) (string, error) {
	var userID string
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if err != nil && err != sql.ErrNoRows {
		logger.Sugar.Errorf("Failed to look up user by email %s: %v", email, err)
	}
	return userID, err
}

func (r *DocumentRepository) UpsertGrant(ctx context.Context, docID, userID, role string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO document_access (user_id, document_id, role, status)
		VALUES ($1, $2, $3, 'PENDING')
		ON CONFLICT (user_id, document_id) DO UPDATE SET role = EXCLUDED.role`,
		userID, docID, role,
	)
	if err != nil {
		logger.Sugar.Errorf("Failed to grant access on doc %s to user %s: %v", docID, userID, err)
	}
	return err
}
