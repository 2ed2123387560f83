package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"drafthub/internal/document/model"
	"drafthub/internal/document/repository"
	"drafthub/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const pgForeignKeyViolation = "23503"

type DocumentService struct {
	Repo *repository.DocumentRepository
}

func NewDocumentService(repo *repository.DocumentRepository) *DocumentService {
	return &DocumentService{Repo: repo}
}

// ResolvedAccess is the outcome of an access check: the document itself,
// whether the caller owns it, and the caller's grant row if one exists.
type ResolvedAccess struct {
	Document *model.Document
	Grant    *model.AccessGrant
	IsOwner  bool
}

// resolveAccess decides read/write eligibility for a user on a document.
// It is the only gate in front of every read and every write.
func (s *DocumentService) resolveAccess(ctx context.Context, docID, userID string) (*ResolvedAccess, error) {
	if _, err := uuid.Parse(docID); err != nil {
		return nil, apperrors.NewBadRequestError("invalid document id")
	}

	doc, grant, err := s.Repo.GetWithGrant(ctx, docID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("document not found")
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("could not load document")
	}

	isOwner := doc.OwnerID == userID
	if !hasEntitlement(isOwner, grant) {
		return nil, apperrors.NewForbiddenError("you do not have access to this document")
	}
	return &ResolvedAccess{Document: doc, Grant: grant, IsOwner: isOwner}, nil
}

// hasEntitlement is the single access predicate for both reads and writes.
// It deliberately ignores the grant's role and status: any grant row counts,
// including a PENDING VIEWER one. Tightening that policy is a change here
// and nowhere else.
func hasEntitlement(isOwner bool, grant *model.AccessGrant) bool {
	return isOwner || grant != nil
}

func (s *DocumentService) Create(ctx context.Context, userID, title string) (*model.Document, error) {
	if title == "" {
		title = model.DefaultTitle
	}
	doc, err := s.Repo.Create(ctx, uuid.NewString(), userID, title)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation {
			return nil, apperrors.NewBadRequestError("unknown owner")
		}
		return nil, apperrors.NewUnavailableError("could not create document")
	}
	return doc, nil
}

func (s *DocumentService) ListAll(ctx context.Context, userID string) ([]model.Document, error) {
	docs, err := s.Repo.ListAccessible(ctx, userID)
	if err != nil {
		return nil, apperrors.NewUnavailableError("could not list documents")
	}
	return docs, nil
}

func (s *DocumentService) GetOne(ctx context.Context, docID, userID string) (*model.DocumentResponse, error) {
	res, err := s.resolveAccess(ctx, docID, userID)
	if err != nil {
		return nil, err
	}
	return &model.DocumentResponse{Document: *res.Document, Grant: res.Grant}, nil
}

// SaveVersion snapshots new content onto the document and appends a version
// row. The access check doubles as the existence check; both writes happen
// in one transaction so the snapshot always matches the newest version.
func (s *DocumentService) SaveVersion(ctx context.Context, docID string, content json.RawMessage, versionName, userID string) (*model.DocumentVersion, error) {
	if _, err := s.resolveAccess(ctx, docID, userID); err != nil {
		return nil, err
	}

	var name *string
	if versionName != "" {
		name = &versionName
	}
	version, err := s.Repo.SaveVersion(ctx, uuid.NewString(), docID, content, name, userID)
	if err != nil {
		return nil, apperrors.NewUnavailableError("could not save version")
	}
	return version, nil
}

func (s *DocumentService) ListVersions(ctx context.Context, docID, userID string) ([]model.DocumentVersion, error) {
	if _, err := s.resolveAccess(ctx, docID, userID); err != nil {
		return nil, err
	}
	versions, err := s.Repo.ListVersions(ctx, docID)
	if err != nil {
		return nil, apperrors.NewUnavailableError("could not list versions")
	}
	return versions, nil
}

// Share grants another user access to the document. Only the owner may
// share; new grants start as PENDING, re-sharing updates the role.
func (s *DocumentService) Share(ctx context.Context, docID, userID, email, role string) error {
	res, err := s.resolveAccess(ctx, docID, userID)
	if err != nil {
		return err
	}
	if !res.IsOwner {
		return apperrors.NewForbiddenError("only the owner can share a document")
	}

	targetID, err := s.Repo.GetUserIDByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError("no user with that email")
	}
	if err != nil {
		return apperrors.NewUnavailableError("could not look up user")
	}

	if err := s.Repo.UpsertGrant(ctx, docID, targetID, role); err != nil {
		return apperrors.NewUnavailableError("could not save access grant")
	}
	return nil
}
