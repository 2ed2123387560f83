package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"drafthub/internal/document/model"
	"drafthub/internal/document/repository"
	"drafthub/internal/document/service"
	"drafthub/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDocID  = "6f1c1e9a-4b7d-4a8e-9b2a-1c9d8e7f6a5b"
	testUserID = "a1b2c3d4-e5f6-4789-8abc-def012345678"
)

// newTestServer wires the full handler stack over a mock database. The auth
// middleware is replaced by a shim that injects the user id from a header,
// the same way the hub test fakes identity with a query parameter.
func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewDocumentHandler(service.NewDocumentService(repository.NewDocumentRepository(db)))

	asUser := func(next http.HandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, r.Header.Get("X-Test-User"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/documents", asUser(h.CreateDocument))
	mux.Handle("GET /api/documents", asUser(h.GetDocuments))
	mux.Handle("GET /api/documents/{id}", asUser(h.GetDocument))
	mux.Handle("POST /api/documents/{id}/versions", asUser(h.SaveVersion))
	mux.Handle("GET /api/documents/{id}/versions", asUser(h.GetVersions))
	mux.Handle("POST /api/documents/{id}/access", asUser(h.ShareDocument))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, mock
}

func doRequest(t *testing.T, server *httptest.Server, method, path, userID, body string) *http.Response {
	req, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("X-Test-User", userID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateDocumentEndpoint(t *testing.T) {
	server, mock := newTestServer(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "Untitled Document", testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	resp := doRequest(t, server, http.MethodPost, "/api/documents", testUserID, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var doc model.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "Untitled Document", doc.Title)
	assert.Equal(t, testUserID, doc.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDocumentEndpointNotFound(t *testing.T) {
	server, mock := newTestServer(t)

	mock.ExpectQuery("SELECT d.id, d.title, d.owner_id").
		WithArgs(testDocID, testUserID).
		WillReturnError(sql.ErrNoRows)

	resp := doRequest(t, server, http.MethodGet, "/api/documents/"+testDocID, testUserID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDocumentEndpointForbidden(t *testing.T) {
	server, mock := newTestServer(t)

	now := time.Now()
	mock.ExpectQuery("SELECT d.id, d.title, d.owner_id").
		WithArgs(testDocID, testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "current_content", "created_at", "updated_at", "user_id", "role", "status"}).
			AddRow(testDocID, "Untitled Document", "someone-else", nil, now, now, nil, nil, nil))

	resp := doRequest(t, server, http.MethodGet, "/api/documents/"+testDocID, testUserID, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDocumentEndpointMalformedID(t *testing.T) {
	server, mock := newTestServer(t)

	resp := doRequest(t, server, http.MethodGet, "/api/documents/not-a-uuid", testUserID, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveVersionEndpointRoundTrip(t *testing.T) {
	server, mock := newTestServer(t)

	content := `{"type":"doc","content":[{"type":"paragraph"}]}`
	now := time.Now()
	mock.ExpectQuery("SELECT d.id, d.title, d.owner_id").
		WithArgs(testDocID, testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "current_content", "created_at", "updated_at", "user_id", "role", "status"}).
			AddRow(testDocID, "Untitled Document", testUserID, nil, now, now, nil, nil, nil))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE documents SET current_content").
		WithArgs([]byte(content), testDocID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO document_versions").
		WithArgs(sqlmock.AnyArg(), testDocID, []byte(content), "Draft 1", testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	body := `{"content":` + content + `,"name":"Draft 1"}`
	resp := doRequest(t, server, http.MethodPost, "/api/documents/"+testDocID+"/versions", testUserID, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var version model.DocumentVersion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&version))
	assert.Equal(t, testDocID, version.DocumentID)
	assert.Equal(t, testUserID, version.CreatedBy)
	assert.JSONEq(t, content, string(version.Content))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveVersionEndpointRejectsEmptyContent(t *testing.T) {
	server, mock := newTestServer(t)

	resp := doRequest(t, server, http.MethodPost, "/api/documents/"+testDocID+"/versions", testUserID, `{"content":null}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShareEndpointRejectsBadRole(t *testing.T) {
	server, mock := newTestServer(t)

	body := `{"email":"friend@example.com","role":"SUPERUSER"}`
	resp := doRequest(t, server, http.MethodPost, "/api/documents/"+testDocID+"/access", testUserID, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDocumentsEndpoint(t *testing.T) {
	server, mock := newTestServer(t)

	now := time.Now()
	mock.ExpectQuery("SELECT d.id, d.title, d.owner_id").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "current_content", "created_at", "updated_at"}).
			AddRow(testDocID, "Untitled Document", testUserID, nil, now, now))

	resp := doRequest(t, server, http.MethodGet, "/api/documents", testUserID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []model.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&docs))
	require.Len(t, docs, 1)
	assert.Equal(t, testDocID, docs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
