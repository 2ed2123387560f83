package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	authHandler "drafthub/internal/auth"
	authRepository "drafthub/internal/auth/repository"
	authService "drafthub/internal/auth/service"
	docHandler "drafthub/internal/document"
	"drafthub/internal/document/repository"
	"drafthub/internal/document/service"
	"drafthub/middleware"
)

func Setup(db *sql.DB) http.Handler {
	mux := http.NewServeMux()

	tokenTTL := 24 * time.Hour
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if parsed, err := time.ParseDuration(ttl); err == nil {
			tokenTTL = parsed
		}
	}

	userRepo := authRepository.NewUserRepository(db)
	authSvc := authService.NewAuthService(userRepo, os.Getenv("JWT_SECRET"), tokenTTL)
	auth := authHandler.NewAuthHandler(authSvc)

	docRepo := repository.NewDocumentRepository(db)
	docSvc := service.NewDocumentService(docRepo)
	docs := docHandler.NewDocumentHandler(docSvc)

	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)

	protected := middleware.AuthMiddleware

	mux.Handle("POST /api/documents", protected(http.HandlerFunc(docs.CreateDocument)))
	mux.Handle("GET /api/documents", protected(http.HandlerFunc(docs.GetDocuments)))
	mux.Handle("GET /api/documents/{id}", protected(http.HandlerFunc(docs.GetDocument)))
	mux.Handle("POST /api/documents/{id}/versions", protected(http.HandlerFunc(docs.SaveVersion)))
	mux.Handle("GET /api/documents/{id}/versions", protected(http.HandlerFunc(docs.GetVersions)))
	mux.Handle("POST /api/documents/{id}/access", protected(http.HandlerFunc(docs.ShareDocument)))

	return middleware.CORSMiddleware(mux)
}
