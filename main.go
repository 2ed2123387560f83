package main

import (
	"net/http"
	"os"

	"drafthub/config/database"
	"drafthub/pkg/logger"
	"drafthub/router"
	"drafthub/store/migrations"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	logger.Init()
	defer logger.Log.Sync()

	if envErr != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	db := database.Connect()
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		logger.Sugar.Fatalf("Failed to migrate database schema: %v", err)
	}

	handler := router.Setup(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Sugar.Infof("Backend listening on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
