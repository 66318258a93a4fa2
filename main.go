package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/smartfit/smartfit-backend/api"
	"github.com/smartfit/smartfit-backend/config"
	"github.com/smartfit/smartfit-backend/storage"
	"github.com/smartfit/smartfit-backend/utils"
)

func main() {
	config.LoadConfig()

	// MONGODB_URI selects the durable backend; without it the server runs on
	// the in-memory store.
	var store storage.Store
	if config.MongoURI != "" {
		client, err := utils.ConnectMongo(config.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoStore, err := storage.NewMongoStore(client, config.DBName)
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB store: %v", err)
		}
		store = mongoStore
	} else {
		log.Println("MONGODB_URI not set, using in-memory store")
		store = storage.NewMemStore()
	}

	mux := http.NewServeMux()
	api.NewHandler(store).RegisterRoutes(mux)

	// CORS Middleware
	corsMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	port := config.Port
	fmt.Printf("SmartFit server starting on port %s (storage: %s)...\n", port, store.Kind())
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(corsMiddleware(mux))); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
