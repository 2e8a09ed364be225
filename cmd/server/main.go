package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ndavydova/taskwise/internal/ai"
	"github.com/ndavydova/taskwise/internal/config"
	"github.com/ndavydova/taskwise/internal/db"
	"github.com/ndavydova/taskwise/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	client := initDB(cfg)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	mux := initHandlers(cfg, client)
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: mux,
	}
	startServer(server, cfg.ServerPort)
}

func initDB(cfg *config.Config) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("MongoDB connected")
	return client
}

func initHandlers(cfg *config.Config, client *mongo.Client) *http.ServeMux {
	aiClient, err := ai.NewClient(ai.Config{
		Endpoint:   cfg.AzureEndpoint,
		APIKey:     cfg.AzureAPIKey,
		Deployment: cfg.AzureDeployment,
		APIVersion: cfg.AzureAPIVersion,
		Timeout:    cfg.AITimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}

	database := client.Database(cfg.MongoDB)
	handler := &handlers.Handler{
		TaskRepo:  db.NewTaskRepository(database),
		UserRepo:  db.NewUserRepository(database),
		AI:        aiClient,
		JWTSecret: []byte(cfg.JWTSecret),
		// allow max 5 register/login attempts per 15 minutes from the same IP
		RateLimiter: handlers.NewRateLimiter(5, 15*time.Minute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", handlers.CORS(handler.Register))
	mux.HandleFunc("/auth/login", handlers.CORS(handler.Login))
	mux.HandleFunc("/todos", handlers.CORS(handler.AuthMiddleware(handler.HandleTasks)))
	mux.HandleFunc("/todos/", handlers.CORS(handler.AuthMiddleware(handler.HandleTaskByID)))
	mux.HandleFunc("/ai/parse", handlers.CORS(handler.AuthMiddleware(handler.HandleParse)))
	mux.HandleFunc("/ai/improve", handlers.CORS(handler.AuthMiddleware(handler.HandleImprove)))
	mux.HandleFunc("/ai/classify", handlers.CORS(handler.AuthMiddleware(handler.HandleClassify)))
	return mux
}

func startServer(server *http.Server, port string) {
	log.Printf("Starting server on :%s", port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
