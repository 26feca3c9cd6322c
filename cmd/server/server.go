package main

import (
	"fmt"
	"log"
	"net/http"

	"dsatutor/config"
	"dsatutor/db"
	"dsatutor/handlers"
	"dsatutor/services/assistant"
	"dsatutor/services/docindex"
	"dsatutor/services/evaluator"
	"dsatutor/services/hint"
	"dsatutor/services/knowledge"
	"dsatutor/services/progress"
	"dsatutor/services/qgen"
	"dsatutor/services/teach"
	"dsatutor/services/tutor"

	"github.com/gorilla/mux"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	cfg := config.Load()

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(cfg.OpenAIAPIKey),
	)
	if err != nil {
		log.Fatalf("Failed to create OpenAI client: %v", err)
	}

	var retriever knowledge.Retriever
	if cfg.PineconeAPIKey != "" {
		docindexService, err := docindex.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
		if err != nil {
			log.Fatalf("Failed to initialize document index service: %v", err)
		}
		retriever = docindexService
	} else {
		log.Printf("[WARN] PINECONE_API_KEY not set, knowledge search uses local ranking only")
	}

	store := knowledge.NewStore(retriever)

	var (
		progressRepo progress.Repository
		levelStore   hint.LevelStore
		sessionLog   progress.SessionLog
		history      handlers.SessionHistory
	)
	if cfg.DatabaseURL != "" {
		postgresProgress, err := db.NewPostgresProgressRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize progress database: %v", err)
		}
		defer postgresProgress.Close()
		progressRepo = postgresProgress

		postgresLevels, err := db.NewPostgresHintLevelStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize hint level database: %v", err)
		}
		defer postgresLevels.Close()
		levelStore = postgresLevels

		postgresSessions, err := db.NewPostgresSessionLog(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize session log database: %v", err)
		}
		defer postgresSessions.Close()
		sessionLog = postgresSessions
		history = postgresSessions
	} else {
		log.Printf("[WARN] DB_URL not set, progress and hint state are in-memory only")
		progressRepo = progress.NewMemoryRepository()
		levelStore = hint.NewMemoryLevelStore()
	}

	tracker := progress.NewTrackerWithLog(progressRepo, sessionLog)

	teachService := teach.NewService(llm, store, tracker)
	qgenService := qgen.NewService(llm, store)
	hintService := hint.NewServiceWithStore(llm, levelStore)
	evaluatorService := evaluator.NewService(llm, cfg.PassThreshold)

	tutorService := tutor.NewService(store, teachService, qgenService, hintService, evaluatorService, tracker)

	sessionHandler := handlers.NewSessionHandlerWithHistory(tutorService, history)
	conceptHandler := handlers.NewConceptHandler(tutorService)
	questionHandler := handlers.NewQuestionHandler(tutorService)
	hintHandler := handlers.NewHintHandler(tutorService)
	evaluationHandler := handlers.NewEvaluationHandler(tutorService)

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	sessionHandler.RegisterRoutes(router)
	conceptHandler.RegisterRoutes(router)
	questionHandler.RegisterRoutes(router)
	hintHandler.RegisterRoutes(router)
	evaluationHandler.RegisterRoutes(router)

	if cfg.AnthropicAPIKey != "" {
		assistantService, err := assistant.NewService(cfg.AnthropicAPIKey, tutorService)
		if err != nil {
			log.Fatalf("Failed to initialize assistant service: %v", err)
		}
		assistantHandler := handlers.NewAssistantHandler(assistantService)
		assistantHandler.RegisterRoutes(router)
	} else {
		log.Printf("[WARN] ANTHROPIC_API_KEY not set, assistant chat is disabled")
	}

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
