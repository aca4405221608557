package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"deezed-physique-server/modules/coach"
	"deezed-physique-server/modules/common/config"
	"deezed-physique-server/modules/common/database"
	"deezed-physique-server/modules/common/openai"
	redisClient "deezed-physique-server/modules/common/redis"
	"deezed-physique-server/modules/common/storage"
	"deezed-physique-server/modules/physique"
)

// enableCORS - CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-Id")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthCheck - 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "deezed-physique-server",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 의존성 초기화 (명시적 주입, 싱글톤 없음)
	aiClient := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	storageClient, err := storage.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage client: %v", err)
	}

	dbClient := database.NewClient(cfg)
	if dbClient == nil {
		log.Fatal("❌ Failed to initialize database client")
	}

	rdb := redisClient.Connect(cfg)
	if rdb == nil {
		log.Fatal("❌ Failed to connect to Redis")
	}

	// 생성기 선택: Replicate 토큰 없으면 Mock으로 degrade
	var generator physique.Generator
	if cfg.ReplicateAPIToken != "" {
		generator = physique.NewFluxKontextGenerator(cfg.ReplicateAPIToken)
	} else {
		log.Println("⚠️  REPLICATE_API_TOKEN not set - using mock image generator")
		generator = physique.NewMockGenerator()
	}

	physiqueService := physique.NewService(aiClient, storageClient, generator)
	physiqueHandler := physique.NewHandler(physiqueService, dbClient, storageClient, rdb)

	coachService := coach.NewService(aiClient)
	coachHandler := coach.NewHandler(coachService, dbClient)

	// Redis Queue Worker 시작 (백그라운드)
	go physique.StartWorker(physiqueService, dbClient, rdb)

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	physiqueHandler.RegisterRoutes(r)
	coachHandler.RegisterRoutes(r)

	log.Printf("🚀 Deezed Physique Server starting on port %s", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
