package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"facelab-server/modules/analyze"
	"facelab-server/modules/common/auth"
	"facelab-server/modules/common/config"
	"facelab-server/modules/common/credit"
	"facelab-server/modules/common/database"
	"facelab-server/modules/common/gemini"
	"facelab-server/modules/common/imaging"
	redisconn "facelab-server/modules/common/redis"
	"facelab-server/modules/common/storage"
	"facelab-server/modules/download"
	"facelab-server/modules/editor"
	"facelab-server/modules/history"
	"facelab-server/modules/notify"
	"facelab-server/modules/tools"
	"facelab-server/modules/transform"
	"facelab-server/modules/upload"
)

// CORS 미들웨어
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "facelab-server",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 외부 클라이언트 초기화
	rdb := redisconn.Connect(cfg)
	if rdb == nil {
		log.Println("⚠️  Running without Redis (no generation lock, no catalog cache)")
	}

	db := database.NewClient()
	if db == nil {
		log.Fatal("❌ Failed to initialize database client")
	}

	store := storage.NewClient()

	gem := gemini.NewClient(context.Background())
	if gem == nil {
		log.Fatal("❌ Failed to initialize Gemini client")
	}

	authClient := auth.NewClient()

	// 파이프라인 조립
	hub := notify.NewHub()
	notifier := notify.NewService(db, hub)
	gate := credit.NewGate(db, db, rdb)
	locker := redisconn.NewLocker(rdb)

	transformService := transform.NewService(store, db, gate, gem, locker, notifier,
		imaging.OptimizeToWebP, cfg.WebPQuality, cfg.LowCreditThreshold)
	analyzeService := analyze.NewService(store, db, gate, gem)
	downloadService := download.NewService(store, db)

	uploadHandler := upload.NewHandler(store)
	transformHandler := transform.NewHandler(transformService)
	analyzeHandler := analyze.NewHandler(analyzeService)
	downloadHandler := download.NewHandler(downloadService)
	historyHandler := history.NewHandler(db)
	editorHandler := editor.NewHandler(editor.NewSessionManager())

	// 라우터 설정
	r := mux.NewRouter()

	// CORS 미들웨어 적용
	r.Use(enableCORS)

	// 공개 라우트
	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/tools", tools.ListHandler).Methods("GET")

	// 인증 필요 라우트
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authClient.Middleware)
	api.HandleFunc("/uploads", uploadHandler.Upload).Methods("POST", "OPTIONS")
	api.HandleFunc("/transform", transformHandler.Transform).Methods("POST", "OPTIONS")
	api.HandleFunc("/analyze", analyzeHandler.Analyze).Methods("POST", "OPTIONS")
	api.HandleFunc("/download-hq", downloadHandler.DownloadHQ).Methods("POST", "OPTIONS")
	api.HandleFunc("/history", historyHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/editor/apply", editorHandler.Apply).Methods("POST", "OPTIONS")
	api.HandleFunc("/editor/undo", editorHandler.Undo).Methods("POST", "OPTIONS")
	api.HandleFunc("/editor/redo", editorHandler.Redo).Methods("POST", "OPTIONS")
	api.HandleFunc("/editor/state", editorHandler.GetState).Methods("GET", "OPTIONS")

	// 알림 웹소켓
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authClient.Middleware)
	ws.HandleFunc("", hub.HandleWS)

	log.Printf("🚀 FaceLab server starting on port %s", cfg.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
