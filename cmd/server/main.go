package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kishor978/RAG-System/internal/ai"
	"github.com/Kishor978/RAG-System/internal/booking"
	"github.com/Kishor978/RAG-System/internal/chunking"
	"github.com/Kishor978/RAG-System/internal/config"
	"github.com/Kishor978/RAG-System/internal/db"
	"github.com/Kishor978/RAG-System/internal/document"
	"github.com/Kishor978/RAG-System/internal/email"
	"github.com/Kishor978/RAG-System/internal/embedding"
	"github.com/Kishor978/RAG-System/internal/evaluation"
	"github.com/Kishor978/RAG-System/internal/httpapi"
	"github.com/Kishor978/RAG-System/internal/httpapi/handlers"
	"github.com/Kishor978/RAG-System/internal/memory"
	"github.com/Kishor978/RAG-System/internal/rag"
	"github.com/Kishor978/RAG-System/internal/store/rabbitmq"
	"github.com/Kishor978/RAG-System/internal/vectorstore/qdrant"
)

func listenAddr() string {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		return v
	}
	return ":8080"
}

func buildGenerator(cfg config.Config) rag.Generator {
	reg := ai.NewRegistry()
	reg.Register("gemini", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.GeminiModel
		}
		return ai.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, m), nil
	})
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})

	if cfg.AIProvider == "gemini" && strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		log.Printf("GEMINI_API_KEY not set, falling back to context-only responses")
		return ai.FallbackGenerator{}
	}

	provider, err := reg.Get(context.Background(), cfg.AIProvider, "")
	if err != nil {
		log.Printf("provider %q unavailable (%v), falling back to context-only responses", cfg.AIProvider, err)
		return ai.FallbackGenerator{}
	}
	return ai.NewResponseGenerator(provider)
}

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	mem := memory.NewStore(rdb, cfg.ConversationTTL)
	if err := mem.Ping(context.Background()); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	embedder := embedding.NewClient(embedding.Config{
		BaseURL: cfg.EmbeddingBaseURL,
		APIKey:  cfg.EmbeddingAPIKey,
		Model:   cfg.EmbeddingModel,
	})

	vstore := qdrant.NewStore(qdrant.Config{
		BaseURL:    cfg.QdrantBaseURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.QdrantCollection,
	})
	if err := vstore.EnsureCollection(context.Background(), cfg.EmbeddingDim); err != nil {
		log.Printf("qdrant collection setup failed (search may not work yet): %v", err)
	}

	gen := buildGenerator(cfg)
	ragMgr := rag.NewManager(embedder, vstore, gen, mem, cfg.RetrievalLimit, cfg.HistoryLimit)

	sender := email.NewSender(email.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	})
	bookingMgr := booking.NewManager(gdb, sender)

	docRepo := document.NewRepo(gdb)
	chunkCfg := chunking.Config{
		ChunkSize:  cfg.ChunkSize,
		Overlap:    cfg.ChunkOverlap,
		Separators: chunking.DefaultConfig().Separators,
	}
	proc := document.NewProcessor(docRepo, embedder, vstore, chunkCfg)
	evaluator := evaluation.NewEvaluator(embedder, vstore, chunkCfg)

	rabbit, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbit connect: %v", err)
	}
	defer rabbit.Close()

	h := handlers.NewHandler(gdb, cfg, ragMgr, mem, bookingMgr, proc, docRepo, rabbit, evaluator)
	router := httpapi.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:    listenAddr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
