package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Kishor978/RAG-System/internal/chunking"
	"github.com/Kishor978/RAG-System/internal/config"
	"github.com/Kishor978/RAG-System/internal/db"
	"github.com/Kishor978/RAG-System/internal/document"
	"github.com/Kishor978/RAG-System/internal/embedding"
	"github.com/Kishor978/RAG-System/internal/vectorstore/qdrant"
)

type jobMsg struct {
	JobID string `json:"job_id"`
}

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDSN)
	repo := document.NewRepo(gdb)

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
		log.Fatalf("qdrant collection setup: %v", err)
	}

	chunkCfg := chunking.Config{
		ChunkSize:  cfg.ChunkSize,
		Overlap:    cfg.ChunkOverlap,
		Separators: chunking.DefaultConfig().Separators,
	}
	proc := document.NewProcessor(repo, embedder, vstore, chunkCfg)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	// Topology is declared by the publisher; declaring the main queue here
	// with different dead-letter args would fail, so only Qos and Consume.
	concurrency := workerConcurrency()

	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var m jobMsg
				if err := json.Unmarshal(d.Body, &m); err != nil || m.JobID == "" {
					log.Printf("worker=%d bad message: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				start := time.Now()
				if err := proc.ProcessJob(ctx, m.JobID); err != nil {
					log.Printf("worker=%d job %s failed cost=%s err=%v", workerID, m.JobID, time.Since(start), err)
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed job=%s err=%v", workerID, m.JobID, err)
				}
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			log.Printf("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}
