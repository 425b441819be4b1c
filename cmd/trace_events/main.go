package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-docchat-be/pkg/events"
	pktNats "ai-docchat-be/pkg/nats"

	"github.com/joho/godotenv"
)

// Tails the document event stream. Useful when debugging why a websocket
// listener never saw its DOCUMENT_INDEXED event.
func main() {
	// 1. Load Environment
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	// 2. Connect Subscriber
	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatal("Error: Failed to connect to NATS:", err)
	}
	defer sub.Close()

	log.Printf("🔍 Tailing events.> on %s (Ctrl+C to stop)", natsURL)

	// 3. Durable tail: restarting the tool resumes where it left off
	err = sub.Subscribe("events.>", "trace-events-tail", func(ctx context.Context, event events.Event) error {
		pretty, err := json.MarshalIndent(event.Payload(), "", "  ")
		if err != nil {
			log.Printf("[%s] %v", event.EventType(), event.Payload())
			return nil
		}
		log.Printf("[%s]\n%s", event.EventType(), pretty)
		return nil
	})
	if err != nil {
		log.Fatal("Error: Subscribe failed:", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Bye.")
}
