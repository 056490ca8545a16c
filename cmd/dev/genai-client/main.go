package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/pkg/genai"
)

const (
	uri   = "http://localhost:11434"
	model = "llama3"
)

// quick manual check of the model wiring: sends one prompt and prints the reply
func main() {
	prompt := flag.String("prompt", "List three interview questions for a Go developer", "prompt to send")
	flag.Parse()

	client, err := genai.NewDefaultClient(config.GenAIConfig{
		BaseURL: uri,
		Model:   model,
		Timeout: 60 * time.Second,
		Retries: 1,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	out, err := client.Generate(context.Background(), *prompt)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
}
