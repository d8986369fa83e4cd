package main

import (
	"log"

	"github.com/MrSnakeDoc/resnav/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ resnav failed to start: %v", err)
	}
}
