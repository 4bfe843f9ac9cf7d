package main

import (
	"context"
	"log"

	"github.com/Apurer/go-gin-dog-registry/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("dog registry api: %v", err)
	}
}
