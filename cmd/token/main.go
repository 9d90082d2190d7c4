package main

import (
	"fmt"
	"os"
	"time"

	"expvote/internal/service/auth"
	"expvote/pkg/logger"

	"github.com/joho/godotenv"
)

const defaultTTL = time.Hour

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: token <subject> [ttl]")
		os.Exit(1)
	}

	ttl := defaultTTL
	if len(os.Args) > 2 {
		parsed, err := time.ParseDuration(os.Args[2])
		if err != nil || parsed <= 0 {
			fmt.Printf("Invalid ttl %q\n", os.Args[2])
			os.Exit(1)
		}
		ttl = parsed
	}

	tokens, err := auth.NewTokenService(os.Getenv("AUTH_JWT_SECRET"), logger.NewNop())
	if err != nil {
		fmt.Printf("Failed to create token service: %v\n", err)
		os.Exit(1)
	}

	token, err := tokens.Issue(os.Args[1], ttl)
	if err != nil {
		fmt.Printf("Failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
