package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; absence is fine.
	godotenv.Load()

	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
