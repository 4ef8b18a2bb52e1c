package main

import (
	"github.com/gatherly/server/cmd/server/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine, env vars win either way.
	_ = godotenv.Load()

	cmd.Execute()
}
