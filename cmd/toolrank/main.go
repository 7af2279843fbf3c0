package main

import (
	"os"

	"toolfinder-backend/internal/toolrank"
)

func main() {
	if err := toolrank.Execute(); err != nil {
		os.Exit(1)
	}
}
