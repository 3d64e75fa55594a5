package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"lendflow/cmd/seed/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
