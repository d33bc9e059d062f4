package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("crmctl failed", slog.Any("error", err))
		os.Exit(1)
	}
}
