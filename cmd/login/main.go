// Command login performs a one-shot forced Instagram login and saves the
// session file, so the bot itself never has to go through a fresh login
// (and its challenge prompts) unattended.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"newsreel/internal/config"
	"newsreel/internal/instagram"
	"newsreel/internal/logger"
)

func main() {
	godotenv.Load()
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	auth := &instagram.Auth{
		Username:    cfg.InstagramUsername,
		Password:    cfg.InstagramPassword,
		SessionFile: cfg.SessionFilePath,
	}

	if _, err := auth.Client(true); err != nil {
		logger.Error("login failed", "error", err)
		os.Exit(1)
	}

	logger.Info("logged in and session saved", "path", cfg.SessionFilePath)
}
