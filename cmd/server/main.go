package main

import (
	"context"
	"flag"
	"log"
	"os"

	"carnet/internal/app"
	"carnet/internal/config"
)

// @title                       Carnet API
// @version                     1.0
// @description                 Note-taking backend with email verification and token auth.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = config.DefaultPath
	}
	configPath := flag.String("config", defaultPath, "path to the YAML config file")
	flag.Parse()

	if err := app.Run(context.Background(), *configPath); err != nil {
		log.Fatalf("server: %v", err)
	}
}
