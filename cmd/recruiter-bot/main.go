package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/Be3yH4uK315/it-recruiter-bot-service/core/cmd"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/app"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*app.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return app.New(cfg)
		},
	})
	if err != nil {
		log.Fatalf("recruiter-bot: %v", err)
	}
}
