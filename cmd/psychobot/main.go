package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/emotipal/psychobot/core/cmd"
	"github.com/emotipal/psychobot/internal/bot"
)

func main() {
	// .env is optional; real deployments inject environment directly.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg, ok := carrier.(*bot.Config)
			if !ok {
				return nil, fmt.Errorf("main: unexpected config type %T", carrier)
			}
			return bot.NewApp(cfg)
		},
	})
	if err != nil {
		log.Fatalf("psychobot: %v", err)
	}
}
