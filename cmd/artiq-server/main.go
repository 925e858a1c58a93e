package main

import (
	"log"
	"os"

	"github.com/Jmaes1212/artiq-front-end/configs"
	"github.com/Jmaes1212/artiq-front-end/internal/bootstrap"
)

func main() {
	env := os.Getenv("APP_ENV") // dev | staging | prod
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	app, cleanup, err := bootstrap.InitWithConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	log.Printf("%s (%s) starting on port %d", cfg.App.Name, env, cfg.App.Port)
	if err := app.Serve(); err != nil {
		log.Fatal(err)
	}
}
