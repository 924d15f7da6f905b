package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/dmitrijs2005/expensetracker/internal/server"
	"github.com/dmitrijs2005/expensetracker/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
