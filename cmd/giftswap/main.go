package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/giftswap/internal/buildinfo"
	"github.com/dmitrijs2005/giftswap/internal/client/cli"
	"github.com/dmitrijs2005/giftswap/internal/client/config"
	"github.com/dmitrijs2005/giftswap/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(cfg.SlogLevel(), os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
