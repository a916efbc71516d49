package main

import (
	"context"
	"flag"
	"log"

	"admiral-radar/server/internal/app"
)

func main() {
	var cfg app.Config
	flag.StringVar(&cfg.Addr, "addr", ":8080", "listen address")
	flag.StringVar(&cfg.ClientDir, "client", "", "directory of static client assets to serve")
	flag.Parse()

	if err := app.Run(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
