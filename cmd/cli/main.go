package main

import (
	"log"

	"github.com/ledovskis/taskkeeper/internal/client/cli"
	"github.com/ledovskis/taskkeeper/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run()
}
