package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var server srv

func main() {
	app := &cli.App{
		Name:  "quizdrop",
		Usage: "backend of the personality quiz POAP mini app",
		Commands: []*cli.Command{
			{
				Name:   "api",
				Usage:  "start the api server",
				Action: server.startApi,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
