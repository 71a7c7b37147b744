package main

import (
	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/app"
)

func main() {
	// create and initialize the app
	app, err := app.NewApp(config.CONFIG_PATH)
	if err != nil {
		panic(err)
	}

	// serve until interrupted
	if err := app.Run(); err != nil {
		panic(err)
	}
}
