package main

import (
	"os"

	"github.com/appbeacon/appbeacon/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
