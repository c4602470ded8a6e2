package main

import (
	"log"

	"quizdeck-server/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
