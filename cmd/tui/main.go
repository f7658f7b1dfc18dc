package main

import (
	"log"

	"github.com/giovassz/inventario/internal/tui"
)

func main() {
	if err := tui.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
