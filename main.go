package main

import (
	"os"

	"github.com/pedidoshn/pedidos-app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
