package main

import (
	"os"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/adapters/cli"
)

func main() {
	os.Exit(cli.Execute())
}
