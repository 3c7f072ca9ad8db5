package main

import (
	"os"

	"expense-desk/cmd/expensedesk/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
