package main

import (
	"context"

	"restockwatch/cmd/restockwatch/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
