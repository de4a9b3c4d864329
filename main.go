package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sadopc/togglreport/internal/cli"
)

func main() {
	if err := cli.NewCLI(cli.Options{}).Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
