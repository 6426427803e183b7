package main

import (
	"context"
	"os"

	"github.com/7283111011/FLK2/internal/cli"
)

func main() {
	os.Exit(cli.RunImport(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
