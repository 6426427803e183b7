package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/7283111011/FLK2/internal/userclient"
)

func main() {
	server := pflag.String("server", "http://127.0.0.1:8080", "quiz service base URL")
	timeout := pflag.Duration("timeout", 5*time.Second, "HTTP timeout")
	explicitConfirm := pflag.Bool("explicit-confirm", true, "require confirming an answer before advancing")
	trivia := pflag.Int("trivia-amount", 10, "questions to import for the trivia command")
	pflag.Parse()

	err := userclient.Run(context.Background(), os.Stdin, os.Stdout, userclient.Config{
		ServerURL:       *server,
		HTTPTimeout:     *timeout,
		ExplicitConfirm: *explicitConfirm,
		TriviaAmount:    *trivia,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
