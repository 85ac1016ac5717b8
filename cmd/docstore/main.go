// Command docstore manages JSON document collections from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vinicius-lino-figueiredo/docstore/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	code := cli.RunContext(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args, env)
	stop()
	os.Exit(code)
}
