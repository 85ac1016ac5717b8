//go:build ignore

// Writes a large collection so the caller can kill the process mid-write.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/vinicius-lino-figueiredo/docstore/adapter/storage"
)

func main() {
	total := 50000

	var buf bytes.Buffer
	for range total {
		fmt.Fprintf(&buf, "somedata_%s\n", os.Args[1])
	}

	strg := storage.NewStorage(storage.WithDir(os.Args[2]))
	if err := strg.Write(context.Background(), os.Args[3], buf.Bytes()); err != nil {
		log.Fatal(err)
	}
}
