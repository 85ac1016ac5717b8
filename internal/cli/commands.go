package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	flag "github.com/spf13/pflag"
	"github.com/vinicius-lino-figueiredo/docstore"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
)

func (a *app) commands() []*Command {
	return []*Command{
		a.cmdCollections(),
		a.cmdList(),
		a.cmdGet(),
		a.cmdCreate(),
		a.cmdUpdate(),
		a.cmdDelete(),
		a.cmdDrop(),
		a.cmdShell(),
		a.cmdPrintConfig(),
	}
}

// decodeJSON parses a single JSON value, keeping numbers exact.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", errUsage, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON", errUsage)
	}
	return v, nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInvalidID{Value: s}, err)
	}
	return id, nil
}

func (a *app) cmdCollections() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("collections", flag.ContinueOnError),
		Usage: "collections",
		Short: "List stored collections",
	}
	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		if len(args) != 0 {
			return usageError(c)
		}
		store, err := a.open(ctx, o)
		if err != nil {
			return err
		}
		names, err := store.Collections(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			o.Println(name)
		}
		return nil
	}
	return c
}

func (a *app) cmdList() *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	filterJSON := fs.StringP("filter", "f", "", "filter expression as JSON")
	sortJSON := fs.StringP("sort", "s", "", "sort directive as JSON")
	request := fs.StringP("request", "r", "", `request body {"filter": ..., "sort": ...} as JSON`)
	limit := fs.StringP("limit", "l", "", "maximum number of documents (default 20)")
	offset := fs.StringP("offset", "o", "", "number of documents to skip (default 0)")

	c := &Command{
		Flags: fs,
		Usage: "list <collection> [flags]",
		Short: "List documents matching a filter",
	}
	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		if len(args) != 1 {
			return usageError(c)
		}
		body, err := requestBody(*request, *filterJSON, *sortJSON)
		if err != nil {
			return err
		}
		req, err := docstore.ParseRequest(body, *limit, *offset)
		if err != nil {
			return err
		}
		store, err := a.open(ctx, o)
		if err != nil {
			return err
		}
		docs, err := store.List(ctx, args[0], req.Query)
		if err != nil {
			return err
		}
		return o.JSON(docs)
	}
	return c
}

// requestBody merges the --filter and --sort flags into a request body.
func requestBody(request, filterJSON, sortJSON string) ([]byte, error) {
	if request != "" {
		if filterJSON != "" || sortJSON != "" {
			return nil, fmt.Errorf("%w: --request cannot be combined with --filter or --sort", errUsage)
		}
		return []byte(request), nil
	}
	env := map[string]json.RawMessage{}
	if filterJSON != "" {
		env["filter"] = json.RawMessage(filterJSON)
	}
	if sortJSON != "" {
		env["sort"] = json.RawMessage(sortJSON)
	}
	if len(env) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", errUsage, err)
	}
	return b, nil
}

func (a *app) cmdGet() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("get", flag.ContinueOnError),
		Usage: "get <collection> <id>",
		Short: "Show a document, or {} if there is none",
	}
	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		if len(args) != 2 {
			return usageError(c)
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		store, err := a.open(ctx, o)
		if err != nil {
			return err
		}
		doc, err := store.Get(ctx, args[0], id)
		if err != nil {
			return err
		}
		return o.JSON(doc)
	}
	return c
}

func (a *app) cmdCreate() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("create", flag.ContinueOnError),
		Usage: "create <collection> <document>",
		Short: "Store a JSON object, assigning an id if it has none",
	}
	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		if len(args) != 2 {
			return usageError(c)
		}
		doc, err := decodeJSON(args[1])
		if err != nil {
			return err
		}
		store, err := a.open(ctx, o)
		if err != nil {
			return err
		}
		created, err := store.Create(ctx, args[0], doc)
		if err != nil {
			return err
		}
		return o.JSON(created)
	}
	return c
}

func (a *app) cmdUpdate() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("update", flag.ContinueOnError),
		Usage: "update <collection> <id> <payload>",
		Short: `Set one field, given as {"field": value}`,
	}
	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		if len(args) != 3 {
			return usageError(c)
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		payload, err := decodeJSON(args[2])
		if err != nil {
			return err
		}
		store, err := a.open(ctx, o)
		if err != nil {
			return err
		}
		doc, err := store.UpdateWith(ctx, args[0], id, payload)
		if err != nil {
			return err
		}
		return o.JSON(doc)
	}
	return c
}

func (a *app) cmdDelete() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("delete", flag.ContinueOnError),
		Usage: "delete <collection> <id>",
		Short: "Delete the documents with the given id",
	}
	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		if len(args) != 2 {
			return usageError(c)
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		store, err := a.open(ctx, o)
		if err != nil {
			return err
		}
		return store.Delete(ctx, args[0], id)
	}
	return c
}

func (a *app) cmdDrop() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("drop", flag.ContinueOnError),
		Usage: "drop <collection>",
		Short: "Remove a whole collection",
	}
	c.Exec = func(ctx context.Context, o *IO, args []string) error {
		if len(args) != 1 {
			return usageError(c)
		}
		store, err := a.open(ctx, o)
		if err != nil {
			return err
		}
		return store.Drop(ctx, args[0])
	}
	return c
}

func (a *app) cmdPrintConfig() *Command {
	c := &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show the resolved configuration",
	}
	c.Exec = func(_ context.Context, o *IO, args []string) error {
		if len(args) != 0 {
			return usageError(c)
		}
		cfg := a.cfg
		if cfg.SecretKey != "" {
			cfg.SecretKey = "********"
		}
		if err := o.JSON(cfg); err != nil {
			return err
		}
		if cfg.Sources.Global != "" {
			o.ErrPrintln("global config:", cfg.Sources.Global)
		}
		if cfg.Sources.Project != "" {
			o.ErrPrintln("project config:", cfg.Sources.Project)
		}
		return nil
	}
	return c
}
