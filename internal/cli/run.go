// Package cli implements the docstore command line front end.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/vinicius-lino-figueiredo/docstore"
	"github.com/vinicius-lino-figueiredo/docstore/domain"
	"github.com/vinicius-lino-figueiredo/docstore/internal/config"
)

const (
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("invalid usage")

// Run is the main entry point. Returns the exit code.
func Run(stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string) int {
	return RunContext(context.Background(), stdin, out, errOut, args, env)
}

// RunContext is like Run, stopping waiting operations when ctx is done.
func RunContext(ctx context.Context, stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string) int {
	o := NewIO(out, errOut)

	flags, fs := globalFlagSet()
	if len(args) > 0 {
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(o, fs)
			return 0
		}
		o.ErrPrintln("error:", err)
		return exitUsage
	}
	o.compact = flags.compact

	rest := fs.Args()
	if flags.help || len(rest) == 0 {
		printUsage(o, fs)
		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDir:    flags.workDir,
		ConfigPath: flags.configPath,
		Overrides:  flags.overrides,
		Env:        env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)
		return exitUsage
	}

	a := &app{cfg: cfg, stdin: stdin, env: env}
	defer func() {
		if err := a.close(); err != nil {
			o.ErrPrintln("error:", err)
		}
	}()

	return a.dispatch(ctx, o, rest, true)
}

type globalFlags struct {
	workDir    string
	configPath string
	overrides  config.Config
	compact    bool
	help       bool
}

func globalFlagSet() (*globalFlags, *flag.FlagSet) {
	var g globalFlags
	fs := flag.NewFlagSet("docstore", flag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(&strings.Builder{})

	fs.StringVarP(&g.workDir, "cwd", "C", "", "run as if started in `dir`")
	fs.StringVarP(&g.configPath, "config", "c", "", "read settings from `file` instead of "+config.FileName)
	fs.StringVar(&g.overrides.Backend, "backend", "", "storage backend: file, memory, sqlite, s3, minio or dynamodb")
	fs.StringVar(&g.overrides.Dir, "dir", "", "collection directory of the file backend")
	fs.StringVar(&g.overrides.SQLitePath, "sqlite-path", "", "database file of the sqlite backend")
	fs.StringVar(&g.overrides.Bucket, "bucket", "", "bucket of the s3 and minio backends")
	fs.StringVar(&g.overrides.Prefix, "prefix", "", "key prefix of the s3 and minio backends")
	fs.StringVar(&g.overrides.Table, "table", "", "table of the dynamodb backend")
	fs.StringVar(&g.overrides.Region, "region", "", "AWS region")
	fs.StringVar(&g.overrides.Endpoint, "endpoint", "", "service endpoint")
	fs.StringVar(&g.overrides.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&g.overrides.LogFormat, "log-format", "", "text or json")
	fs.BoolVar(&g.compact, "compact", false, "print JSON on a single line")
	fs.BoolVarP(&g.help, "help", "h", false, "show help")
	return &g, fs
}

func printUsage(o *IO, fs *flag.FlagSet) {
	o.Println("docstore - JSON document collections")
	o.Println()
	o.Println("Usage: docstore [flags] <command> [args]")
	o.Println()
	o.Println("Commands:")
	for _, c := range (&app{}).commands() {
		o.Println(c.HelpLine())
	}
	o.Println()
	o.Println("Flags:")
	var buf strings.Builder
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	o.Printf("%s", buf.String())
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) || errors.Is(err, domain.ErrClientInput) {
		return exitUsage
	}
	return exitError
}

// app holds the state shared by the commands of one invocation.
type app struct {
	cfg    config.Config
	stdin  io.Reader
	env    map[string]string
	store  docstore.Store
	closer func() error
}

// open builds the store on first use.
func (a *app) open(ctx context.Context, o *IO) (docstore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	logger, err := newLogger(a.cfg, o.errOut)
	if err != nil {
		return nil, err
	}
	st, closer, err := openStorage(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	store, err := docstore.NewStore(docstore.WithStorage(st), docstore.WithLogger(logger))
	if err != nil {
		return nil, errors.Join(err, closer())
	}
	a.store, a.closer = store, closer
	return store, nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.store, a.closer = nil, nil
	return err
}

// dispatch runs the command named by args[0].
func (a *app) dispatch(ctx context.Context, o *IO, args []string, allowShell bool) int {
	name := args[0]
	for _, c := range a.commands() {
		if c.Name() != name {
			continue
		}
		if c.Name() == "shell" && !allowShell {
			o.ErrPrintln("error: already in a shell")
			return exitUsage
		}
		return c.Run(ctx, o, args[1:])
	}
	o.ErrPrintln("error: unknown command:", name)
	return exitUsage
}

func usageError(c *Command) error {
	return fmt.Errorf("%w: docstore %s", errUsage, c.Usage)
}
