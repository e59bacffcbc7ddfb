package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/comnipl/servify/compiler"
	"github.com/comnipl/servify/internal/config"
	"github.com/comnipl/servify/internal/mcp"
	"github.com/comnipl/servify/internal/pkg/logger"
	"github.com/comnipl/servify/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "generate":
		return runGenerate(ctx, rest, stdout, stderr)
	case "plan":
		return runPlan(ctx, rest, stdout, stderr)
	case "validate":
		return runValidate(ctx, rest, stdout, stderr)
	case "hash":
		return runHash(rest, stdout, stderr)
	case "mcp":
		return runMCP(ctx, rest, stderr)
	case "version":
		fmt.Fprintf(stdout, "servify version %s\n", compiler.Version)
		return 0
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "servify %s - generate actor servers and clients from service declarations\n", compiler.Version)
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  servify generate [-config f] [-dry-run] [dir]   Write <service>_servify.go files")
	fmt.Fprintln(w, "  servify plan [-config f] [-o plan.json] [dir]   Print or save the generation plan")
	fmt.Fprintln(w, "  servify validate [-config f] [dir]              Report diagnostics only")
	fmt.Fprintln(w, "  servify hash [dir]                              Print the input hash")
	fmt.Fprintln(w, "  servify mcp [-config f]                         Serve MCP tools on stdio")
	fmt.Fprintln(w, "  servify version")
}

// env is what every command needs: configuration, logging and tracing.
type env struct {
	cfg      *config.Config
	opts     compiler.Options
	shutdown func(context.Context) error
}

func setup(ctx context.Context, fs *flag.FlagSet, args []string, stderr io.Writer) (*env, string, error) {
	configPath := fs.String("config", "", "configuration file (yaml, json, toml or env)")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, "", err
	}
	log := logger.Init(cfg.LogLevel, cfg.LogFormat, stderr)

	tp, shutdown, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    "servify",
		ServiceVersion: compiler.Version,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
	})
	if err != nil {
		return nil, "", fmt.Errorf("telemetry: %w", err)
	}

	opts := compiler.DefaultOptions()
	opts.Names = cfg.NamingPolicy()
	opts.Paths = cfg.PathPolicy()
	opts.Logger = log
	opts.TracerProvider = tp
	return &env{cfg: cfg, opts: opts, shutdown: shutdown}, dir, nil
}

func (e *env) close() {
	ctx := context.Background()
	if err := e.shutdown(ctx); err != nil {
		slog.Warn("flush traces", "error", err)
	}
}

func runMCP(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	e, _, err := setup(ctx, fs, args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer e.close()

	if err := mcp.Run(e.opts); err != nil {
		fmt.Fprintf(stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}
