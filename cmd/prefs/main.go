// Package main is the entry point for the prefs command, which inspects
// and edits preferences from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dshills/prefs/internal/config"
	"github.com/dshills/prefs/internal/config/layer"
	"github.com/dshills/prefs/internal/config/loader"
	"github.com/dshills/prefs/internal/config/registry"
	"github.com/dshills/prefs/internal/config/schema"
	"github.com/dshills/prefs/internal/config/store"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	storeSpec string
	defaults  []string
	profile   string
	envPrefix string
	logLevel  string
	verbose   bool
	args      []string
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(argv, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if len(opts.args) == 0 {
		fmt.Fprintln(stderr, "Error: missing command")
		return 2
	}
	if opts.args[0] == "version" {
		fmt.Fprintf(stdout, "prefs %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return 0
	}

	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	st, err := store.Open(opts.storeSpec)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to open store: %v\n", err)
		return 1
	}
	if c, ok := st.(store.Closer); ok {
		defer c.Close()
	}

	cfgOpts := []config.Option{
		config.WithLogger(logger),
		config.WithMigrator(config.DefaultMigrator()),
	}
	for _, path := range opts.defaults {
		cfgOpts = append(cfgOpts, config.WithDefaultsFile(path))
	}
	if opts.envPrefix != "" {
		cfgOpts = append(cfgOpts, config.WithDefaultsSource(
			layer.StandardLayerName(layer.SourceEnv), loader.NewEnvLoader(opts.envPrefix), layer.PriorityEnv))
	}

	cfg := config.New(st, cfgOpts...)
	defer cfg.Close()
	if err := cfg.Load(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: failed to load settings: %v\n", err)
		return 1
	}
	if opts.profile != "" {
		cfg.InstallProfile(filepath.Base(opts.profile), loader.ForPath(opts.profile))
	}

	if err := execute(cfg, opts, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(argv []string, stderr io.Writer) (options, error) {
	var opts options
	var defaults stringList

	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.storeSpec, "store", defaultStoreSpec(), "Persisted store as kind:target (mem, json, sqlite, redis, nats)")
	fs.Var(&defaults, "defaults", "Defaults file (.properties, .toml, .yaml, .lua); repeatable, later files win")
	fs.StringVar(&opts.profile, "profile", "", "Profile file installed above the defaults files")
	fs.StringVar(&opts.envPrefix, "env-prefix", loader.DefaultEnvPrefix, "Environment variable prefix for defaults (empty disables)")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.verbose, "v", false, "Show defaults and their origin in list output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "prefs - inspect and edit typed preferences\n\n")
		fmt.Fprintf(stderr, "Usage: prefs [options] <command> [args]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  get KEY...            Print current values\n")
		fmt.Fprintf(stderr, "  set KEY VALUE         Set and persist a value\n")
		fmt.Fprintf(stderr, "  reset KEY...          Restore defaults and drop overrides\n")
		fmt.Fprintf(stderr, "  reset-all             Restore every setting to its default\n")
		fmt.Fprintf(stderr, "  list [QUERY]          List settings, optionally filtered\n")
		fmt.Fprintf(stderr, "  legacy KIND ID        Resolve a numeric legacy id\n")
		fmt.Fprintf(stderr, "  schema                Print the JSON Schema of persisted keys\n")
		fmt.Fprintf(stderr, "  check FILE...         Validate defaults files\n")
		fmt.Fprintf(stderr, "  version               Show version information\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return opts, err
	}

	// Validate log level
	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
	}

	opts.defaults = defaults
	opts.args = fs.Args()
	return opts, nil
}

func execute(cfg *config.Config, opts options, out io.Writer) error {
	cmd, args := opts.args[0], opts.args[1:]

	switch cmd {
	case "get":
		if len(args) == 0 {
			return errors.New("get: missing key")
		}
		for _, key := range args {
			text, err := cfg.FormatText(key)
			if err != nil {
				return err
			}
			if len(args) > 1 {
				fmt.Fprintf(out, "%s=%s\n", key, text)
			} else {
				fmt.Fprintln(out, text)
			}
		}

	case "set":
		if len(args) != 2 {
			return errors.New("set: want KEY VALUE")
		}
		return cfg.SetText(args[0], args[1])

	case "reset":
		if len(args) == 0 {
			return errors.New("reset: missing key")
		}
		for _, key := range args {
			if err := cfg.SetToDefaultKey(key); err != nil {
				return err
			}
		}

	case "reset-all":
		for _, key := range cfg.Overridden() {
			if err := cfg.SetToDefaultKey(key); err != nil {
				return err
			}
		}

	case "list":
		return list(cfg, args, opts.verbose, out)

	case "legacy":
		if len(args) != 2 {
			return errors.New("legacy: want KIND ID")
		}
		kind, err := registry.ParseKind(args[0])
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("legacy: invalid id %q", args[1])
		}
		d, err := cfg.Registry().ByLegacyID(kind, id)
		if err != nil {
			return err
		}
		text, err := cfg.FormatText(d.Key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s=%s\n", d.Key, text)

	case "schema":
		data, err := cfg.Schema().Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "check":
		if len(args) == 0 {
			return errors.New("check: missing file")
		}
		return check(cfg, args, out)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func list(cfg *config.Config, args []string, verbose bool, out io.Writer) error {
	defs := cfg.Registry().All()
	if len(args) > 0 {
		defs = cfg.Registry().Search(strings.Join(args, " "))
	}

	for _, d := range defs {
		text, err := cfg.FormatText(d.Key)
		if err != nil {
			return err
		}
		if !verbose {
			fmt.Fprintf(out, "%s=%s\n", d.Key, text)
			continue
		}
		def, _ := cfg.DefaultText(d.Key)
		origin, _ := cfg.Origin(d.Key)
		fmt.Fprintf(out, "%-40s %-12s %-28q default=%q from=%s\n", d.Key, d.Kind, text, def, origin)
	}
	return nil
}

// check validates each defaults file against the schema of the registry.
func check(cfg *config.Config, paths []string, out io.Writer) error {
	v := schema.NewValidator(cfg.Schema())
	failed := 0
	for _, path := range paths {
		data, err := loader.ForPath(path).Load()
		if err == nil {
			err = v.Validate(data)
		}
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "%s: ok\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("check: %d of %d files invalid", failed, len(paths))
	}
	return nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// defaultStoreSpec returns a JSON store under the user config directory.
func defaultStoreSpec() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return "json:" + filepath.Join(xdg, "prefs", "prefs.json")
	}
	home, _ := os.UserHomeDir()
	return "json:" + filepath.Join(home, ".config", "prefs", "prefs.json")
}
