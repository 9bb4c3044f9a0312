package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-featuregate"
	"github.com/joho/godotenv"
)

var moduleBuilder = func(cfg featuregate.Config) (*featuregate.Module, error) {
	return featuregate.New(cfg)
}

var lookupEnv featuregate.LookupFunc = os.LookupEnv

var errUsage = errors.New("usage: featuregate <check|status|presets> [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("featuregate: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "check":
		return runCheck(args[1:], out)
	case "status":
		return runStatus(args[1:], out)
	case "presets":
		return runPresets(out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

type configFlags struct {
	preset  string
	config  string
	envFile string
	env     string
}

func (f *configFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.preset, "preset", "", "Named preset to start from (see `featuregate presets`)")
	fs.StringVar(&f.config, "config", "", "YAML, JSON or TOML registry file applied on top of the environment")
	fs.StringVar(&f.envFile, "env-file", "", "Comma separated .env files read before the process environment")
	fs.StringVar(&f.env, "env", "", "Override the runtime environment (development, production, test)")
}

func (f configFlags) build() (featuregate.Config, error) {
	lookup := lookupEnv
	if files := splitList(f.envFile); len(files) > 0 {
		values, err := godotenv.Read(files...)
		if err != nil {
			return featuregate.Config{}, fmt.Errorf("read env file: %w", err)
		}
		// Process environment wins, matching godotenv.Load.
		lookup = func(key string) (string, bool) {
			if v, ok := lookupEnv(key); ok {
				return v, true
			}
			v, ok := values[key]
			return v, ok
		}
	}

	var (
		cfg featuregate.Config
		err error
	)
	if f.preset != "" {
		cfg, err = featuregate.Preset(f.preset, lookup)
	} else {
		cfg, err = featuregate.ConfigFromEnv(featuregate.DefaultConfig(), lookup)
	}
	if err != nil {
		return featuregate.Config{}, err
	}

	if f.config != "" {
		if cfg, err = featuregate.LoadConfigFile(f.config, cfg); err != nil {
			return featuregate.Config{}, err
		}
	}
	if env := strings.TrimSpace(f.env); env != "" {
		cfg.Environment = strings.ToLower(env)
	}
	return cfg, nil
}

func newModule(name string, args []string, extra func(*flag.FlagSet)) (*featuregate.Module, error) {
	fs := flag.NewFlagSet("featuregate "+name, flag.ContinueOnError)
	var flags configFlags
	flags.register(fs)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := flags.build()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	module, err := moduleBuilder(cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}

func runCheck(args []string, out io.Writer) error {
	module, err := newModule("check", args, nil)
	if err != nil {
		return err
	}
	defer module.Close()

	initErr := module.Initialize(context.Background())

	result := module.Gate().Validate()
	if result.Valid {
		fmt.Fprintln(out, "configuration valid")
	} else {
		fmt.Fprintf(out, "configuration invalid (%d)\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", msg)
		}
	}
	return initErr
}

func runStatus(args []string, out io.Writer) error {
	var asHTML bool
	module, err := newModule("status", args, func(fs *flag.FlagSet) {
		fs.BoolVar(&asHTML, "html", false, "Render the report as HTML instead of markdown")
	})
	if err != nil {
		return err
	}
	defer module.Close()

	ctx := context.Background()
	initErr := module.Initialize(ctx)

	rep, err := module.Report(ctx)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	if asHTML {
		page, err := rep.HTML()
		if err != nil {
			return err
		}
		if _, err := out.Write(page); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, rep.Markdown())
	}
	return initErr
}

func runPresets(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range featuregate.PresetNames() {
		fmt.Fprintf(tw, "%s\t%s\n", name, featuregate.PresetDescription(name))
	}
	return tw.Flush()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
