package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcorbin/fobj/internal/fileinput"
	"github.com/jcorbin/fobj/internal/logio"
	"github.com/jcorbin/fobj/internal/panicerr"
)

func main() {
	os.Exit(runMain(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type mainFlags struct {
	config  string
	timeout time.Duration
	cfg     Config
}

func runMain(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr *os.File) int {
	var log *logio.Logger
	flags := mainFlags{cfg: DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "fobj [files...]",
		Short: "Interpret fobj statements from files, then standard input",
		Args:  cobra.ArbitraryArgs,

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				log = logio.NewLogger(stderr, false)
				return err
			}
			log = logio.NewLogger(stderr, cfg.Colorize(stderr))
			return run(cmd.Context(), cfg, flags.timeout, log, args, stdin, stdout)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.config, "config", "", "TOML config file")
	fs.DurationVar(&flags.timeout, "timeout", 0, "specify a time limit")
	fs.IntVar(&flags.cfg.Capacity, "capacity", flags.cfg.Capacity, "object pool capacity")
	fs.BoolVar(&flags.cfg.StrictGC, "strict-gc", false, "collect before every allocation")
	fs.IntVar(&flags.cfg.ArrayLimit, "array-limit", flags.cfg.ArrayLimit, "maximum array length")
	fs.IntVar(&flags.cfg.MaxDepth, "max-depth", flags.cfg.MaxDepth, "maximum nested word calls")
	fs.BoolVar(&flags.cfg.Trace, "trace", false, "enable trace logging")
	fs.StringVar(&flags.cfg.Color, "color", flags.cfg.Color, "color error output: auto, always, or never")

	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if log == nil {
			log = logio.NewLogger(stderr, false)
		}
		log.Errorf("%v", err)
		if stack := panicerr.PanicStack(err); stack != "" {
			log.Printf("TRACE", "%s", stack)
		}
	}
	return log.ExitCode()
}

// resolve loads any config file, then lets explicitly set flags override it.
func (flags mainFlags) resolve(cmd *cobra.Command) (Config, error) {
	if flags.config == "" {
		return flags.cfg, flags.cfg.Validate()
	}
	cfg, err := LoadConfig(flags.config)
	if err != nil {
		return cfg, err
	}
	fs := cmd.Flags()
	for name, set := range map[string]func(){
		"capacity":    func() { cfg.Capacity = flags.cfg.Capacity },
		"strict-gc":   func() { cfg.StrictGC = flags.cfg.StrictGC },
		"array-limit": func() { cfg.ArrayLimit = flags.cfg.ArrayLimit },
		"max-depth":   func() { cfg.MaxDepth = flags.cfg.MaxDepth },
		"trace":       func() { cfg.Trace = flags.cfg.Trace },
		"color":       func() { cfg.Color = flags.cfg.Color },
	} {
		if fs.Changed(name) {
			set()
		}
	}
	return cfg, cfg.Validate()
}

func run(
	ctx context.Context,
	cfg Config, timeout time.Duration,
	log *logio.Logger,
	files []string,
	stdin io.Reader, stdout io.Writer,
) error {
	opts := []ShellOption{
		cfg.Options(),
		WithOutput(stdout),
		WithErrorLog(log.Errorf),
	}
	if cfg.Trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	var in fileinput.Input
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			in.Close()
			return err
		}
		in.Queue = append(in.Queue, f)
	}
	in.Queue = append(in.Queue, fileinput.Named("<stdin>", stdin))
	for _, r := range in.Queue {
		opts = append(opts, WithInput(r))
	}

	sh, err := New(opts...)
	if err != nil {
		in.Close()
		return err
	}
	defer sh.Close()
	if cfg.Trace {
		defer func() {
			lw := &logio.Writer{Prefix: "dump ", Logf: log.Leveledf("TRACE")}
			defer lw.Close()
			log.ErrorIf(sh.Dump(lw))
		}()
	}

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return sh.Run(ctx)
}
