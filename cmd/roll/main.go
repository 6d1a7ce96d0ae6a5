// Command roll vendors a snapshot of a remote git repository into the
// current repository.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/roll/internal/config"
	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
	"git.home.luguber.info/inful/roll/internal/git"
	"git.home.luguber.info/inful/roll/internal/logfields"
	"git.home.luguber.info/inful/roll/internal/metrics"
	"git.home.luguber.info/inful/roll/internal/roll"
	"git.home.luguber.info/inful/roll/internal/source"
	"git.home.luguber.info/inful/roll/internal/version"
)

// CLI is the complete command line of roll.
type CLI struct {
	URL      string   `arg:"" help:"URL of the repository to vendor."`
	Path     string   `help:"Snapshot directory (default: <vendor_root>/<host>/<path>)."`
	Incl     []string `help:"Subdirectory to keep; repeatable. Everything else is removed." sep:"none"`
	Excl     []string `help:"Subdirectory to remove after includes are applied; repeatable." sep:"none"`
	Revision string   `name:"version" help:"Revision to vendor: commit, tag or branch." default:"HEAD"`

	Config      string           `short:"c" help:"Configuration file path." default:".roll.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging."`
	MetricsFile string           `name:"metrics-file" help:"Write run metrics in Prometheus text format to this file."`
	Fetcher     string           `help:"Fetcher implementation (go-git or exec); overrides the config file."`
	ShowVersion kong.VersionFlag `name:"roll-version" help:"Show roll's own version and exit."`

	stderr io.Writer
}

// AfterApply runs after flag parsing; setup logging once. The log format from
// the config file is applied later, once the file has been read.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.NewLogger(c.stderr, config.LogFormatText, c.Verbose))
	return nil
}

func (c *CLI) request() source.Request {
	req := source.Request{
		URL:      c.URL,
		Revision: c.Revision,
		Path:     c.Path,
		Exclude:  c.Excl,
	}
	if len(c.Incl) > 0 {
		req.Include = c.Incl
	}
	return req
}

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Fetcher != "" {
		kind, err := config.ParseFetcher(c.Fetcher)
		if err != nil {
			return nil, rollerrors.InvalidArgument("invalid --fetcher").WithCause(err).Build()
		}
		cfg.Fetcher = kind
	}
	return cfg, nil
}

// Run performs one snapshot and logs its summary.
func (c *CLI) Run(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.LogFormat == config.LogFormatJSON {
		slog.SetDefault(config.NewLogger(c.stderr, cfg.LogFormat, c.Verbose))
	}

	var progress io.Writer
	if c.Verbose {
		progress = c.stderr
	}
	fetcher, err := git.New(cfg, progress)
	if err != nil {
		return err
	}

	var rec *metrics.PrometheusRecorder
	opts := []roll.Option{roll.WithLogger(slog.Default())}
	if c.MetricsFile != "" {
		rec = metrics.NewPrometheusRecorder(prom.NewRegistry())
		opts = append(opts, roll.WithRecorder(rec))
	}

	report, err := roll.NewRunner(cfg, fetcher, opts...).Run(ctx, c.request()).ToTuple()
	if rec != nil {
		if werr := rec.WriteTextfile(c.MetricsFile); werr != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(c.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	slog.Info(report.Summary(),
		logfields.RunID(report.RunID),
		logfields.Revision(report.Revision),
		logfields.Path(report.Target),
		logfields.Count(report.Removed))
	return nil
}

// run parses args and executes the command. Failures are reported by the
// error adapter, which calls exit with the matching status.
func run(ctx context.Context, args []string, stderr io.Writer, exit func(int)) {
	cli := &CLI{stderr: stderr}
	parser, err := kong.New(cli,
		kong.Name("roll"),
		kong.Description("Vendor a pinned, pruned snapshot of a git repository."),
		kong.UsageOnError(),
		kong.Writers(stderr, stderr),
		kong.Exit(exit),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		rollerrors.NewCLIErrorAdapter(false, nil).WithOutput(stderr, exit).
			HandleError(rollerrors.InternalError("failed to build command line parser").WithCause(err).Build())
		return
	}

	if _, err := parser.Parse(args); err != nil {
		rollerrors.NewCLIErrorAdapter(false, nil).WithOutput(stderr, exit).
			HandleError(rollerrors.InvalidArgument(err.Error()).Build())
		return
	}

	if err := cli.Run(ctx); err != nil {
		rollerrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).WithOutput(stderr, exit).HandleError(err)
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	run(ctx, os.Args[1:], os.Stderr, func(code int) {
		cancel()
		os.Exit(code)
	})
	cancel()
}
