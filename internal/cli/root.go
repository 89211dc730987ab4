package cli

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/brimblehq/licenses/internal/config"
	"github.com/brimblehq/licenses/internal/license"
	"github.com/brimblehq/licenses/internal/logging"
	"github.com/brimblehq/licenses/internal/manager"
	"github.com/brimblehq/licenses/internal/notification"
	"github.com/brimblehq/licenses/internal/store"
	"github.com/brimblehq/licenses/internal/types"
	"github.com/brimblehq/licenses/internal/ui"
)

// deps are the pieces tests swap out.
type deps struct {
	now        func() time.Time
	notifier   notification.Notifier
	isTerminal func() bool
	confirm    func(label string) (bool, error)
}

type app struct {
	deps

	overrides config.Overrides
	cfg       *types.Config
	logger    *zap.Logger
	validator *license.Validator
	store     *store.KeyStore
	session   *manager.Session
}

// reportedError has already been shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func Execute() {
	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		os.Exit(1)
	}()

	rootCmd := newRootCmd(deps{
		now:      time.Now,
		notifier: notification.New(),
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		confirm: ui.Confirm,
	})

	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(d deps) *cobra.Command {
	a := &app{deps: d}

	rootCmd := &cobra.Command{
		Use:   "licenses",
		Short: "View and add Brimble license keys",
		Long: `A CLI tool to view the license keys stored on this machine,
see which one is active and add new ones.`,
		Args:              cobra.NoArgs,
		RunE:              a.runList,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == cmd.Root() {
			ui.PrintBanner(cmd.OutOrStdout(), true)
		}
		defaultHelp(cmd, args)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.overrides.DataDir, "data-dir", "", "Directory holding the license file (default: user config dir)")
	flags.StringSliceVar(&a.overrides.Products, "products", nil, "Product names a license must mention")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newListCmd(a),
		newStatusCmd(a),
		newAddCmd(a),
		newIssueCmd(a),
		newPathCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" {
		return nil
	}

	cfg, err := config.Load(a.overrides)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.validator = license.NewValidator(cfg.Products...)

	a.store = store.NewKeyStore(cfg.KeyFilePath(), a.validator, logger)
	a.store.SetHeader(cfg.Header)

	resolver := manager.NewResolver(a.store, a.validator, logger)
	a.session = manager.NewSession(a.store, resolver, a.now, logger)

	logger.Debug("configuration loaded",
		zap.String("key_file", cfg.KeyFilePath()),
		zap.Strings("products", a.validator.Products()),
	)

	return nil
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	return a.showLicenses(cmd.OutOrStdout())
}

func (a *app) showLicenses(w io.Writer) error {
	entries, err := a.session.Entries()
	if err != nil {
		return err
	}

	ui.RenderView(w, ui.BuildView(a.store.Path(), entries))
	return nil
}
