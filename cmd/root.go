package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/redkv/internal/config"
	"github.com/oakwood-commons/redkv/internal/store"
	"github.com/oakwood-commons/redkv/internal/ui"
	"github.com/oakwood-commons/redkv/pkg/logger"
	"github.com/oakwood-commons/redkv/pkg/settings"
)

const longHelp = `redkv browses the keys of a Redis database in the terminal.

The left pane lists the keys, the right pane shows the type, TTL and value of
the selected key. Type to filter the list, press Enter to load a value.

Configuration is read from $XDG_CONFIG_HOME/redkv/config.yaml (or .toml);
flags set on the command line win over the file.`

// NewRootCmd builds the redkv command tree.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:     settings.CliBinaryName + " [flags]",
		Short:   "Browse the keys of a Redis database",
		Long:    longHelp,
		Example: "  redkv\n  redkv --port 6380 -d 2 --match 'session:*'\n  redkv -u rediss://user@cache.internal:6380/0 --ask-password\n  redkv --keymap emacs --search user",
		Args: func(cmd *cobra.Command, args []string) error {
			return usageError(cobra.NoArgs(cmd, args))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       versionString(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, f)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	f.bind(root.Flags())

	root.AddCommand(newVersionCmd(), newConfigCmd())
	return root
}

// Execute runs the command line. Interrupts cancel the session context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func runRoot(cmd *cobra.Command, f *rootFlags) error {
	cfg, err := loadConfig(cmd.Flags(), f)
	if err != nil {
		return usageError(err)
	}
	keys, err := ui.ParseKeys(f.keys)
	if err != nil {
		return usageError(fmt.Errorf("--keys: %w", err))
	}
	if f.askPassword {
		pw, err := readPassword(os.Stdin, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		cfg.Connection.Password = pw
	}

	var level int8
	if cfg.Logging.Debug {
		level = -1
	}
	lgr, err := logger.Init(logger.Options{Level: level, Path: cfg.Logging.File})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	storeOpts, err := cfg.Connection.StoreOptions()
	if err != nil {
		return usageError(err)
	}
	rs, err := store.NewRedis(storeOpts)
	if err != nil {
		return usageError(fmt.Errorf("%w: %v", config.ErrInvalid, err))
	}
	defer rs.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	run := settings.NewCliParams()
	run.MinLogLevel = level
	run.LogFile = cfg.Logging.File
	run.NoColor = cfg.UI.NoColor
	if cfg.UI.KeyMap != "" {
		run.KeyMap = cfg.UI.KeyMap
	}
	run.Addr, run.DB = rs.Addr(), rs.DB()
	ctx = settings.IntoContext(ctx, run)

	if err := connect(ctx, rs, storeOpts); err != nil {
		lgr.Error(err, "connection failed", logger.AddrKey, rs.Addr())
		return err
	}
	lgr.Info("connected", logger.AddrKey, rs.Addr(), logger.DBKey, rs.DB())

	opts := uiOptions(ctx, cfg, f, rs)
	if f.snapshot {
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSnapshot(ctx, opts, ui.SnapshotConfig{
			Width:  f.width,
			Height: f.height,
			Keys:   keys,
		}))
		return nil
	}
	return ui.Run(ctx, opts, ui.RunConfig{Width: f.width, Height: f.height, Keys: keys})
}

// connect pings the server once before any UI is drawn.
func connect(ctx context.Context, rs *store.Redis, opts store.Options) error {
	pingCtx, cancel := ctx, context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		pingCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		return fmt.Errorf("cannot connect to %s: %w", rs.Addr(), err)
	}
	return nil
}

// uiOptions builds the UI options for st. The session settings stored in
// ctx by runRoot win over cfg for the address, keymap and color.
func uiOptions(ctx context.Context, cfg config.Config, f *rootFlags, st store.Store) ui.Options {
	timeout, _ := cfg.Connection.TimeoutDuration()
	run, ok := settings.FromContext(ctx)
	if !ok {
		run = settings.NewCliParams()
		run.NoColor = cfg.UI.NoColor
		if cfg.UI.KeyMap != "" {
			run.KeyMap = cfg.UI.KeyMap
		}
		run.Addr = net.JoinHostPort(cfg.Connection.Host, strconv.Itoa(cfg.Connection.Port))
		run.DB = cfg.Connection.DB
	}
	return ui.Options{
		Store:         st,
		Addr:          run.Addr,
		DB:            run.DB,
		Timeout:       timeout,
		KeyMode:       ui.KeyMode(run.KeyMap),
		Theme:         ui.ThemeFromConfig(cfg.ActiveTheme()),
		NoColor:       run.NoColor,
		AutoLoad:      cfg.UI.AutoLoad,
		InitialFilter: f.search,
		KeyPaneWidth:  cfg.UI.KeyPaneWidth,
		Debug:         cfg.Logging.Debug,
		Logger:        *logger.FromContext(ctx),
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the redkv version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var configFile, format string
	load := func() (config.Config, error) {
		cfg, err := config.Load(config.ResolvePath(configFile))
		if err != nil {
			return cfg, usageError(err)
		}
		if pw := getenv(PasswordEnv); pw != "" {
			cfg.Connection.Password = pw
		}
		return cfg, nil
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration",
		Long:  "Print the embedded defaults merged with the config file. The password and URL credentials are masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			var out []byte
			switch format {
			case "yaml", "yml":
				out, err = config.MarshalYAML(cfg.Redacted())
			case "toml":
				out, err = config.MarshalTOML(cfg.Redacted())
			default:
				return usageError(fmt.Errorf("unknown output format %q (expected yaml or toml)", format))
			}
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	configCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "YAML or TOML config (default $XDG_CONFIG_HOME/redkv/config.yaml)")
	configCmd.Flags().StringVarP(&format, "output", "o", "yaml", "output format: yaml or toml")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Available themes (default: %s):\n", cfg.UI.Theme)
			for _, name := range cfg.ThemeNames() {
				fmt.Fprintf(w, " - %s\n", name)
			}
			return nil
		},
	}
	configCmd.AddCommand(themesCmd)
	return configCmd
}
