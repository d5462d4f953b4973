package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/oakwood-commons/redkv/internal/config"
)

// PasswordEnv names the environment variable read for the server password.
const PasswordEnv = "REDKV_PASSWORD"

var getenv = os.Getenv

// rootFlags holds the values bound to the root command's flags. A flag only
// overrides the configuration when it was set on the command line.
type rootFlags struct {
	host        string
	port        int
	user        string
	password    string
	askPassword bool
	db          int
	url         string
	match       string
	scanCount   int64
	maxKeys     int
	timeout     time.Duration

	search   string
	autoLoad bool
	keyMap   string
	theme    string
	noColor  bool
	width    int
	height   int
	keys     []string
	snapshot bool

	configFile string
	logFile    string
	debug      bool
}

func (f *rootFlags) bind(fs *pflag.FlagSet) {
	def := mustDefaultConfig()
	conn := def.Connection
	timeout, _ := conn.TimeoutDuration()

	fs.StringVar(&f.host, "host", conn.Host, "server host")
	fs.IntVar(&f.port, "port", conn.Port, "server port")
	fs.StringVar(&f.user, "user", conn.Username, "ACL username")
	fs.StringVar(&f.password, "password", "", "server password (also "+PasswordEnv+")")
	fs.BoolVar(&f.askPassword, "ask-password", false, "prompt for the password without echo")
	fs.IntVarP(&f.db, "db", "d", conn.DB, "database index")
	fs.StringVarP(&f.url, "url", "u", "", "redis:// or rediss:// URL, overrides host, port, password and db")
	fs.StringVar(&f.match, "match", conn.Match, "SCAN MATCH pattern")
	fs.Int64Var(&f.scanCount, "scan-count", conn.ScanCount, "SCAN COUNT hint")
	fs.IntVar(&f.maxKeys, "max-keys", conn.MaxKeys, "stop listing after N keys (0 = unlimited)")
	fs.DurationVar(&f.timeout, "timeout", timeout, "per-request timeout")

	fs.StringVar(&f.search, "search", "", "start with this filter committed")
	fs.BoolVar(&f.autoLoad, "auto-load", def.UI.AutoLoad, "load details when the selection moves")
	fs.StringVar(&f.keyMap, "keymap", def.UI.KeyMap, "keybinding mode: vim, emacs or function")
	fs.StringVar(&f.theme, "theme", def.UI.Theme, "theme name (see 'redkv config themes')")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colors")
	fs.IntVar(&f.width, "width", 0, "force the TUI width in columns")
	fs.IntVar(&f.height, "height", 0, "force the TUI height in rows")
	fs.StringArrayVar(&f.keys, "keys", nil, "keys to apply on startup, e.g. --keys '/user<CR>' or --keys '<C-n>'")
	fs.BoolVar(&f.snapshot, "snapshot", false, "render one frame to stdout and exit; honors --width, --height and --keys")

	fs.StringVar(&f.configFile, "config-file", "", "YAML or TOML config (default $XDG_CONFIG_HOME/redkv/config.yaml)")
	fs.StringVar(&f.logFile, "log-file", "", "write JSON logs to this file")
	fs.BoolVar(&f.debug, "debug", false, "debug log level and a debug bar above the status line")

	_ = fs.MarkHidden("snapshot")
}

// mustDefaultConfig returns the embedded defaults. They are compiled in,
// so failing to parse them is a programming error.
func mustDefaultConfig() config.Config {
	cfg, err := config.Default()
	if err != nil {
		panic(err)
	}
	return cfg
}

// loadConfig resolves the configuration for one run: embedded defaults,
// then the config file, then REDKV_PASSWORD, then explicitly set flags.
func loadConfig(fs *pflag.FlagSet, f *rootFlags) (config.Config, error) {
	path := config.ResolvePath(f.configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if pw := getenv(PasswordEnv); pw != "" {
		cfg.Connection.Password = pw
	}
	applyFlags(&cfg, fs, f)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if f.width < 0 || f.height < 0 {
		return cfg, fmt.Errorf("%w: --width and --height must not be negative", config.ErrInvalid)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, fs *pflag.FlagSet, f *rootFlags) {
	conn := &cfg.Connection
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("host", func() { conn.Host = f.host })
	set("port", func() { conn.Port = f.port })
	set("user", func() { conn.Username = f.user })
	set("password", func() { conn.Password = f.password })
	set("db", func() { conn.DB = f.db })
	set("url", func() { conn.URL = f.url })
	set("match", func() { conn.Match = f.match })
	set("scan-count", func() { conn.ScanCount = f.scanCount })
	set("max-keys", func() { conn.MaxKeys = f.maxKeys })
	set("timeout", func() { conn.Timeout = f.timeout.String() })

	set("auto-load", func() { cfg.UI.AutoLoad = f.autoLoad })
	set("keymap", func() { cfg.UI.KeyMap = f.keyMap })
	set("theme", func() { cfg.UI.Theme = f.theme })
	set("no-color", func() { cfg.UI.NoColor = f.noColor })

	set("log-file", func() { cfg.Logging.File = f.logFile })
	set("debug", func() { cfg.Logging.Debug = f.debug })
}
