package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/imgajeed76/datagrid/internal/config"
	"github.com/imgajeed76/datagrid/internal/logging"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var (
	// cfg is the effective configuration, loaded before any subcommand runs.
	cfg     = config.Default()
	cfgPath string
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "datagrid",
	Short: "Browse tabular data in the terminal or over HTTP",
	Long: `datagrid loads CSV, TSV, JSON and YAML files or SQL query results into
a table view with per-column filters, tri-state sorting, row selection,
column resizing, paging and virtual scrolling.

On a terminal the view is interactive. When piped, or with --json, --raw
or --no-pager, the current page is printed instead. 'datagrid serve'
exposes the same view as a JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *util.CLIError
		if errors.As(err, &cliErr) {
			fmt.Fprintln(os.Stderr, cliErr.Format())
		} else {
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: "+config.Path()+")")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file (- for stderr)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.SetVersionTemplate(fmt.Sprintf("datagrid version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newViewCmd(),
		newQueryCmd(),
		newServeCmd(),
		newConfigCmd(),
		newCompletionCmd(),
	)
}

// setup loads the config and applies the global flags on top of it.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return util.NewError("Cannot read config file").
			WithContext(configFile()).
			WithSuggestions("datagrid config --list   # Show the effective configuration").
			Wrap(err)
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if noColor, _ := flags.GetBool("no-color"); noColor || cfg.Display.NoColor {
		styles.SetNoColor(true)
	}

	w, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return util.NewError("Cannot open log file").WithContext(cfg.Log.File).Wrap(err)
	}
	var out io.Writer
	if w != nil {
		logFile, out = w, w
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, out)
	slog.Debug("config loaded", "path", configFile(), "command", cmd.Name())
	return nil
}

func configFile() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.Path()
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for datagrid.

To load completions:

Bash:
  $ source <(datagrid completion bash)

Zsh:
  $ datagrid completion zsh > "${fpath[1]}/_datagrid"

Fish:
  $ datagrid completion fish | source

PowerShell:
  PS> datagrid completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "datagrid version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
