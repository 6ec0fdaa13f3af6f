package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgcheck/internal/adapters/catalog"
	"github.com/kamal-hamza/imgcheck/internal/core/domain"
	"github.com/kamal-hamza/imgcheck/internal/core/services"
	"github.com/kamal-hamza/imgcheck/pkg/config"
	"github.com/kamal-hamza/imgcheck/pkg/logging"
	"github.com/kamal-hamza/imgcheck/pkg/ui"
	"github.com/kamal-hamza/imgcheck/pkg/walker"
)

var (
	// Loaded configuration
	appConfig *config.Config

	// Diagnostics logger and its cleanup
	appLogger  *slog.Logger
	logCleanup func() error

	// Services
	reportService *services.ReportService

	// Persistent flags
	configPath     string
	extensionsFlag string
	anxiousFlag    bool
	workersFlag    int
	excludeFlag    []string
	logFileFlag    string
	logLevelFlag   string
)

// errUnusedFound makes the process exit non-zero under --fail
var errUnusedFound = errors.New("unused images found")

// rootCmd checks an asset catalog against a project
var rootCmd = &cobra.Command{
	Use:   "imgcheck <assetCatalogPath> <projectPath> [allowNbTimes]",
	Short: "Find unused images in an asset catalog",
	Long: ui.StyleTitle.Render("imgcheck") + " - unused image detector\n\n" +
		"Lists every image set declared in an asset catalog and searches the project\n" +
		"for references of the form '.imageName'. Images referenced allowNbTimes times\n" +
		"or fewer are reported as unused.\n\n" +
		"Examples:\n" +
		"  imgcheck App/Assets.xcassets App 0\n" +
		"  imgcheck App/Assets.xcassets App 1 --extensions swift,m --anxious",
	Args:               checkArgs,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	RunE:               runCheck,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUnusedFound) {
			fmt.Fprintln(os.Stderr, formatFatal(err))
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/imgcheck/config.yaml)")
	pf.StringVarP(&extensionsFlag, "extensions", "e", "", "File extensions to search in, comma separated (e.g. swift,m)")
	pf.BoolVarP(&anxiousFlag, "anxious", "a", false, "Print every asset found and every file match")
	pf.IntVarP(&workersFlag, "workers", "w", 1, "Number of assets checked concurrently")
	pf.StringSliceVar(&excludeFlag, "exclude", nil, "Glob of project paths to skip, repeatable (e.g. 'Pods/**')")
	pf.StringVar(&logFileFlag, "log-file", "", "Also write diagnostics as JSON to this file")
	pf.StringVar(&logLevelFlag, "log-level", "", "Diagnostic level: debug, info, warn, error")

	initCheckFlags()
}

// checkArgs validates <catalog> <project> [allowNbTimes].
// A negative allowNbTimes is accepted and marks nothing unused; pass it
// after "--" so it is not read as a flag.
func checkArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(2, 3)(cmd, args); err != nil {
		return err
	}
	if len(args) == 3 {
		if _, err := parseThreshold(args[2]); err != nil {
			return err
		}
	}
	return nil
}

func parseThreshold(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("allowNbTimes must be an integer, got %q", s)
	}
	return n, nil
}

// initializeApp loads configuration, the logger and services
func initializeApp(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = logLevelFlag
	}
	logFile := cfg.LogFile
	if cmd.Flags().Changed("log-file") {
		logFile = logFileFlag
	}

	logger, cleanup, err := logging.Setup(logging.ParseLevel(level), logFile)
	if err != nil {
		return err
	}
	appLogger = logger
	logCleanup = cleanup
	slog.SetDefault(logger)

	workers := cfg.MaxWorkers
	if cmd.Flags().Changed("workers") {
		workers = workersFlag
	}
	if cmd.Flags().Changed("exclude") {
		if err := walker.ValidatePatterns(excludeFlag); err != nil {
			return err
		}
		cfg.Exclude = excludeFlag
	}
	reportService = newReportService(cfg, logger, workers)

	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	if logCleanup != nil {
		return logCleanup()
	}
	return nil
}

// newReportService wires the catalog scanner and usage counter
func newReportService(cfg *config.Config, logger *slog.Logger, workers int) *services.ReportService {
	scanner := catalog.NewScanner(logger, cfg.ContainerSuffixes...)
	usage := services.NewUsageService(logger, cfg.Exclude...)
	return services.NewReportService(scanner, usage, workers, logger)
}

// checkOptions is the resolved input of a check, shared by every subcommand
type checkOptions struct {
	CatalogPath string
	ProjectPath string
	Threshold   int
	Extensions  domain.ExtensionFilter
	Anxious     bool
}

// resolveCheckOptions merges positional args, flags and config.
// Flags win over config values.
func resolveCheckOptions(cmd *cobra.Command, args []string, cfg *config.Config) (checkOptions, error) {
	opts := checkOptions{
		CatalogPath: args[0],
		ProjectPath: args[1],
		Threshold:   cfg.Threshold,
		Extensions:  domain.ParseExtensions(strings.Join(cfg.Extensions, ",")),
		Anxious:     cfg.Anxious,
	}

	if len(args) == 3 {
		n, err := parseThreshold(args[2])
		if err != nil {
			return opts, err
		}
		opts.Threshold = n
	}
	if cmd.Flags().Changed("extensions") {
		opts.Extensions = domain.ParseExtensions(extensionsFlag)
	}
	if cmd.Flags().Changed("anxious") {
		opts.Anxious = anxiousFlag
	}

	return opts, nil
}
