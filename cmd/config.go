package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgcheck/pkg/config"
	"github.com/kamal-hamza/imgcheck/pkg/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

// resolvedConfigPath returns --config or the default location
func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		source = path + " (not found, using defaults)"
	}

	extensions := "all files"
	if len(appConfig.Extensions) > 0 {
		extensions = strings.Join(appConfig.Extensions, ", ")
	}

	fmt.Fprintln(out, ui.FormatTitle("Configuration"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderKeyValue("File", source))
	fmt.Fprintln(out, ui.RenderKeyValue("Extensions", extensions))
	fmt.Fprintln(out, ui.RenderKeyValue("Exclude", strings.Join(appConfig.Exclude, ", ")))
	fmt.Fprintln(out, ui.RenderKeyValue("Threshold", fmt.Sprintf("%d", appConfig.Threshold)))
	fmt.Fprintln(out, ui.RenderKeyValue("Container suffixes", strings.Join(appConfig.ContainerSuffixes, ", ")))
	fmt.Fprintln(out, ui.RenderKeyValue("Max workers", fmt.Sprintf("%d", appConfig.MaxWorkers)))
	fmt.Fprintln(out, ui.RenderKeyValue("Anxious", fmt.Sprintf("%t", appConfig.Anxious)))
	fmt.Fprintln(out, ui.RenderKeyValue("Fail on unused", fmt.Sprintf("%t", appConfig.FailOnUnused)))
	fmt.Fprintln(out, ui.RenderKeyValue("Color theme", appConfig.ColorTheme))
	fmt.Fprintln(out, ui.RenderKeyValue("Log level", appConfig.LogLevel))
	fmt.Fprintln(out, ui.RenderKeyValue("Log file", appConfig.LogFile))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess("Config written to "+path))
	return nil
}
