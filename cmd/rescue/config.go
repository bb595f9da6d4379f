package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IllumuIll/rescue-ai/internal/config"
)

var flagConfigResolved bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the scene configuration",
	Long: `Print the embedded default configuration as YAML. Save it to
~/.rescue/configs/rescue.yaml or ./configs/rescue.yaml to override values.

With --resolved the configuration actually used is printed instead, after
the search path, --config and --preset have been applied.

Examples:
  rescue config > configs/rescue.yaml
  rescue config --resolved --preset hard`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigResolved, "resolved", false, "Print the effective configuration")
}

func runConfig(cmd *cobra.Command, args []string) {
	if !flagConfigResolved {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := loadConfig()
	exitOnError("loading config", err)

	data, err := config.Marshal(cfg)
	exitOnError("encoding config", err)
	fmt.Print(string(data))
}
