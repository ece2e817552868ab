package main

import (
	"os"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"quill/pkg/config"
)

var (
	configPath string
	debug      bool
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Draft short non-fiction books with a language model",
	Long: `quill asks a language model for a chapter outline, then a manuscript,
and stores the Markdown and its metadata in an object store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if debug {
			cfg.Debug = true
		}
		if cfg.Debug {
			log.SetLevel(log.DebugLevel)
		}
		log.Debug("config loaded", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model, "storage", cfg.Storage.Backend)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (env overrides it)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	log.SetReportTimestamp(true)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
