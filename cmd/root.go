package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/wayloop/internal/config"
	"github.com/bnema/wayloop/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath string

	rootCmd = &cobra.Command{
		Use:   "wayloop",
		Short: "Wayloop - Wayland event loop inspector",
		Long: `Wayloop connects to a Wayland compositor as a regular client and exposes
its event stream: monitor layout, seat capabilities, pointer, keyboard
and window lifecycle events. It is meant for debugging compositors and
input pipelines without writing a throwaway client every time.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
}
