// cmd/segmenter/main.go
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/neurodataflow/epoch-segmenter/internal/pipeline"
	"github.com/neurodataflow/epoch-segmenter/internal/settings"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath   string
		settingsPath string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:           "segmenter",
		Short:         "Segment a continuous recording into event-locked epochs",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settings.Default()
			if settingsPath != "" {
				var err error
				if s, err = settings.Load(settingsPath); err != nil {
					return err
				}
			}
			if outDir != "" {
				s.OutDir = outDir
			}

			log := logrus.New()
			level, err := logrus.ParseLevel(s.LogLevel)
			if err != nil {
				return fmt.Errorf("bad log level %q: %w", s.LogLevel, err)
			}
			log.SetLevel(level)

			return pipeline.Run(pipeline.Options{
				ConfigPath: configPath,
				Settings:   s,
				Log:        log,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.json", "path to the Brainlife configuration document")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "optional YAML settings file")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "override the output directory")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the segmenter version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}
