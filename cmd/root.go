package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vlo-krakow/timetable/app"
	"github.com/vlo-krakow/timetable/config"
	"github.com/vlo-krakow/timetable/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "timetable",
	Short:        "Timetable service for V LO Kraków",
	Long:         "Serves normalized weekly timetables fetched from the school's Edupage instance.",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// newService loads the configuration and wires the full pipeline. Shared by
// the serve and fetch entry points.
func newService() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	log := logger.New("main")
	log.Infof("service started")
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
