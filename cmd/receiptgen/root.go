package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/infrastructure/logger"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "receiptgen",
		Short:         "Render kiosk receipts, manage kiosk tokens and the settings schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("kiosk-id", "", "kiosk id printed on receipts")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("receipt.kiosk_id", flags.Lookup("kiosk-id"))

	root.AddCommand(
		newRenderCmd(v),
		newTokenCmd(v),
		newRevokeCmd(v),
		newMigrateCmd(v),
	)
	return root
}

// loadConfig reads config.toml and the environment underneath the bound
// flags. Logs go to stderr so stdout stays free for documents.
func loadConfig(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadWith(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
