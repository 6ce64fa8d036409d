package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fueltire/receipts/internal/bootstrap"
)

func newRevokeCmd(v *viper.Viper) *cobra.Command {
	var (
		kioskID string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke every token issued to a kiosk so far",
		Long: "Revoke every token issued to a kiosk so far. The revocation is\n" +
			"stored in Redis so that every receiptd process honors it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRevoke(cmd.Context(), v, kioskID, ttl, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&kioskID, "kiosk", "", "kiosk id to revoke")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "how long the revocation is kept (default auth.token_ttl)")
	_ = cmd.MarkFlagRequired("kiosk")
	return cmd
}

func runRevoke(ctx context.Context, v *viper.Viper, kioskID string, ttl time.Duration, out io.Writer) error {
	cfg, log, err := loadConfig(v)
	if err != nil {
		return err
	}
	if !cfg.Redis.Enabled {
		return fmt.Errorf("revocations need redis; set redis.enabled")
	}
	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}

	counters, err := bootstrap.OpenCounters(cfg.Redis, nil, true, log)
	if err != nil {
		return err
	}
	defer counters.Close()

	if err := counters.Revocations().Revoke(ctx, kioskID, ttl); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "revoked tokens of kiosk %s for %s\n", kioskID, ttl)
	return err
}
