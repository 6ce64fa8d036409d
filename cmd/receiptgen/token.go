package main

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fueltire/receipts/internal/infrastructure/auth"
)

func newTokenCmd(v *viper.Viper) *cobra.Command {
	var (
		kioskID string
		scopes  []string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a kiosk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToken(v, kioskID, scopes, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&kioskID, "kiosk", "", "kiosk id the token is issued to")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeRender},
		"granted scopes: "+auth.ScopeRender+", "+auth.ScopeArchive+", "+auth.ScopeSettings)
	_ = cmd.MarkFlagRequired("kiosk")
	return cmd
}

func runToken(v *viper.Viper, kioskID string, scopes []string, out io.Writer) error {
	cfg, _, err := loadConfig(v)
	if err != nil {
		return err
	}
	if cfg.Auth.Secret == "" {
		return errors.New("auth.secret is not configured")
	}

	token, err := auth.NewJWTService(cfg.Auth).IssueKioskToken(kioskID, scopes...)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(token)
}
