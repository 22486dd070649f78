package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cs156/campus-api/internal/auth"
	"github.com/cs156/campus-api/internal/config"
	"github.com/cs156/campus-api/internal/store"
)

func newTokenCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint bearer tokens",
	}

	var principalID string
	var ttl time.Duration

	create := &cobra.Command{
		Use:   "create",
		Short: "Print a bearer token for an active principal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return withStore(cmd, opts, func(db *store.DB) error {
				return createToken(cmd.Context(), cmd.OutOrStdout(), cfg, db, principalID, ttl)
			})
		},
	}
	create.Flags().StringVar(&principalID, "principal", "", "principal id (required)")
	create.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.token_ttl)")
	_ = create.MarkFlagRequired("principal")

	cmd.AddCommand(create)
	return cmd
}

func createToken(ctx context.Context, out io.Writer, cfg *config.Config, db *store.DB, principalID string, ttl time.Duration) error {
	p, err := db.GetPrincipal(ctx, principalID)
	if errors.Is(err, store.ErrPrincipalNotFound) {
		return fmt.Errorf("principal %s not found", principalID)
	}
	if err != nil {
		return err
	}
	if p.Status != store.PrincipalStatusActive {
		return fmt.Errorf("principal %s is %s", principalID, p.Status)
	}

	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating JWT verifier: %w", err)
	}
	token, err := verifier.Generate(p.ID, ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	fmt.Fprintln(out, token)
	return nil
}
