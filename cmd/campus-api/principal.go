package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cs156/campus-api/internal/server"
	"github.com/cs156/campus-api/internal/store"
)

func newPrincipalCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "principal",
		Short: "Manage the principals that may call the API",
	}

	cmd.AddCommand(newPrincipalCreateCommand(opts))
	cmd.AddCommand(newPrincipalListCommand(opts))
	cmd.AddCommand(newPrincipalRevokeCommand(opts))
	cmd.AddCommand(newPrincipalRoleCommand(opts, "grant-admin", "Grant the admin role", true))
	cmd.AddCommand(newPrincipalRoleCommand(opts, "revoke-admin", "Remove the admin role", false))

	return cmd
}

// withStore loads config, opens the database, and runs fn against it. Store
// logs go to the command's stderr in the configured format.
func withStore(cmd *cobra.Command, opts *rootOptions, fn func(db *store.DB) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging, cmd.ErrOrStderr())
	db, err := server.OpenStore(cmd.Context(), cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	return fn(db)
}

func newPrincipalCreateCommand(opts *rootOptions) *cobra.Command {
	var email, name string
	var admin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an active principal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, name, err := validateIdentity(email, name)
			if err != nil {
				return err
			}
			return withStore(cmd, opts, func(db *store.DB) error {
				p, err := createPrincipal(cmd.Context(), db, email, name, admin)
				if err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "  ✓ Created principal %s <%s>\n", p.DisplayName, p.Email)
				fmt.Fprintln(cmd.OutOrStdout(), p.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (required)")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPrincipalListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List principals and their roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(db *store.DB) error {
				return listPrincipals(cmd.Context(), db, cmd.OutOrStdout())
			})
		},
	}
}

func listPrincipals(ctx context.Context, db *store.DB, out io.Writer) error {
	principals, err := db.ListPrincipals(ctx)
	if err != nil {
		return fmt.Errorf("listing principals: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tSTATUS\tROLES")
	for _, p := range principals {
		roles, err := db.ListRoles(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("listing roles for %s: %w", p.ID, err)
		}
		names := make([]string, len(roles))
		for i, r := range roles {
			names[i] = string(r)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Email, p.DisplayName, p.Status, strings.Join(names, ","))
	}
	return tw.Flush()
}

func newPrincipalRevokeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <principal-id>",
		Short: "Revoke a principal; its tokens stop working immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(db *store.DB) error {
				err := db.UpdatePrincipalStatus(cmd.Context(), args[0], store.PrincipalStatusRevoked)
				if errors.Is(err, store.ErrPrincipalNotFound) {
					return fmt.Errorf("principal %s not found", args[0])
				}
				if err != nil {
					return err
				}
				color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "  ✓ Revoked %s\n", args[0])
				return nil
			})
		},
	}
}

func newPrincipalRoleCommand(opts *rootOptions, use, short string, grant bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <principal-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(db *store.DB) error {
				ctx := cmd.Context()
				if _, err := db.GetPrincipal(ctx, args[0]); err != nil {
					if errors.Is(err, store.ErrPrincipalNotFound) {
						return fmt.Errorf("principal %s not found", args[0])
					}
					return err
				}
				if grant {
					return db.AddRole(ctx, args[0], store.RoleAdmin)
				}
				return db.RemoveRole(ctx, args[0], store.RoleAdmin)
			})
		},
	}
}
