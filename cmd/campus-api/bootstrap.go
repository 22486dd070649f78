package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cs156/campus-api/internal/auth"
	"github.com/cs156/campus-api/internal/config"
	"github.com/cs156/campus-api/internal/server"
	"github.com/cs156/campus-api/internal/store"
)

const (
	bootstrapTokenTTL  = 30 * 24 * time.Hour
	maxDisplayNameLen  = 100
	generatedSecretLen = 32
)

const configTemplate = `# campus-api configuration
# Generated by campus-api bootstrap

server:
  http_addr: "localhost:8080"

database:
  driver: sqlite
  path: %q

auth:
  jwt_secret: %q
  token_ttl: "24h"

logging:
  level: "info"
  format: "text"

metrics:
  enabled: true
  path: "/metrics"
`

type bootstrapOptions struct {
	Email string
	Name  string
	TTL   time.Duration
}

func newBootstrapCommand(opts *rootOptions) *cobra.Command {
	bo := &bootstrapOptions{}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create config, database, and the first admin principal",
		Long: `Performs first-time setup:

  1. Writes a config file with a random JWT secret (if none exists)
  2. Creates the database and an admin principal
  3. Prints a bearer token for that principal and saves it next to the config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, bo)
		},
	}

	cmd.Flags().StringVar(&bo.Email, "email", "", "admin email address (required)")
	cmd.Flags().StringVarP(&bo.Name, "name", "n", "", "admin display name (required)")
	cmd.Flags().DurationVar(&bo.TTL, "ttl", bootstrapTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func validateIdentity(email, name string) (string, string, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return "", "", fmt.Errorf("invalid email %q", email)
	}
	if name == "" {
		return "", "", errors.New("display name cannot be empty or whitespace only")
	}
	if len(name) > maxDisplayNameLen {
		return "", "", fmt.Errorf("display name exceeds maximum length of %d characters", maxDisplayNameLen)
	}
	return email, name, nil
}

// writeDefaultConfig creates a config file with a fresh random secret.
func writeDefaultConfig(path string) error {
	secret := make([]byte, generatedSecretLen)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generating JWT secret: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	content := fmt.Sprintf(configTemplate, config.DefaultDatabasePath(), base64.StdEncoding.EncodeToString(secret))
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func runBootstrap(ctx context.Context, out, logOut io.Writer, opts *rootOptions, bo *bootstrapOptions) error {
	email, name, err := validateIdentity(bo.Email, bo.Name)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	configPath := opts.configPath()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}
		green.Fprintf(out, "  ✓ Created config: %s\n", configPath)
	} else if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	} else {
		cyan.Fprintf(out, "  Using existing config: %s\n", configPath)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	db, err := server.OpenStore(ctx, cfg.Database, newLogger(cfg.Logging, logOut))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	green.Fprintf(out, "  ✓ Database: %s\n", databaseLabel(cfg.Database))

	existing, err := db.ListPrincipals(ctx)
	if err != nil {
		return fmt.Errorf("checking principals: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("bootstrap already complete: %d principal(s) exist", len(existing))
	}

	p, err := createPrincipal(ctx, db, email, name, true)
	if err != nil {
		return err
	}
	green.Fprintf(out, "  ✓ Created admin principal: %s <%s>\n", p.DisplayName, p.Email)

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating JWT verifier: %w", err)
	}
	token, err := verifier.Generate(p.ID, bo.TTL)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	tokenPath := filepath.Join(filepath.Dir(configPath), "token")
	if err := os.WriteFile(tokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	green.Fprintf(out, "  ✓ Saved token: %s\n", tokenPath)

	fmt.Fprintln(out)
	green.Fprintln(out, "  Bootstrap complete!")
	fmt.Fprintln(out)
	cyan.Fprintln(out, "  Admin Principal")
	cyan.Fprintln(out, "  ---------------")
	fmt.Fprintf(out, "  ID:           %s\n", p.ID)
	fmt.Fprintf(out, "  Email:        %s\n", p.Email)
	fmt.Fprintf(out, "  Display Name: %s\n", p.DisplayName)
	fmt.Fprintf(out, "  Roles:        admin, user\n")
	fmt.Fprintf(out, "  Token:        %s (expires %s)\n", token, time.Now().Add(bo.TTL).UTC().Format("Jan 02, 2006"))
	fmt.Fprintln(out)

	yellow.Fprintln(out, "  Ready to go:")
	fmt.Fprintln(out, "    campus-api serve")
	fmt.Fprintln(out, `    curl -H "Authorization: Bearer $(cat `+tokenPath+`)" localhost:8080/api/currentUser`)
	fmt.Fprintln(out)

	return nil
}

// createPrincipal inserts an active principal, granting admin when asked.
func createPrincipal(ctx context.Context, db *store.DB, email, name string, admin bool) (*store.Principal, error) {
	p := &store.Principal{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: name,
		Status:      store.PrincipalStatusActive,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.CreatePrincipal(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, fmt.Errorf("a principal with email %s already exists", email)
		}
		return nil, fmt.Errorf("creating principal: %w", err)
	}

	if admin {
		if err := db.AddRole(ctx, p.ID, store.RoleAdmin); err != nil {
			// Leave no half-provisioned admin behind.
			_ = db.UpdatePrincipalStatus(ctx, p.ID, store.PrincipalStatusRevoked)
			return nil, fmt.Errorf("granting admin role: %w", err)
		}
	}
	return p, nil
}
