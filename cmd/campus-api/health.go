package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func newHealthCommand(opts *rootOptions) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that a running server is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				baseURL = baseURLFromAddr(cfg.Server.HTTPAddr)
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, strings.TrimSuffix(baseURL, "/")+"/health/ready", nil)
			if err != nil {
				return fmt.Errorf("creating request: %w", err)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unhealthy: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(body)))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "server base URL (default derived from server.http_addr)")
	return cmd
}

// baseURLFromAddr turns a listen address into a URL a client can dial.
func baseURLFromAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
