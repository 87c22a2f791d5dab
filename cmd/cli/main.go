package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// client talks to the yearend API on behalf of one company.
type client struct {
	baseURL string
	company string
	actor   string
	http    *http.Client
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		c       = &client{}
	)

	rootCmd := &cobra.Command{
		Use:           "yearend-cli",
		Short:         "Fiscal year closing CLI",
		Long:          `A command line interface for closing and opening fiscal years through the yearend API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.company == "" {
				return fmt.Errorf("--company is required")
			}
			c.baseURL = strings.TrimRight(baseURL, "/")
			c.http = &http.Client{Timeout: timeout}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the yearend API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&c.company, "company", "", "Company ID")
	rootCmd.PersistentFlags().StringVar(&c.actor, "as", "", "User ID recorded as the actor")

	rootCmd.AddCommand(
		closeCmd(c),
		openCmd(c),
		refreshCmd(c),
		inventoryCmd(c),
		consistencyCmd(c),
	)
	return rootCmd
}

func closeCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "close <fiscal-year-id>",
		Short: "Close a fiscal year and book its closing entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, http.MethodPost, "/fiscal-years/"+args[0]+"/close", nil)
		},
	}
}

func openCmd(c *client) *cobra.Command {
	var (
		name, start, end, previous, notes string
		carry                             bool
	)

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the next fiscal year",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"name":               name,
				"start_date":         start,
				"end_date":           end,
				"notes":              notes,
				"auto_carry_forward": carry,
			}
			if previous != "" {
				body["previous_year_id"] = previous
			}
			return c.do(cmd, http.MethodPost, "/fiscal-years/open", body)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Fiscal year name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&previous, "previous", "", "Previous fiscal year ID")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().BoolVar(&carry, "carry-forward", true, "Carry balances from the previous year")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func refreshCmd(c *client) *cobra.Command {
	var previous string

	cmd := &cobra.Command{
		Use:   "refresh <fiscal-year-id>",
		Short: "Regenerate opening balances from the previous year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, http.MethodPost, "/fiscal-years/"+args[0]+"/refresh", map[string]string{"previous_year_id": previous})
		},
	}

	cmd.Flags().StringVar(&previous, "previous", "", "Previous fiscal year ID")
	_ = cmd.MarkFlagRequired("previous")
	return cmd
}

func inventoryCmd(c *client) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Move available inventory to another fiscal year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, http.MethodPost, "/inventory/carry-forward", map[string]string{
				"from_year_id": from,
				"to_year_id":   to,
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source fiscal year ID")
	cmd.Flags().StringVar(&to, "to", "", "Target fiscal year ID")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func consistencyCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that the company ledger is balanced",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(cmd, http.MethodGet, "/ledger/consistency", nil)
		},
	}
}

// do sends the request and prints the response body. Non-2xx responses are
// printed too and reported as errors.
func (c *client) do(cmd *cobra.Command, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, c.baseURL+"/api/v1/companies/"+c.company+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.actor != "" {
		req.Header.Set("X-User-ID", c.actor)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	printJSON(cmd.OutOrStdout(), raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed with status %d", method, path, resp.StatusCode)
	}
	return nil
}

// printJSON pretty-prints raw, falling back to the bytes as received.
func printJSON(w io.Writer, raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(w, strings.TrimSpace(string(raw)))
		return
	}
	fmt.Fprintln(w, buf.String())
}
