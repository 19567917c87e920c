package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient talks to the contaledger HTTP API.
type apiClient struct {
	baseURL string
	user    string
	timeout time.Duration
}

// envelope mirrors the API response body.
type envelope struct {
	OK      bool              `json:"ok"`
	Message string            `json:"message,omitempty"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type periodRow struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	State    string  `json:"state"`
	IsActive bool    `json:"is_active"`
	ClosedBy *string `json:"closed_by,omitempty"`
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" {
		req.Header.Set("X-User-ID", c.user)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if !env.OK {
		return &env, apiError(resp.StatusCode, &env)
	}
	return &env, nil
}

func apiError(status int, env *envelope) error {
	msg := fmt.Sprintf("%s (status %d)", env.Message, status)
	for field, problem := range env.Errors {
		msg += fmt.Sprintf("\n  %s: %s", field, problem)
	}
	return errors.New(msg)
}

func newRootCmd() *cobra.Command {
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "contaledger-cli",
		Short:         "contaledger CLI tool",
		Long:          `A command line interface for managing accounting periods and month-end closings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the contaledger API")
	rootCmd.PersistentFlags().DurationVar(&client.timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&client.user, "user", os.Getenv("CONTALEDGER_USER"), "Acting user, sent as X-User-ID")

	rootCmd.AddCommand(periodsCmd(client), closingCmd(client), accountsCmd(client), auditCmd(client))
	return rootCmd
}

func periodsCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{Use: "periods", Short: "Accounting period operations"}

	var state string
	list := &cobra.Command{
		Use:   "list",
		Short: "List periods, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/periods"
			if state != "" {
				path += "?state=" + url.QueryEscape(state)
			}
			env, err := client.do(cmd.Context(), http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			return printPeriods(cmd.OutOrStdout(), env.Data)
		},
	}
	list.Flags().StringVar(&state, "state", "", "Filter by state (open or closed)")

	var year, month int
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a new period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAndPrint(cmd, client, http.MethodPost, "/api/v1/periods", map[string]int{"year": year, "month": month})
		},
	}
	create.Flags().IntVar(&year, "year", 0, "Calendar year")
	create.Flags().IntVar(&month, "month", 0, "Calendar month (1-12)")
	_ = create.MarkFlagRequired("year")
	_ = create.MarkFlagRequired("month")

	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the year and month of an open period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAndPrint(cmd, client, http.MethodPut, periodPath(args[0], ""), map[string]int{"year": year, "month": month})
		},
	}
	edit.Flags().IntVar(&year, "year", 0, "Calendar year")
	edit.Flags().IntVar(&month, "month", 0, "Calendar month (1-12)")
	_ = edit.MarkFlagRequired("year")
	_ = edit.MarkFlagRequired("month")

	var closedBy string
	closeCmd := &cobra.Command{
		Use:   "close ID",
		Short: "Close a period and every earlier open period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if closedBy != "" {
				body = map[string]string{"closed_by": closedBy}
			}
			env, err := client.do(cmd.Context(), http.MethodPost, periodPath(args[0], "/close"), body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.Message)
			return printPeriods(cmd.OutOrStdout(), env.Data)
		},
	}
	closeCmd.Flags().StringVar(&closedBy, "closed-by", "", "Closing user (defaults to --user)")

	reopen := &cobra.Command{
		Use:   "reopen ID",
		Short: "Reopen a period and every later closed period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := client.do(cmd.Context(), http.MethodPost, periodPath(args[0], "/reopen"), nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.Message)
			return printPeriods(cmd.OutOrStdout(), env.Data)
		},
	}

	cmd.AddCommand(
		list,
		create,
		edit,
		closeCmd,
		reopen,
		simpleCmd(client, "get ID", "Show a period", http.MethodGet, ""),
		simpleCmd(client, "delete ID", "Delete a period without dependent data", http.MethodDelete, ""),
		simpleCmd(client, "balances ID", "List the stored balances of a period", http.MethodGet, "/balances"),
		simpleCmd(client, "consistency ID", "Check that stored balances still balance", http.MethodGet, "/consistency"),
	)
	return cmd
}

func closingCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{Use: "closing", Short: "Month-end closing"}

	candidates := &cobra.Command{
		Use:   "periods",
		Short: "List the periods that can be closed",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := client.do(cmd.Context(), http.MethodGet, "/api/v1/closings/periods", nil)
			if err != nil {
				return err
			}
			return printPeriods(cmd.OutOrStdout(), env.Data)
		},
	}

	run := &cobra.Command{
		Use:   "run PERIOD_ID",
		Short: "Execute the month-end closing of a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := client.do(cmd.Context(), http.MethodPost, "/api/v1/closings", map[string]string{"period_id": args[0]})
			if env != nil && len(env.Data) > 0 {
				// An unbalanced closing still carries the computed totals.
				printJSON(cmd.OutOrStdout(), env.Data)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.Message)
			return nil
		},
	}

	cmd.AddCommand(candidates, run)
	return cmd
}

func accountsCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{Use: "accounts", Short: "Chart of accounts"}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts ordered by code",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))
			return runAndPrint(cmd, client, http.MethodGet, "/api/v1/accounts?"+q.Encode(), nil)
		},
	}
	list.Flags().IntVar(&limit, "limit", 100, "Maximum accounts to list")
	list.Flags().IntVar(&offset, "offset", 0, "Accounts to skip")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAndPrint(cmd, client, http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil)
		},
	}

	var code, name, accountType, side, parentID string
	var acceptsMovements, active bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Add an account to the chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"code":              code,
				"name":              name,
				"type":              accountType,
				"balance_side":      side,
				"accepts_movements": acceptsMovements,
			}
			if parentID != "" {
				body["parent_id"] = parentID
			}
			return runAndPrint(cmd, client, http.MethodPost, "/api/v1/accounts", body)
		},
	}
	create.Flags().StringVar(&code, "code", "", "Hierarchical code, e.g. 1.1.2")
	create.Flags().StringVar(&name, "name", "", "Account name")
	create.Flags().StringVar(&accountType, "type", "", "Activo, Pasivo, Capital, Gasto or Ingreso")
	create.Flags().StringVar(&side, "side", "", "Natural balance side (deudor or acreedor)")
	create.Flags().StringVar(&parentID, "parent", "", "Parent account ID")
	create.Flags().BoolVar(&acceptsMovements, "accepts-movements", true, "Whether journal lines may post to it")
	for _, f := range []string{"code", "name", "type", "side"} {
		_ = create.MarkFlagRequired(f)
	}

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change an account; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			flags := cmd.Flags()
			for flag, field := range map[string]string{"name": "name", "type": "type", "side": "balance_side", "parent": "parent_id"} {
				if flags.Changed(flag) {
					v, _ := flags.GetString(flag)
					body[field] = v
				}
			}
			if flags.Changed("accepts-movements") {
				body["accepts_movements"] = acceptsMovements
			}
			if flags.Changed("active") {
				body["active"] = active
			}
			if len(body) == 0 {
				return errors.New("nothing to update")
			}
			return runAndPrint(cmd, client, http.MethodPut, "/api/v1/accounts/"+url.PathEscape(args[0]), body)
		},
	}
	update.Flags().String("name", "", "Account name")
	update.Flags().String("type", "", "Activo, Pasivo, Capital, Gasto or Ingreso")
	update.Flags().String("side", "", "Natural balance side (deudor or acreedor)")
	update.Flags().String("parent", "", "Parent account ID; empty detaches the account")
	update.Flags().BoolVar(&acceptsMovements, "accepts-movements", true, "Whether journal lines may post to it")
	update.Flags().BoolVar(&active, "active", true, "Inactive accounts are skipped by month-end closing")

	cmd.AddCommand(list, get, create, update)
	return cmd
}

func auditCmd(client *apiClient) *cobra.Command {
	var action, userID string
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if action != "" {
				q.Set("action", action)
			}
			if userID != "" {
				q.Set("user_id", userID)
			}
			q.Set("limit", strconv.Itoa(limit))
			return runAndPrint(cmd, client, http.MethodGet, "/api/v1/audit?"+q.Encode(), nil)
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "Filter by action, e.g. closing.attempt")
	cmd.Flags().StringVar(&userID, "user-id", "", "Filter by acting user")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to list")
	return cmd
}

func simpleCmd(client *apiClient, use, short, method, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAndPrint(cmd, client, method, periodPath(args[0], suffix), nil)
		},
	}
}

func runAndPrint(cmd *cobra.Command, client *apiClient, method, path string, body any) error {
	env, err := client.do(cmd.Context(), method, path, body)
	if err != nil {
		return err
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		printJSON(cmd.OutOrStdout(), env.Data)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), env.Message)
	return nil
}

func periodPath(id, suffix string) string {
	return "/api/v1/periods/" + url.PathEscape(id) + suffix
}

func printPeriods(w io.Writer, data json.RawMessage) error {
	var periods []periodRow
	if err := json.Unmarshal(data, &periods); err != nil {
		return fmt.Errorf("failed to parse periods: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPERIOD\tSTATE\tACTIVE\tCLOSED BY")
	for _, p := range periods {
		closedBy := ""
		if p.ClosedBy != nil {
			closedBy = truncate(*p.ClosedBy, 20)
		}
		active := ""
		if p.IsActive {
			active = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Label, p.State, active, closedBy)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, raw json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(w, string(raw))
		return
	}
	fmt.Fprintln(w, buf.String())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
