package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "financeiro-cli",
		Short: "Financeiro CLI tool",
		Long:  `A command line interface for interacting with the Financeiro API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Financeiro API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(entriesCmd())
	rootCmd.AddCommand(ledgerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func summaryCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the consolidated balance summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/summary"
			if category != "" {
				path += "?category=" + category
			}
			return getJSON(path)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Restrict the summary to one category")

	return cmd
}

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Entry operations",
	}

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/entries/"
			if status != "" {
				path += "?status=" + status
			}
			return listEntries(path)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, PARTIALLY_SETTLED, SETTLED)")

	settlementsCmd := &cobra.Command{
		Use:   "settlements <entry-id>",
		Short: "Show the settlement history of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/entries/" + args[0] + "/settlements")
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(settlementsCmd)

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that settled amounts match the event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency()
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <entry-id>",
		Short: "Rebuild an entry's settled amount from its event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/ledger/reconcile/" + args[0])
		},
	}

	cmd.AddCommand(consistencyCmd)
	cmd.AddCommand(reconcileCmd)

	return cmd
}

func checkConsistency() error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\n", resp.StatusCode)
		printJSON(result)
		return fmt.Errorf("ledger is inconsistent")
	}

	fmt.Printf("Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Printf("Consistent: %v\n", consistent)
	}
	return nil
}

type entryRow struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DueDate     string `json:"due_date"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
}

func listEntries(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Println(string(body))
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var page struct {
		Entries []entryRow `json:"entries"`
		Total   int64      `json:"total"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("%-28s %-32s %-12s %-12s %12s %-20s\n", "ID", "DESCRIPTION", "CATEGORY", "DUE", "AMOUNT", "STATUS")
	for _, e := range page.Entries {
		fmt.Printf("%-28s %-32s %-12s %-12s %12s %-20s\n",
			e.ID, truncate(e.Description, 32), truncate(e.Category, 12), e.DueDate, e.Amount, e.Status)
	}
	fmt.Printf("Total: %d\n", page.Total)

	return nil
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return render(resp)
}

func postJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", strings.NewReader("{}"))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return render(resp)
}

func render(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		printJSON(decoded)
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	printJSON(decoded)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
