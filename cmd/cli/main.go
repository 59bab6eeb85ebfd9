package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

// swapped out in tests
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "contas-cli",
		Short: "Contas CLI tool",
		Long:  `A command line interface for interacting with the Contas API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Contas API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup operations",
	}
	backupCmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Download a full snapshot to a file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			exportBackup(args[0])
		},
	})
	backupCmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Restore a snapshot from a file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			importBackup(args[0])
		},
	})
	rootCmd.AddCommand(backupCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reporting operations",
	}
	reportCmd.AddCommand(&cobra.Command{
		Use:   "open-accounts",
		Short: "List everything still to be collected",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/reports/open-accounts")
		},
	})
	reportCmd.AddCommand(&cobra.Command{
		Use:   "received <year>",
		Short: "Monthly received totals for a year",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := strconv.Atoi(args[0]); err != nil {
				fmt.Printf("year must be numeric: %s\n", args[0])
				os.Exit(1)
			}
			getJSON("/api/v1/reports/received/" + args[0])
		},
	})
	reportCmd.AddCommand(&cobra.Command{
		Use:   "forecast",
		Short: "Expected inflows for the next twelve months",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/reports/forecast")
		},
	})
	rootCmd.AddCommand(reportCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password for seeding users directly in the database",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			hashPassword(args[0])
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func doRequest(method, path string, body io.Reader) []byte {
	client := &http.Client{Timeout: timeout}
	req, err := newRequest(method, path, body)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, truncate(string(raw), 500))
		os.Exit(1)
	}
	return raw
}

func getJSON(path string) {
	raw := doRequest(http.MethodGet, path, nil)

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	printJSON(decoded)
}

func exportBackup(file string) {
	raw := doRequest(http.MethodGet, "/api/v1/backup", nil)
	if err := os.WriteFile(file, raw, 0o600); err != nil {
		fmt.Printf("Failed to write %s: %v\n", file, err)
		os.Exit(1)
	}
	fmt.Printf("Backup written to %s (%d bytes)\n", file, len(raw))
}

func importBackup(file string) {
	raw, err := os.ReadFile(file)
	if err != nil {
		fmt.Printf("Failed to read %s: %v\n", file, err)
		os.Exit(1)
	}

	resp := doRequest(http.MethodPost, "/api/v1/backup", bytes.NewReader(raw))

	var counts map[string]any
	if err := json.Unmarshal(resp, &counts); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Import complete")
	printJSON(counts)
}

func hashPassword(password string) {
	hash, err := bcryptGenerate([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
