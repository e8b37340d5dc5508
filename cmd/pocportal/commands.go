package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
	"github.com/bhujbal-nitin/poc-portal/internal/config"
	"github.com/bhujbal-nitin/poc-portal/internal/session"
	"github.com/bhujbal-nitin/poc-portal/internal/tui"
)

// Command flags
var (
	apiURL         string
	timeoutSeconds int
	outputFormat   string
	forceDelete    bool
)

func init() {
	// Common flags (persistent on root)
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Backend base URL (overrides config and POCPORTAL_API_URL)")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0, "Request timeout in seconds (overrides config)")

	// Add subcommands directly to root
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

// newClient builds the API client from config, environment and flags.
func newClient() (*api.Client, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	baseURL := config.ResolveBaseURL(settings)
	if apiURL != "" {
		baseURL = apiURL
	}

	client := api.NewClient(baseURL)
	timeout := settings.TimeoutSeconds()
	if timeoutSeconds > 0 {
		timeout = timeoutSeconds
	}
	client.SetTimeout(time.Duration(timeout) * time.Second)

	return client, settings, nil
}

// requireSession loads the persisted session or fails with a login hint.
func requireSession() (*session.Session, error) {
	sess, err := session.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !sess.Active() {
		return nil, fmt.Errorf("not logged in. Run 'pocportal login' first")
	}
	return sess, nil
}

// uiCmd launches the interactive TUI
var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive portal UI",
	Long: `Launch the interactive terminal UI for the POC portal.

The UI provides:
- POC initiation with sectioned, validated forms
- POC code creation and editing
- A searchable, paginated management table

This is the recommended way to use the portal for most users.`,
	Example: `  # Launch the UI (default when no command given)
  pocportal
  pocportal ui

  # Point at a different backend
  pocportal ui --api https://portal.example.com`,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	client, settings, err := newClient()
	if err != nil {
		return err
	}

	sess, err := session.Load()
	if err != nil {
		// A corrupt session file shouldn't block the UI; start logged out
		sess = nil
	}

	model := tui.NewAppModel(client, settings.PageSize(), sess)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}

	return nil
}

// loginCmd authenticates and persists the session
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Login to the portal",
	Long: `Authenticate against the portal backend and persist the session.

The password is read from the terminal without echo. The session token is
stored in the user config directory and reused by the UI and the other
subcommands until logout.`,
	Example: `  pocportal login
  pocportal login nitin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	var username string
	if len(args) == 1 {
		username = args[0]
	} else {
		fmt.Print("Username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return fmt.Errorf("password is required")
	}

	resp, err := client.Login(context.Background(), username, string(passwordBytes))
	if err != nil {
		return fmt.Errorf("login failed: %s", api.UserMessage(err))
	}

	if err := session.Save(&session.Session{Token: resp.Token, User: resp.User}); err != nil {
		return fmt.Errorf("login succeeded but session could not be saved: %w", err)
	}

	fmt.Printf("Logged in as %s\n", resp.User.Name())
	return nil
}

// logoutCmd invalidates the session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and discard the saved session",
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	sess, err := session.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !sess.Active() {
		fmt.Println("Not logged in.")
		return nil
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	// Best-effort server-side invalidation; the local session goes either way
	if err := client.Logout(context.Background(), sess.Token); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: server-side logout failed: %s\n", api.UserMessage(err))
	}

	if err := session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Println("Logged out.")
	return nil
}

// listCmd prints the POC records
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List POC records",
	Long: `Fetch and print all POC records.

Output formats:
  detailed - one block per record with all fields (default)
  compact  - one line per record
  json     - raw JSON array for scripting`,
	Example: `  pocportal list
  pocportal list --format compact
  pocportal list --format json | jq '.[].pocId'`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	records, err := client.All(context.Background(), sess.Token)
	if err != nil {
		if api.IsUnauthorized(err) {
			_ = session.Clear()
			return fmt.Errorf("session expired. Run 'pocportal login' again")
		}
		return fmt.Errorf("failed to fetch POCs: %s", api.UserMessage(err))
	}

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}
		fmt.Println(string(data))

	case "compact":
		for _, r := range records {
			fmt.Printf("%-12s %-24s %-18s %-12s %s\n",
				r.PocID, r.PocName, r.EntityName, r.Region, r.Status)
		}
		fmt.Printf("\n%d record(s)\n", len(records))

	case "detailed":
		if len(records) == 0 {
			fmt.Println("No POCs found.")
			return nil
		}
		for i, r := range records {
			if i > 0 {
				fmt.Println()
			}
			printRecord(r)
		}
		fmt.Printf("\n%d record(s)\n", len(records))

	default:
		return fmt.Errorf("unknown format: %s (expected detailed, compact or json)", outputFormat)
	}

	return nil
}

// printRecord prints one record in the detailed format.
func printRecord(r api.POCRecord) {
	fmt.Printf("%s - %s\n", r.PocID, r.PocName)
	fmt.Printf("  Entity:       %s (%s)\n", r.EntityName, r.EntityType)
	fmt.Printf("  Sales Person: %s\n", r.SalesPerson)
	fmt.Printf("  Assigned To:  %s\n", r.AssignedTo)
	fmt.Printf("  Region:       %s\n", r.Region)
	fmt.Printf("  Dates:        %s -> %s\n", r.StartDate, r.EndDate)
	fmt.Printf("  Status:       %s\n", r.Status)
	if r.Tags != "" {
		fmt.Printf("  Tags:         %s\n", r.Tags)
	}
	if r.Description != "" {
		fmt.Printf("  Description:  %s\n", r.Description)
	}
}

// deleteCmd removes one POC record
var deleteCmd = &cobra.Command{
	Use:   "delete <pocId>",
	Short: "Delete a POC record",
	Long: `Delete one POC record by its POC ID.

Asks for confirmation unless --yes is given.`,
	Example: `  pocportal delete POC-42
  pocportal delete POC-42 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&forceDelete, "yes", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	pocID := args[0]

	sess, err := requireSession()
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	if !forceDelete {
		fmt.Printf("Delete POC %s? This cannot be undone. [y/N]: ", pocID)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := client.Delete(context.Background(), sess.Token, pocID); err != nil {
		if api.IsUnauthorized(err) {
			_ = session.Clear()
			return fmt.Errorf("session expired. Run 'pocportal login' again")
		}
		return fmt.Errorf("delete failed: %s", api.UserMessage(err))
	}

	fmt.Printf("Deleted POC %s\n", pocID)
	return nil
}
