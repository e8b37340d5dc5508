// Package tui implements the terminal user interface for the POC portal client.
//
// This package provides an interactive, full-screen TUI for initiating and
// managing POCs against the portal backend. Built using the Bubble Tea
// framework, it follows the Elm architecture with immutable state updates and
// a clean Model-Update-View pattern.
//
// # Architecture
//
// The TUI is organized around a coordinator (AppModel) that owns the shared
// session and routes messages to the active screen:
//   - Login: credential prompt, fronting the startup session check
//   - Dashboard: menu of portal actions
//   - Initiation: the multi-section POC initiation form
//   - Code form: POC code creation, doubling as the record edit screen
//   - Table: searchable, paginated POC management table with a detail view
//   - Confirmation: post-save result screen
//
// All screens use a unified container pattern (RenderApplicationContainer)
// for consistent layout with header, content area and context-sensitive footer.
//
// # Framework Components
//
// The TUI leverages Bubble Tea framework components throughout:
//   - bubbles/spinner: Loading indicators
//   - bubbles/textinput: Text entry fields
//   - bubbles/table: The POC management table
//   - bubbles/help: Context-aware help system
//   - lipgloss: Styling and layout
//
// # Sessions and Stale Results
//
// Every async result message carries the login generation it was issued
// under. The coordinator bumps the generation on login and logout and drops
// results from an older generation, so a response that lands after the user
// logged out can never leak into the new session. Any request answered with
// 401 tears the session down and returns to the login screen.
//
// # Usage Example
//
//	app := tui.NewAppModel(client, pageSize, sess)
//	program := tea.NewProgram(app, tea.WithAltScreen())
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
package tui
