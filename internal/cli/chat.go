// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain readline chat for terminals where the TUI is
// unwelcome: dumb terminals, SSH sessions, scripts driving a pty.
//
// Command: chat
// Short:   Chat with the concierge without a screen takeover
//
// Interactive commands (during chat):
//   /aircraft           Show the current suggestions again
//   /select <name>      Choose an aircraft
//   /back               Return to the previous suggestions
//   /login [email]      Sign in without leaving the chat
//   /whoami             Show the signed-in account
//   /reset              Start a fresh conversation
//   /help               Show these commands
//   /quit               Leave (Ctrl+D works too)

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/mohanraghava-higherself/jetayuV1/internal/api"
	"github.com/mohanraghava-higherself/jetayuV1/internal/config"
	"github.com/mohanraghava-higherself/jetayuV1/internal/conversation"
	"github.com/mohanraghava-higherself/jetayuV1/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Gold).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	warnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	cardNameStyle = lipgloss.NewStyle().
			Foreground(styles.Champagne).
			Bold(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(styles.Gold)
)

// turnTimeout bounds a single conversation turn.
const turnTimeout = 90 * time.Second

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI wraps liner with persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor with history loaded from the config
// directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line, recording non-empty input in history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// ReadLine reads one line without recording history, for form fields.
func (c *ChatCLI) ReadLine(prompt string) (string, error) {
	return c.line.Prompt(prompt)
}

// Close persists history and releases the terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		// SECURITY: history may contain itinerary details; owner-only.
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the plain readline conversation loop.
func HandleChat(args Args) error {
	app, err := BuildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	input := NewChatCLI()
	defer input.Close()

	renderer := newReplyRenderer(app.Config.UI.RenderMarkdown)

	if !args.Quiet {
		fmt.Println(promptStyle.Render("Jetayu") + infoStyle.Render("  private aviation concierge  (/help for commands, /quit to leave)"))
		fmt.Println()
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	app.Controller.StartSession(ctx)
	cancel()
	printLastReply(app.Controller, renderer)

	for {
		text, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C or Ctrl+D both end the session.
			fmt.Println()
			return nil
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			done, err := runChatCommand(app, input, renderer, text)
			if err != nil {
				fmt.Fprintln(os.Stderr, errStyle.Render("[error]")+" "+err.Error())
			}
			if done {
				return nil
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		app.Controller.SendMessage(ctx, text)
		cancel()

		printLastReply(app.Controller, renderer)
		printTurnExtras(app, input, renderer)
	}
}

// runChatCommand executes a slash command. done is true when the loop
// should exit.
func runChatCommand(app *App, input *ChatCLI, renderer *replyRenderer, text string) (done bool, err error) {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))

	switch cmd {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h":
		fmt.Println(infoStyle.Render(`  /aircraft          show the current suggestions again
  /select <name>     choose an aircraft
  /back              return to the previous suggestions
  /login [email]     sign in without leaving the chat
  /whoami            show the signed-in account
  /reset             start a fresh conversation
  /quit              leave`))
		return false, nil

	case "/reset":
		app.Controller.Reset()
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		app.Controller.StartSession(ctx)
		cancel()
		printLastReply(app.Controller, renderer)
		return false, nil

	case "/aircraft":
		snap := app.Controller.Snapshot()
		if !snap.ShowAircraft || len(snap.Candidates) == 0 {
			fmt.Println(infoStyle.Render("No aircraft suggestions yet. Tell me about your trip first."))
			return false, nil
		}
		printAircraft(snap.Candidates, app.Config.UI.ShowPricing)
		return false, nil

	case "/select":
		if arg == "" {
			return false, fmt.Errorf("usage: /select <aircraft name>")
		}
		return false, selectAircraft(app, input, renderer, arg)

	case "/back":
		if !app.Controller.ShowPreviousAircraft() {
			fmt.Println(infoStyle.Render("No earlier suggestions to return to."))
			return false, nil
		}
		snap := app.Controller.Snapshot()
		printAircraft(snap.Candidates, app.Config.UI.ShowPricing)
		return false, nil

	case "/login":
		return false, signInInteractive(app, input, arg)

	case "/whoami":
		if sess := app.Identity.CurrentSession(); sess != nil && sess.IsValid() {
			fmt.Println(infoStyle.Render("Signed in as " + sess.Email))
		} else {
			fmt.Println(infoStyle.Render("Browsing as a guest. Sign in with /login."))
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// selectAircraft resolves a name against the current suggestions and
// confirms it with the backend.
func selectAircraft(app *App, input *ChatCLI, renderer *replyRenderer, name string) error {
	snap := app.Controller.Snapshot()
	var chosen *api.Aircraft
	lower := strings.ToLower(name)
	for i := range snap.Candidates {
		cand := snap.Candidates[i]
		if strings.ToLower(cand.Name) == lower || strings.HasPrefix(strings.ToLower(cand.Name), lower) {
			chosen = &cand
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("no suggestion named %q (see /aircraft)", name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	app.Controller.SendAircraftSelection(ctx, *chosen)
	cancel()

	printLastReply(app.Controller, renderer)
	printTurnExtras(app, input, renderer)
	return nil
}

// =============================================================================
// AUTH INTERLEAVE
// =============================================================================

// printTurnExtras renders whatever the last turn surfaced besides the
// reply text: new suggestions, and the sign-in gate.
func printTurnExtras(app *App, input *ChatCLI, renderer *replyRenderer) {
	snap := app.Controller.Snapshot()

	if snap.ShowAircraft && len(snap.Candidates) > 0 {
		printAircraft(snap.Candidates, app.Config.UI.ShowPricing)
	}

	if app.Controller.GateIsPending() {
		fmt.Println(warnStyle.Render("Sign in to confirm the booking. Your itinerary is kept."))
		if err := signInInteractive(app, input, ""); err != nil {
			fmt.Println(infoStyle.Render("Continuing as a guest. Sign in any time with /login."))
			app.Controller.DismissAuthPrompt()
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		_, resumed := app.Controller.ResumeAfterAuth(ctx)
		cancel()
		if resumed {
			printLastReply(app.Controller, renderer)
		}
	}
}

// signInInteractive prompts for credentials and signs in.
func signInInteractive(app *App, input *ChatCLI, email string) error {
	if !app.Identity.IsConfigured() {
		return fmt.Errorf("sign-in is not configured; set identity.url with: jetayu config set identity.url <url>")
	}

	var err error
	if email == "" {
		email, err = input.ReadLine("email: ")
		if err != nil {
			return err
		}
		email = strings.TrimSpace(email)
	}
	if email == "" {
		return fmt.Errorf("an email address is required")
	}

	password, err := readPassword("password: ")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sess, err := app.Identity.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	fmt.Println(infoStyle.Render("Signed in as " + sess.Email))
	return nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// replyRenderer renders concierge replies, optionally through glamour.
type replyRenderer struct {
	renderer *glamour.TermRenderer
}

func newReplyRenderer(markdown bool) *replyRenderer {
	r := &replyRenderer{}
	if markdown {
		if tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(76),
		); err == nil {
			r.renderer = tr
		}
	}
	return r
}

func (r *replyRenderer) render(text string) string {
	if r.renderer != nil {
		if out, err := r.renderer.Render(text); err == nil {
			return strings.TrimRight(out, "\n") + "\n"
		}
	}
	return text + "\n"
}

// printLastReply prints the newest concierge message.
func printLastReply(ctrl *conversation.Controller, renderer *replyRenderer) {
	snap := ctrl.Snapshot()
	for i := len(snap.Messages) - 1; i >= 0; i-- {
		if snap.Messages[i].IsAssistant() {
			fmt.Println(renderer.render(snap.Messages[i].Content))
			return
		}
	}
}

// printAircraft renders the suggestion list as plain text.
func printAircraft(list []api.Aircraft, showPricing bool) {
	fmt.Println(cardNameStyle.Render("Suggested aircraft"))
	for _, a := range list {
		line := fmt.Sprintf("  %-24s %-12s %2d seats  %5d nm",
			a.Name, a.Category, a.Capacity, a.RangeNM)
		fmt.Println(line)
		if showPricing && a.Pricing != nil {
			fmt.Println(priceStyle.Render(fmt.Sprintf("    est. %s %.0f - %.0f",
				a.Pricing.Currency, a.Pricing.EstimateLow, a.Pricing.EstimateHigh)))
		}
	}
	fmt.Println(infoStyle.Render("  choose with /select <name>"))
}
