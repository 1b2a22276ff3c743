// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Sign-in management from the command line.
//
// Command: auth [subcommand]
// Short:   Sign-in management
//
// Subcommands:
//   status (default)    Show the current session
//   login [email]       Sign in (password prompted, never echoed)
//   logout              Sign out and clear the cached session
//   whoami              Alias for status
//
// Examples:
//   jetayu auth                      Show status
//   jetayu auth status --json        Status in JSON format
//   jetayu auth login ava@example.com
//   jetayu auth logout

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"
)

// HandleAuth dispatches the auth subcommands.
func HandleAuth(args Args) error {
	app, err := BuildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	switch args.Parser.Subcommand() {
	case "", "status", "whoami":
		return authStatus(app, args.JSON)
	case "login":
		return authLogin(app, args.Parser.Arg(1))
	case "logout":
		return authLogout(app)
	default:
		return fmt.Errorf("unknown auth subcommand %q (status, login, logout)", args.Parser.Subcommand())
	}
}

// authStatus prints the current session.
func authStatus(app *App, asJSON bool) error {
	sess := app.Identity.CurrentSession()
	signedIn := sess != nil && sess.IsValid()

	if asJSON {
		out := map[string]any{
			"signed_in":  signedIn,
			"configured": app.Identity.IsConfigured(),
		}
		if signedIn {
			out["email"] = sess.Email
			out["full_name"] = sess.FullName
			out["expires_in_seconds"] = int(sess.TimeRemaining().Seconds())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if !app.Identity.IsConfigured() {
		fmt.Println(warnStyle.Render("Sign-in is not configured."))
		fmt.Println(infoStyle.Render("Set the provider with: jetayu config set identity.url <url>"))
		return nil
	}

	if !signedIn {
		fmt.Println(infoStyle.Render("Not signed in. Run: jetayu auth login"))
		return nil
	}

	fmt.Println(promptStyle.Render("Signed in"))
	fmt.Printf("  Email      %s\n", sess.Email)
	if sess.FullName != "" {
		fmt.Printf("  Name       %s\n", sess.FullName)
	}
	fmt.Printf("  Expires in %s\n", sess.TimeRemaining().Round(time.Minute))
	return nil
}

// authLogin prompts for credentials and signs in.
func authLogin(app *App, email string) error {
	if !app.Identity.IsConfigured() {
		return fmt.Errorf("sign-in is not configured; set identity.url first")
	}

	if email == "" {
		fmt.Print("email: ")
		if _, err := fmt.Scanln(&email); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%q does not look like an email address", email)
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

	fmt.Println(promptStyle.Render("Signed in as " + sess.Email))
	return nil
}

// authLogout clears the session.
func authLogout(app *App) error {
	if !app.Identity.IsSignedIn() {
		fmt.Println(infoStyle.Render("Not signed in."))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Identity.SignOut(ctx); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}
	fmt.Println(infoStyle.Render("Signed out."))
	return nil
}

// readPassword reads a password without echoing it.
// SECURITY: the password never appears on screen or in shell history.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := string(raw)
	if password == "" {
		return "", fmt.Errorf("a password is required")
	}
	return password, nil
}
