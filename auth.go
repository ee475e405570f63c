package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/dracoon-go/internal/dracoon"
)

// Login flags, bound in newLoginCmd().
var (
	flagUsername string
	flagCode     string
	flagRefresh  bool
)

var errEmptyCode = errors.New("--code must not be empty")

// Code URL flags, bound in newCodeURLCmd().
var (
	flagScope string
	flagState string
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate, test the connection, and revoke the session",
		Long: `Authenticate with the password flow (--username) or the authorization
code flow (--code), ping the API, optionally refresh the token pair
(--refresh), and finally revoke the access token. Tokens are never
written to disk.

The password is read from ` + envPassword + ` or prompted on the
terminal. Pass --code - to read the authorization code from stdin.`,
		RunE: runLogin,
	}

	cmd.Flags().StringVarP(&flagUsername, "username", "u", "", "user name for the password flow")
	cmd.Flags().StringVar(&flagCode, "code", "", "authorization code from 'code-url' (\"-\" reads stdin)")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "refresh the token pair before disconnecting")
	cmd.MarkFlagsMutuallyExclusive("username", "code")
	cmd.MarkFlagsOneRequired("username", "code")

	return cmd
}

func newCodeURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code-url",
		Short: "Print the URL to open in a browser to obtain an authorization code",
		Args:  cobra.NoArgs,
		RunE:  runCodeURL,
	}

	cmd.Flags().StringVar(&flagScope, "scope", "", "requested scope (default from config)")
	cmd.Flags().StringVar(&flagState, "state", "", "state parameter (default: random)")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ctx = shutdownContext(ctx, logger)

	// An explicit --code "" satisfies the one-required check but names no code.
	if cmd.Flags().Changed("code") && flagCode == "" {
		return errEmptyCode
	}

	grant, err := loginGrant(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	client := newAuthClient(resolvedCfg, logger)
	out := cmd.OutOrStdout()

	logger.Info("login started", slog.String("base_url", resolvedCfg.BaseURL))

	if err := client.Connect(ctx, grant); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	statusf("Login successful.\n")

	if err := printConnection(ctx, client, out); err != nil {
		return disconnectAfter(ctx, client, err)
	}

	if flagRefresh {
		if err := client.Refresh(ctx); err != nil {
			return disconnectAfter(ctx, client, fmt.Errorf("refreshing token: %w", err))
		}

		statusf("Token refreshed.\n")

		if err := printConnection(ctx, client, out); err != nil {
			return disconnectAfter(ctx, client, err)
		}
	}

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting: %w", err)
	}

	logger.Info("logout successful")
	statusf("Disconnected.\n")

	return nil
}

// loginGrant picks the grant from the login flags, prompting for whatever
// secret the flow still needs.
func loginGrant(in io.Reader, prompt io.Writer) (dracoon.Grant, error) {
	if flagCode != "" {
		code := flagCode
		if code == "-" {
			var err error
			if code, err = readLine(in); err != nil {
				return nil, fmt.Errorf("reading authorization code: %w", err)
			}
		}

		return dracoon.AuthCodeGrant{Code: code}, nil
	}

	password, err := readPassword(in, prompt)
	if err != nil {
		return nil, err
	}

	return dracoon.PasswordGrant{Username: flagUsername, Password: password}, nil
}

// printConnection runs the connection test and prints its outcome.
func printConnection(ctx context.Context, client *dracoon.AuthClient, out io.Writer) error {
	ok, err := client.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("testing connection: %w", err)
	}

	fmt.Fprintf(out, "Connected: %t\n", ok)

	return nil
}

// disconnectAfter revokes the session after a failure mid-sequence, so the
// access token does not outlive the command. The cause is returned first.
func disconnectAfter(ctx context.Context, client *dracoon.AuthClient, cause error) error {
	if err := client.Disconnect(ctx); err != nil && !errors.Is(err, dracoon.ErrNotAuthenticated) {
		return errors.Join(cause, fmt.Errorf("disconnecting: %w", err))
	}

	return cause
}

func runCodeURL(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	client := newAuthClient(resolvedCfg, logger)

	scope := resolvedCfg.Scope
	if flagScope != "" {
		scope = flagScope
	}

	state := flagState
	if state == "" {
		state = dracoon.NewState()
	}

	statusf("Open this URL in your browser, then run 'dracoon-go login --code <code>'.\n")
	statusf("Check that the redirect carries state=%s\n", state)
	fmt.Fprintln(cmd.OutOrStdout(), client.CodeURL(scope, state))

	return nil
}
