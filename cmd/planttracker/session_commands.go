package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"planttracker/internal/config"
	"planttracker/internal/engine"
	"planttracker/internal/services/session"
)

func newSessionCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newLoginCommand(ctx),
		newLogoutCommand(ctx),
		newWhoamiCommand(ctx),
	}
}

func (c *commandContext) sessionClient() (*session.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Backend.Mode == config.BackendLocal {
		return nil, errors.New("the local backend has no sessions; sign-in is only needed with backend.mode = \"remote\"")
	}
	return engine.OpenSession(cfg, c.loggerValue())
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token and confirm it with the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.sessionClient()
			if err != nil {
				return err
			}
			if strings.TrimSpace(token) == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Access token: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				token = strings.TrimSpace(line)
			}
			if err := client.Login(token); err != nil {
				return err
			}
			identity, err := client.Me(cmd.Context())
			if err != nil {
				_ = client.Logout(cmd.Context())
				return fmt.Errorf("token rejected: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", identityLabel(identity))
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token (read from stdin when omitted)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.sessionClient()
			if err != nil {
				return err
			}
			if err := client.Logout(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Backend logout failed: %v\n", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			identity := session.Identity{Subject: engine.LocalSubject}
			if cfg.Backend.Mode != config.BackendLocal {
				client, err := ctx.sessionClient()
				if err != nil {
					return err
				}
				identity, err = client.Me(cmd.Context())
				if err != nil {
					return explainSessionError(err)
				}
			}
			if asJSON {
				return writeJSON(cmd, identity)
			}
			fmt.Fprintln(cmd.OutOrStdout(), identityLabel(identity))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the identity as JSON")
	return cmd
}

func identityLabel(identity session.Identity) string {
	if identity.Email != "" {
		return fmt.Sprintf("%s (%s)", identity.Email, identity.Subject)
	}
	return identity.Subject
}
