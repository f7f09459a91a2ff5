package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarpova/voyagerui/internal/auth"
	"github.com/mkarpova/voyagerui/internal/chat"
	"github.com/mkarpova/voyagerui/internal/session"
	"github.com/mkarpova/voyagerui/internal/ui"
	"github.com/mkarpova/voyagerui/storage"
)

// runChat wires the controller and drives the chat screen, bouncing back
// to the login form whenever the session expires mid-run.
func runChat(ctx context.Context, a *app) error {
	db, err := storage.NewSqliteDB(a.cfg.HistoryDB())
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer db.Close()

	history, err := storage.NewHistory(db)
	if err != nil {
		return err
	}
	ctrl := chat.NewController(a.client, chat.WithHistory(history))

	for {
		identity, ok := a.store.Identity()
		if !ok || !a.store.IsAuthenticated() {
			identity, err = auth.RunLogin(ctx, a.client)
			if err != nil {
				return err
			}
		}

		err = ui.Run(ctx, ctrl, identity.DisplayName(), a.expiryCh)
		if errors.Is(err, ui.ErrSessionExpired) {
			fmt.Println("Your session expired, please sign in again.")
			continue
		}
		return err
	}
}

func requireAuth(a *app) error {
	if !a.store.IsAuthenticated() {
		return errors.New("not logged in, run `voyagerui login` first")
	}
	return nil
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := auth.RunLogin(cmd.Context(), a.client)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", identity.DisplayName())
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := auth.RunRegister(cmd.Context(), a.client)
			if err != nil {
				return err
			}
			fmt.Printf("Welcome, %s\n", identity.DisplayName())
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			identity, err := a.client.Me(cmd.Context())
			if err != nil {
				var cached session.Identity
				var ok bool
				if cached, ok = a.store.Identity(); !ok {
					return err
				}
				identity = cached
			}
			fmt.Printf("%s <%s>\n", identity.DisplayName(), identity.Email)
			return nil
		},
	}
}

func newSessionsCmd(a *app) *cobra.Command {
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Manage conversations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List conversations grouped by recency",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			conversations, err := a.client.ListConversations(cmd.Context())
			if err != nil {
				return err
			}
			if len(conversations) == 0 {
				fmt.Println("No conversations yet")
				return nil
			}
			groups := chat.GroupByRecency(conversations, time.Now())
			for _, bucket := range chat.Buckets {
				items := groups[bucket]
				if len(items) == 0 {
					continue
				}
				fmt.Println(bucket)
				for _, c := range items {
					fmt.Printf("  %s  %s\n", c.ID, c.DisplayTitle())
				}
			}
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Retitle a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			updated, err := a.client.RenameConversation(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Renamed to %q\n", updated.DisplayTitle())
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			if err := a.client.DeleteConversation(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted")
			return nil
		},
	}

	sessions.AddCommand(list, rename, del)
	return sessions
}

func newDestinationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "destinations [query]",
		Short: "List travel destinations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			destinations, err := a.client.Destinations(cmd.Context(), query)
			if err != nil {
				return err
			}
			for _, d := range destinations {
				fmt.Printf("%s  %s, %s\n", d.ID, d.Name, d.State)
			}
			return nil
		},
	}
}

func newRecommendationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recommendations",
		Short: "Destinations picked for you",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			destinations, err := a.client.Recommendations(cmd.Context())
			if err != nil {
				return err
			}
			if len(destinations) == 0 {
				fmt.Println("No recommendations yet, chat a bit first")
				return nil
			}
			for _, d := range destinations {
				fmt.Printf("%s  %s, %s\n", d.ID, d.Name, d.State)
			}
			return nil
		},
	}
}

func newWeatherCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weather <destination-id>",
		Short: "Current weather for a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			report, err := a.client.Weather(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s, %s: %.1f°C, %s\n",
				report.Destination.Name, report.Destination.State,
				report.Weather.Temperature, report.Weather.Condition)
			if report.TravelAdvice != "" {
				fmt.Println(report.TravelAdvice)
			}
			return nil
		},
	}
}
