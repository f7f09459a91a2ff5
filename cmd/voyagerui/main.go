package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mkarpova/voyagerui/internal/api"
	"github.com/mkarpova/voyagerui/internal/config"
	"github.com/mkarpova/voyagerui/internal/logging"
	"github.com/mkarpova/voyagerui/internal/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries the wiring shared by every command: configuration, the
// persisted session and the request pipeline.
type app struct {
	cfg      *config.Config
	store    *session.Store
	client   *api.Client
	expiryCh chan struct{}
}

func (a *app) setup() error {
	godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogFile(), cfg.Debug)

	store := session.NewStore(cfg.SessionFile())
	if err := store.Load(); err != nil {
		return err
	}

	a.cfg = cfg
	a.store = store
	a.expiryCh = make(chan struct{}, 1)
	a.client = api.NewClient(cfg, store, api.WithUnauthorizedHook(func() {
		select {
		case a.expiryCh <- struct{}{}:
		default:
		}
	}))
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "voyagerui",
		Short:        "Terminal chat client for the travel assistant",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), a)
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newSessionsCmd(a),
		newDestinationsCmd(a),
		newRecommendationsCmd(a),
		newWeatherCmd(a),
	)
	return root
}
