package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/pnlhub/account"
	"github.com/rustyeddy/pnlhub/config"
	"github.com/rustyeddy/pnlhub/desk"
	"github.com/rustyeddy/pnlhub/pkg/logger"
	"github.com/rustyeddy/pnlhub/store"
)

var rootCmd = &cobra.Command{
	Use:   "pnlhub",
	Short: "Funded trader account desk",
	Long: `pnlhub tracks funded trading accounts: daily PnL entries, balances,
KYC, withdrawals and passing certificates.

The same store backs the HTTP API (pnlhub serve) and the admin commands,
so an admin can record PnL or issue certificates from the shell.

Configuration is read from --config (YAML or JSON), then .env, then
PNLHUB_* environment variables.`,
	SilenceUsage: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
}

// app is the wiring every command that touches accounts needs.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store store.Store
	desk  *desk.Service
}

func openApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Store.Type, cfg.Store.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	svc := desk.New(desk.Options{
		Users:        st,
		Certificates: st,
		Location:     loc,
		Log:          log,
	})
	return &app{cfg: cfg, log: log, store: st, desk: svc}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// resolve finds an account by ID, or by email when ref contains "@".
func (a *app) resolve(cmd *cobra.Command, ref string) (account.Account, error) {
	ctx := cmd.Context()
	if strings.Contains(ref, "@") {
		return a.desk.FindAccount(ctx, ref)
	}
	return a.desk.GetAccount(ctx, ref)
}
