package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cine-booking-cli/booking"
	"cine-booking-cli/catalog"
	"cine-booking-cli/config"
	"cine-booking-cli/logger"
	"cine-booking-cli/service"
	"cine-booking-cli/store"
	"cine-booking-cli/tui"
)

const appName = "cine-booking-cli"

var (
	apiURLFlag  string
	envFileFlag string
)

// app is what every command runs against: settings, a logged API client
// seeded with the persisted session, the catalog and the pending slot.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	closer  io.Closer
	client  *service.Client
	catalog *catalog.Static
	slot    *store.FileSlot
}

func newApp() (*app, error) {
	cfg, err := config.Load(envFileFlag)
	if err != nil {
		return nil, err
	}
	if apiURLFlag != "" {
		cfg.APIURL = strings.TrimRight(apiURLFlag, "/")
	}

	a := &app{cfg: cfg, log: logger.Discard(), catalog: catalog.Default()}
	logPath := cfg.LogFile
	if logPath == "" {
		logPath, err = store.CachePath("cine.log")
	}
	if err == nil {
		if log, closer, openErr := logger.OpenFile(logPath, cfg.LogLevel); openErr == nil {
			a.log, a.closer = log, closer
		}
	}

	a.client = service.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout}, a.log)
	if cookies, err := store.LoadCookies(cfg.APIURL); err == nil {
		a.client.SetCookies(cookies)
	} else {
		a.log.Warn("loading session cookies failed", "error", err)
	}

	slot, err := store.PendingSlot()
	if err != nil {
		return nil, err
	}
	a.slot = slot
	return a, nil
}

func (a *app) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// saveSession persists whatever cookies the API left in the jar.
func (a *app) saveSession() {
	if err := store.SaveCookies(a.cfg.APIURL, a.client.Cookies()); err != nil {
		a.log.Warn("saving session cookies failed", "error", err)
	}
}

// requireLogin resolves the identity behind the persisted cookie.
func (a *app) requireLogin(ctx context.Context) error {
	status, err := a.client.CheckAuth(ctx)
	if err != nil {
		return err
	}
	if !status.Authenticated {
		return errors.New("você não está logado; execute `login` primeiro")
	}
	return nil
}

func (a *app) submitter() *booking.Submitter {
	return booking.NewSubmitter(a.client, a.client, a.catalog, a.slot, a.log)
}

// withApp builds the app for a command and maps failures to user messages.
func withApp(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := run(ctx, a, args); err != nil {
			a.log.Warn("command failed", "command", cmd.Name(), "error", err)
			return errors.New(booking.UserMessage(err))
		}
		return nil
	}
}

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Cinema booking from the terminal",
	Long:          `Browse films and sessions, pick seats and buy tickets from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          withApp(runTUI),
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive booking screen",
	RunE:  withApp(runTUI),
}

func runTUI(_ context.Context, a *app, _ []string) error {
	model := tui.New(tui.Deps{
		Client:  a.client,
		Catalog: a.catalog,
		Slot:    a.slot,
		Config:  a.cfg,
		Log:     a.log,
	})
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// Execute runs the command tree and exits non-zero on failure.
func Execute(version string, commit string) {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "booking API base URL (default "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "load settings from this .env file")

	rootCmd.AddCommand(
		tuiCmd,
		filmsCmd,
		showtimesCmd,
		seatsCmd,
		buyCmd,
		loginCmd,
		logoutCmd,
		registerCmd,
		profileCmd,
		passwordCmd,
		purchasesCmd,
		cancelCmd,
		newVersionCmd(version, commit),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd(version string, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			out := fmt.Sprintf("%s %s", appName, version)
			if commit != "none" && commit != "" {
				out += fmt.Sprintf(" (%s)", commit)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		},
	}
}
