package main

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"

	handlers "github.com/de-tools/status-atlas/pkg/handlers/report"
	"github.com/de-tools/status-atlas/pkg/server"
	"github.com/de-tools/status-atlas/pkg/services/calendar"
	"github.com/de-tools/status-atlas/pkg/services/config"
	"github.com/de-tools/status-atlas/pkg/store/tracker"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	settingsPath string
	profilesPath string
	profileName  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Status Atlas report server",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultProfiles := ""
	if usr != nil {
		defaultProfiles = filepath.Join(usr.HomeDir, ".statusatlascfg")
	}

	rootCmd.Flags().StringVarP(&settingsPath, "config", "c", "",
		"Path to the settings file (defaults apply when omitted)")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", defaultProfiles,
		"Path to the tracker credentials file (default is $HOME/.statusatlascfg)")
	rootCmd.Flags().StringVar(&profileName, "profile", "default",
		"Tracker credential profile to use")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cal, err := calendar.New(settings.Calendar.Timezone, settings.Calendar.StartHour, settings.Calendar.EndHour)
	if err != nil {
		return fmt.Errorf("failed to build work calendar: %w", err)
	}

	baseURL := settings.Tracker.BaseURL
	defaultCookie := ""
	if registry, err := config.NewRegistry(profilesPath); err == nil {
		name := settings.Tracker.Profile
		if name == "" {
			name = profileName
		}
		prof, err := registry.GetProfile(ctx, name)
		if err != nil {
			logger.Warn().Err(err).Str("profile", name).Msg("credential profile not found")
		} else {
			defaultCookie = prof.SessionCookie
			if prof.Host != "" {
				baseURL = prof.Host
			}
			logger.Info().Str("profile", prof.Name).Msg("loaded tracker credentials")
		}
	}

	reportDir, err := os.MkdirTemp("", "status-atlas-reports-*")
	if err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	factory := func(sessionCookie string) handlers.Tracker {
		if sessionCookie == "" {
			sessionCookie = defaultCookie
		}
		return tracker.NewClient(baseURL, sessionCookie)
	}

	addr := net.JoinHostPort(settings.Server.Host, settings.Server.Port)
	logger.Info().
		Str("tracker", baseURL).
		Str("timezone", settings.Calendar.Timezone).
		Msgf("working window %02d:00-%02d:00", settings.Calendar.StartHour, settings.Calendar.EndHour)

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:           addr,
		AllowedOrigins: settings.Server.AllowedOrigins,
		Dependencies: server.Dependencies{
			Reports: handlers.NewHandler(cal, factory, reportDir),
		},
	})

	return webAPI.Start()
}
