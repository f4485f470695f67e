package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/de-tools/status-atlas/pkg/export/excel"
	"github.com/de-tools/status-atlas/pkg/models/api"
	"github.com/de-tools/status-atlas/pkg/models/domain"
	"github.com/de-tools/status-atlas/pkg/models/store"
	"github.com/de-tools/status-atlas/pkg/services/calendar"
	"github.com/de-tools/status-atlas/pkg/services/config"
	"github.com/de-tools/status-atlas/pkg/services/report"
	"github.com/de-tools/status-atlas/pkg/store/tracker"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	itemsPath     string
	outPath       string
	periodFlags   []string
	statusName    string
	baseURL       string
	sessionCookie string
	profilesPath  string
	profileName   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "status-atlas",
		Short: "Generate working-time status reports from tracker history",
		RunE:  runGenerate,
	}

	rootCmd.Flags().StringVarP(&itemsPath, "items", "i", "", "Path to a JSON file with {\"items\": [...]}")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "report.xlsx", "Output workbook path")
	rootCmd.Flags().StringArrayVarP(&periodFlags, "period", "p", nil, "Reporting period as start:end, e.g. 2024-01-01:2024-01-31 (repeatable)")
	rootCmd.Flags().StringVarP(&statusName, "status", "s", report.DefaultTargetStatus, "Status whose working time is counted")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "Tracker base URL (overrides the profile host)")
	rootCmd.Flags().StringVar(&sessionCookie, "session-cookie", "", "Tracker session cookie")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", "", "Path to the tracker credentials file")
	rootCmd.Flags().StringVar(&profileName, "profile", "default", "Tracker credential profile to use")

	_ = rootCmd.MarkFlagRequired("items")
	_ = rootCmd.MarkFlagRequired("period")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	periods, err := parsePeriods(periodFlags)
	if err != nil {
		return err
	}

	items, err := loadItems(itemsPath)
	if err != nil {
		return err
	}

	host := baseURL
	cookie := sessionCookie
	if profilesPath != "" {
		registry, err := config.NewRegistry(profilesPath)
		if err != nil {
			return fmt.Errorf("failed to load credentials file: %w", err)
		}
		prof, err := registry.GetProfile(ctx, profileName)
		if err != nil {
			return err
		}
		if host == "" {
			host = prof.Host
		}
		if cookie == "" {
			cookie = prof.SessionCookie
		}
	}
	if host == "" {
		return fmt.Errorf("no tracker host: pass --base-url or --profiles")
	}

	client := tracker.NewClient(host, cookie)
	agg := report.NewAggregator(calendar.Default(), client)
	groups := agg.Aggregate(ctx, report.Request{
		Items:        items,
		Periods:      periods,
		TargetStatus: statusName,
	})

	if err := excel.Write(report.Build(groups), outPath); err != nil {
		return err
	}

	logger.Info().Str("out", outPath).Int("items", len(items)).Int("periods", len(periods)).Msg("report written")
	return nil
}

func parsePeriods(flags []string) ([]domain.Period, error) {
	if len(flags) == 0 {
		return nil, fmt.Errorf("at least one --period is required")
	}
	periods := make([]domain.Period, 0, len(flags))
	for _, f := range flags {
		start, end, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("invalid period %q, expected start:end", f)
		}
		periods = append(periods, domain.Period{Start: start, End: end})
	}
	return periods, nil
}

func loadItems(path string) ([]store.WorkItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var payload struct {
		Items []api.WorkItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse items file: %w", err)
	}

	items := make([]store.WorkItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, store.WorkItem{
			Key:         item.Key,
			Name:        item.Name,
			WorkspaceID: item.WorkspaceID,
			WorkItemID:  item.WorkItemID,
			Assignee:    store.Assignee{DisplayName: item.Assignee.DisplayName},
		})
	}
	return items, nil
}
