package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/internal/infrastructure/config"
	msginfra "github.com/ultrapreps/visionqa/internal/infrastructure/messaging"
	"github.com/ultrapreps/visionqa/pkg/domain/events"
	"github.com/ultrapreps/visionqa/pkg/domain/messaging"
	"github.com/ultrapreps/visionqa/pkg/storage"
)

var (
	messagingJSON    bool
	messagingSecret  string
	messagingFilters []string
)

var messagingCmd = &cobra.Command{
	Use:   "messaging",
	Short: "Manage messaging adapters (webhook, slack, nats)",
}

var messagingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured messaging adapters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		var adapters []messaging.AdapterConfig
		if cfg.Messaging != nil {
			adapters = cfg.Messaging.Adapters
		}
		if messagingJSON {
			return printJSON(cmd.OutOrStdout(), adapters)
		}
		if len(adapters) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No messaging adapters configured.")
			return nil
		}

		columns := []table.Column{
			{Title: "Name", Width: 14},
			{Title: "Type", Width: 8},
			{Title: "Enabled", Width: 7},
			{Title: "URL", Width: 40},
			{Title: "Events", Width: 24},
		}
		rows := make([]table.Row, 0, len(adapters))
		for _, a := range adapters {
			filters := "all"
			if len(a.EventFilters) > 0 {
				filters = fmt.Sprint(a.EventFilters)
			}
			rows = append(rows, table.Row{a.Name, a.Type, fmt.Sprint(a.Enabled), shorten(a.URL, 40), filters})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), staticTable(columns, rows))
		return nil
	},
}

var messagingAddCmd = &cobra.Command{
	Use:   "add <name> <type> <url>",
	Short: "Add a messaging adapter (types: webhook, slack, nats)",
	Example: `  visionqa messaging add ops slack https://hooks.slack.com/services/T000/B000/XXX
  visionqa messaging add pipeline nats nats://localhost:4222 --events asset.regeneration_required`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, adapterType, url := args[0], args[1], args[2]

		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Messaging == nil {
			cfg.Messaging = &messaging.MessagingConfig{}
		}
		for _, a := range cfg.Messaging.Adapters {
			if a.Name == name {
				return NewCLIError(fmt.Sprintf("adapter %q already exists", name), "Pick another name or edit .visionqa/config.yaml", nil)
			}
		}

		adapter := messaging.AdapterConfig{
			Name:         name,
			Type:         adapterType,
			URL:          url,
			Secret:       messagingSecret,
			EventFilters: messagingFilters,
			Enabled:      true,
		}
		// Building a throwaway registry rejects unknown adapter types before saving.
		probe, err := msginfra.NewRegistry(&messaging.MessagingConfig{Adapters: []messaging.AdapterConfig{adapter}}, nil)
		if err != nil {
			return NewCLIError("invalid adapter", "Supported types: webhook, slack, nats", err)
		}
		probe.Close()

		cfg.Messaging.Adapters = append(cfg.Messaging.Adapters, adapter)
		if err := config.Save(root, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s adapter %q -> %s\n", adapterType, name, url)
		return err
	},
}

var messagingTestCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Send a test event to a messaging adapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		var target *messaging.AdapterConfig
		if cfg.Messaging != nil {
			for i, a := range cfg.Messaging.Adapters {
				if a.Name == name {
					target = &cfg.Messaging.Adapters[i]
					break
				}
			}
		}
		if target == nil {
			return NewCLIError(fmt.Sprintf("adapter %q not found", name), "Run 'visionqa messaging list' to see configured adapters", nil)
		}

		single := *target
		single.Enabled = true
		registry, err := msginfra.NewRegistry(&messaging.MessagingConfig{Adapters: []messaging.AdapterConfig{single}}, nil)
		if err != nil {
			return fmt.Errorf("create adapter: %w", err)
		}
		defer registry.Close()

		ping := &events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      "test.ping",
			Subject:   "visionqa-cli",
			Timestamp: time.Now().UTC(),
		}
		for _, adapter := range registry.Adapters() {
			if err := adapter.Send(cmd.Context(), ping); err != nil {
				return NewCLIError(fmt.Sprintf("test event to %q failed", adapter.Name()), "Check the adapter URL and credentials", err)
			}
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Test event sent to adapter %q\n", name)
		return err
	},
}

var messagingDeadLettersCmd = &cobra.Command{
	Use:     "dead-letters",
	Aliases: []string{"dlq"},
	Short:   "Show webhook deliveries that failed after all retries",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		store := msginfra.NewDeadLetterStore(filepath.Join(root, storage.VisionQADir, storage.DeadLetterFile))
		letters, err := store.ReadAll()
		if err != nil {
			return fmt.Errorf("read dead letters: %w", err)
		}
		if messagingJSON {
			return printJSON(cmd.OutOrStdout(), letters)
		}
		if len(letters) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No undelivered events.")
			return nil
		}

		columns := []table.Column{
			{Title: "Time", Width: 16},
			{Title: "Adapter", Width: 14},
			{Title: "Event", Width: 28},
			{Title: "Attempts", Width: 8},
			{Title: "Error", Width: 36},
		}
		rows := make([]table.Row, 0, len(letters))
		for _, dl := range letters {
			rows = append(rows, table.Row{
				dl.Timestamp.Local().Format("2006-01-02 15:04"),
				dl.AdapterName,
				dl.EventType,
				fmt.Sprintf("%d", dl.Attempts),
				dl.Error,
			})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), staticTable(columns, rows))
		return nil
	},
}

func init() {
	messagingAddCmd.Flags().StringVar(&messagingSecret, "secret", "", "HMAC secret for signing webhook payloads")
	messagingAddCmd.Flags().StringSliceVar(&messagingFilters, "events", nil, "Event types to forward (default all)")
	messagingCmd.PersistentFlags().BoolVar(&messagingJSON, "json", false, "Output in JSON format")
	messagingCmd.AddCommand(messagingListCmd)
	messagingCmd.AddCommand(messagingAddCmd)
	messagingCmd.AddCommand(messagingTestCmd)
	messagingCmd.AddCommand(messagingDeadLettersCmd)
	RootCmd.AddCommand(messagingCmd)
}
