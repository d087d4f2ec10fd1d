package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change .visionqa/config.yaml",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting and its value",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, key := range config.Keys() {
			value, _ := cfg.Get(key)
			if value == "" {
				value = mutedStyle.Render("(unset)")
			}
			_, _ = fmt.Fprintf(out, "%-20s %s\n", key, value)
		}
		if cfg.Messaging != nil && len(cfg.Messaging.Adapters) > 0 {
			_, _ = fmt.Fprintf(out, "%-20s %d adapter(s), edit config.yaml to change\n", "messaging", len(cfg.Messaging.Adapters))
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		value, err := cfg.Get(args[0])
		if err != nil {
			return mapConfigError(err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Example: `  visionqa config set provider anthropic
  visionqa config set cache.addr localhost:6379
  visionqa config set watch.patterns "heroes/**/*.png,mascots/*.png"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, root, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return mapConfigError(err)
		}
		if err := config.Save(root, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		value, _ := cfg.Get(args[0])
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)
		return err
	},
}

func loadConfig() (*config.Config, string, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadOrDefault(root)
	if err != nil {
		return nil, "", NewCLIError("could not read config", "Fix or remove .visionqa/config.yaml", err)
	}
	return cfg, root, nil
}

func mapConfigError(err error) error {
	if errors.Is(err, config.ErrUnknownKey) {
		return NewCLIError(err.Error(), "Run 'visionqa config list' to see valid keys", nil)
	}
	return err
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	RootCmd.AddCommand(configCmd)
}
