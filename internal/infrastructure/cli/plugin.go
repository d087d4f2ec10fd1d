package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/pkg/application"
)

var (
	pluginDescription string
	pluginJSON        bool
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage external analyzer plugins",
	Long: `Analyzer plugins are executables that serve image analysis over go-plugin.
Register one, then select it as the vision backend:

  visionqa plugin register house ./bin/house-analyzer
  visionqa config set provider plugin
  visionqa config set plugin_path house`,
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered plugins",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := pluginService()
		if err != nil {
			return err
		}
		plugins, err := svc.ListPlugins()
		if err != nil {
			return err
		}
		if pluginJSON {
			return printJSON(cmd.OutOrStdout(), plugins)
		}
		if len(plugins) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No plugins registered.")
			return nil
		}

		columns := []table.Column{
			{Title: "Name", Width: 16},
			{Title: "Status", Width: 9},
			{Title: "Binary", Width: 40},
			{Title: "Description", Width: 30},
		}
		rows := make([]table.Row, 0, len(plugins))
		for _, p := range plugins {
			rows = append(rows, table.Row{p.Name, p.Status, shorten(p.Binary, 40), p.Description})
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), staticTable(columns, rows))
		return nil
	},
}

var pluginRegisterCmd = &cobra.Command{
	Use:   "register <name> <binary-path>",
	Short: "Register an analyzer plugin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := pluginService()
		if err != nil {
			return err
		}
		if err := svc.RegisterPlugin(args[0], args[1], pluginDescription); err != nil {
			return MapError(err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Plugin %q registered: %s\n", args[0], args[1])
		return err
	},
}

var pluginRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"unregister"},
	Short:   "Unregister an analyzer plugin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := pluginService()
		if err != nil {
			return err
		}
		if err := svc.UnregisterPlugin(args[0]); err != nil {
			return MapError(err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Plugin %q unregistered.\n", args[0])
		return err
	},
}

var pluginValidateCmd = &cobra.Command{
	Use:   "validate <name>",
	Short: "Start a registered plugin and check that it answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		result, err := services.Plugins.ValidatePlugin(args[0])
		if err != nil {
			return MapError(err)
		}
		if pluginJSON {
			return printJSON(cmd.OutOrStdout(), result)
		}
		if !result.Valid {
			return NewCLIError(fmt.Sprintf("plugin %q is not usable: %s", result.Name, result.Error), "Rebuild the plugin or register the correct binary", nil)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s plugin %q answered as %q in %s\n", passStyle.Render("OK"), result.Name, result.Analyzer, result.Latency)
		return err
	},
}

// pluginService avoids wiring a vision backend for registry edits.
func pluginService() (*application.PluginService, error) {
	repo, err := workspaceRepo()
	if err != nil {
		return nil, err
	}
	return application.NewPluginService(repo, nil), nil
}

func init() {
	pluginRegisterCmd.Flags().StringVarP(&pluginDescription, "description", "d", "", "What the analyzer does")
	pluginCmd.PersistentFlags().BoolVar(&pluginJSON, "json", false, "Output in JSON format")
	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginRegisterCmd)
	pluginCmd.AddCommand(pluginRemoveCmd)
	pluginCmd.AddCommand(pluginValidateCmd)
	RootCmd.AddCommand(pluginCmd)
}
