package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ultrapreps/visionqa/internal/infrastructure/cache"
	"github.com/ultrapreps/visionqa/internal/infrastructure/config"
	"github.com/ultrapreps/visionqa/internal/infrastructure/messaging"
	"github.com/ultrapreps/visionqa/internal/infrastructure/wiring"
	infraai "github.com/ultrapreps/visionqa/pkg/ai"
	"github.com/ultrapreps/visionqa/pkg/storage"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of the VisionQA environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "Running VisionQA Doctor...")

		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)

		hasIssues := false
		check := func(name string, fn func() (string, error)) {
			_, _ = fmt.Fprintf(out, "Checking %s... ", name)
			note, err := fn()
			switch {
			case err != nil:
				_, _ = fmt.Fprintf(out, "%s\n  Error: %v\n", failStyle.Render("FAIL"), err)
				hasIssues = true
			case note != "":
				_, _ = fmt.Fprintf(out, "%s %s\n", passStyle.Render("PASS"), mutedStyle.Render("("+note+")"))
			default:
				_, _ = fmt.Fprintf(out, "%s\n", passStyle.Render("PASS"))
			}
		}

		var cfg *config.Config
		check("Config File", func() (string, error) {
			cfg, err = config.LoadOrDefault(root)
			if err != nil {
				cfg = &config.Config{}
				return "", err
			}
			if !repo.IsInitialized() {
				return "defaults, no .visionqa directory yet", nil
			}
			return "", nil
		})

		check("Vision Backend", func() (string, error) {
			name := cfg.Provider
			if env := os.Getenv("VISIONQA_AI_PROVIDER"); env != "" {
				name = env
			}
			if name == wiring.ProviderPlugin {
				if cfg.PluginPath == "" {
					return "", fmt.Errorf("provider is plugin but plugin_path is unset")
				}
				return "plugin " + cfg.PluginPath, nil
			}
			p, err := infraai.GetDefaultProvider(cfg.Provider, cfg.Model)
			if err != nil {
				return "", err
			}
			if p == nil {
				return "none configured, simulated scoring", nil
			}
			return p.ID(), nil
		})

		if cfg.Cache.Addr != "" {
			check("Response Cache", func() (string, error) {
				rc := cache.NewResponseCache(cache.Options{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
				defer rc.Close() //nolint:errcheck // best-effort close
				ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
				defer cancel()
				if err := rc.Ping(ctx); err != nil {
					return "", fmt.Errorf("redis at %s: %w", cfg.Cache.Addr, err)
				}
				return cfg.Cache.Addr, nil
			})
		}

		check("Messaging Adapters", func() (string, error) {
			dl := messaging.NewDeadLetterStore(filepath.Join(root, storage.VisionQADir, storage.DeadLetterFile))
			registry, err := messaging.NewRegistry(cfg.Messaging, dl)
			if err != nil {
				return "", err
			}
			defer registry.Close()
			letters, err := dl.ReadAll()
			if err != nil {
				return "", err
			}
			if len(letters) > 0 {
				return "", fmt.Errorf("%d undelivered event(s) in %s", len(letters), storage.DeadLetterFile)
			}
			return fmt.Sprintf("%d configured", len(registry.Adapters())), nil
		})

		check("Plugins", func() (string, error) {
			svc, err := pluginService()
			if err != nil {
				return "", err
			}
			plugins, err := svc.ListPlugins()
			if err != nil {
				return "", err
			}
			for _, p := range plugins {
				if p.Status != "available" {
					return "", fmt.Errorf("plugin %q binary is missing: %s", p.Name, p.Binary)
				}
			}
			return fmt.Sprintf("%d registered", len(plugins)), nil
		})

		check("Review Records", func() (string, error) {
			book, err := repo.LoadReviews()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d asset(s)", len(book.Records)), nil
		})

		check("Batch Reports", func() (string, error) {
			path, err := repo.ResolvePath(storage.ReportsFile)
			if err != nil {
				return "", err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return "none yet", nil
			}
			reports, err := repo.LoadReports()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d run(s)", len(reports)), nil
		})

		if hasIssues {
			_, _ = fmt.Fprintln(out, "\nIssues found! Please fix them before continuing.")
			return fmt.Errorf("doctor found issues")
		}
		_, _ = fmt.Fprintln(out, "\nEverything looks good!")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
