package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration stored in ~/.pagemedia/config.toml.
Environment variables such as PAGEMEDIA_STORAGE_DSN override the file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a configuration value. Integers, decimals and booleans are stored
typed; anything else is stored as a string.

Example:
  pagemedia config set reconcile.workers 4`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	cfg, err := configService.Get()
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", cfg.Storage.Driver)
	if cfg.Storage.DSN != "" {
		cmd.Printf("  DSN: %s\n", maskDSN(cfg.Storage.DSN))
	}
	if cfg.Storage.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", cfg.Storage.DataDir)
	}
	cmd.Println()

	cmd.Println("[Index]")
	if cfg.Index.Path != "" {
		cmd.Printf("  Path: %s\n", cfg.Index.Path)
	} else {
		cmd.Println("  Path: (default)")
	}
	cmd.Println()

	cmd.Println("[Reconcile]")
	cmd.Printf("  Workers: %d\n", cfg.Reconcile.Workers)
	cmd.Printf("  Folder usage: %s\n", yesNo(cfg.Reconcile.FolderUsage))
	cmd.Printf("  Asset type gate: %s\n", yesNo(cfg.Reconcile.AssetTypeGate))
	cmd.Println()

	cmd.Println("[Queue]")
	cmd.Printf("  Rate: %g/s (burst %d)\n", cfg.Queue.Rate, cfg.Queue.Burst)
	cmd.Printf("  Max attempts: %d\n", cfg.Queue.MaxAttempts)
	cmd.Printf("  Poll interval: %s\n", cfg.Queue.PollInterval)
	cmd.Printf("  Retention: %d\n", cfg.Queue.Retention)
	cmd.Println()

	cmd.Println("[Lock]")
	if cfg.Lock.RedisAddr != "" {
		cmd.Printf("  Redis: %s (ttl %s)\n", cfg.Lock.RedisAddr, cfg.Lock.TTL)
	} else {
		cmd.Println("  Redis: (disabled, in-process locks)")
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errors.New("config service not configured")
	}

	key := strings.TrimSpace(args[0])
	if key == "" {
		return errors.New("key is required")
	}

	value := parseConfigValue(args[1])
	if err := configService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}

// parseConfigValue types a command line value for TOML storage.
func parseConfigValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// maskDSN hides the password of a connection string.
func maskDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return dsn
	}
	return scheme + "://" + user + ":****@" + host
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
