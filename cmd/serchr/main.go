package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/lib/pq"

	"github.com/devraulu/serchr/pkg/browser"
	"github.com/devraulu/serchr/pkg/config"
	"github.com/devraulu/serchr/pkg/logger"
)

var (
	cfgPath  string
	headless bool
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "serchr",
	Short: "Browser-driven multi-engine web search",
	Long: `serchr drives a real browser against google, bing and duckduckgo,
parses result listings out of the rendered pages, scores results by
recency and can fan a research topic out into many parallel searches
merged into one deduplicated list.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("headless") {
			cfg.Browser.Headless = headless
		}
		logger.InitLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.toml",
		"Path to TOML configuration file")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true,
		"Run the browser headless")
}

func browserConfig() browser.Config {
	return browser.Config{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.GetTimeout(),
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		UserAgent:      cfg.Browser.UserAgent,
		MinDelay:       cfg.Search.GetMinDelay(),
		MaxDelay:       cfg.Search.GetMaxDelay(),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
