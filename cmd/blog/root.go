package main

import (
	"errors"
	"fmt"
	"strings"

	blog "github.com/goliatone/go-blog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	appConfig blog.Config
)

var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "Markdown blog engine and static site builder",
	Long: `blog loads a directory of markdown posts with YAML frontmatter,
validates and renders them, and can export the whole site as static
HTML together with an RSS feed, sitemap, and robots.txt.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./blog.yaml)")
}

func initializeConfig() error {
	v := viper.New()

	defaults := blog.DefaultConfig()
	v.SetDefault("content.postsdir", defaults.Content.PostsDir)
	v.SetDefault("content.pattern", defaults.Content.Pattern)
	v.SetDefault("content.includedrafts", defaults.Content.IncludeDrafts)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.defaultttl", defaults.Cache.DefaultTTL)
	v.SetDefault("pagination.itemsperpage", defaults.Pagination.ItemsPerPage)
	v.SetDefault("search.cachettl", defaults.Search.CacheTTL)
	v.SetDefault("generator.outputdir", defaults.Generator.OutputDir)
	v.SetDefault("generator.baseurl", defaults.Generator.BaseURL)
	v.SetDefault("generator.cleanbuild", defaults.Generator.CleanBuild)
	v.SetDefault("generator.generatesitemap", defaults.Generator.GenerateSitemap)
	v.SetDefault("generator.generaterobots", defaults.Generator.GenerateRobots)
	v.SetDefault("generator.generatefeed", defaults.Generator.GenerateFeed)
	v.SetDefault("logging.provider", defaults.Logging.Provider)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("blog")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	appConfig = defaults
	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	appConfig.Features.Logger = true
	return nil
}
