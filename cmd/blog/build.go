package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	blog "github.com/goliatone/go-blog"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 200 * time.Millisecond

var watchChanges bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site to the output directory",
	Long: `Build loads every markdown post, renders the index, post, and tag
pages, and writes them with the RSS feed, sitemap, and robots.txt to
the configured output directory. With --watch the posts directory is
monitored and the site rebuilt on change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		cfg.Generator.Enabled = true

		renderer, err := newSiteRenderer(templatesDir)
		if err != nil {
			return err
		}

		module, err := blog.New(cfg, blog.WithRenderer(renderer))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := runBuild(ctx, module); err != nil {
			return err
		}
		if !watchChanges {
			return nil
		}
		return watch(ctx, module, cfg.Content.PostsDir)
	},
}

var templatesDir string

func init() {
	buildCmd.Flags().BoolVar(&watchChanges, "watch", false, "rebuild when the posts directory changes")
	buildCmd.Flags().StringVar(&templatesDir, "templates", "templates", "directory holding index/post/tag templates")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(ctx context.Context, module *blog.Module) error {
	result, err := module.Generator().Build(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("built %d pages (%d artifacts) in %s\n",
		result.PagesBuilt, len(result.Artifacts), result.Duration.Round(time.Millisecond))
	return nil
}

// watch rebuilds on posts directory changes. Events are debounced so an
// editor save (often several writes in quick succession) triggers a single
// rebuild.
func watch(ctx context.Context, module *blog.Module, postsDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(postsDir); err != nil {
		return fmt.Errorf("watch %s: %w", postsDir, err)
	}
	fmt.Printf("watching %s for changes\n", postsDir)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	var rebuild <-chan time.Time
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-signals:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
			rebuild = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case <-rebuild:
			rebuild = nil
			module.Invalidate()
			if err := runBuild(ctx, module); err != nil {
				fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
			}
		}
	}
}
