package main

import (
	"fmt"

	blog "github.com/goliatone/go-blog"
	"github.com/spf13/cobra"
)

var createInput blog.CreatePostInput

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Write a new post into the posts directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		module, err := blog.New(appConfig)
		if err != nil {
			return err
		}

		createInput.Title = args[0]
		post, err := module.Posts().Create(cmd.Context(), createInput)
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", post.Slug, post.Date)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createInput.Slug, "slug", "", "slug override (derived from the title by default)")
	createCmd.Flags().StringVar(&createInput.Date, "date", "", "publication date, YYYY-MM-DD (defaults to today)")
	createCmd.Flags().StringVar(&createInput.Excerpt, "excerpt", "", "short summary used in listings and the feed")
	createCmd.Flags().StringSliceVar(&createInput.Tags, "tag", nil, "tag (repeatable)")
	createCmd.Flags().BoolVar(&createInput.Draft, "draft", false, "mark the post as a draft")
	createCmd.Flags().StringVar(&createInput.Body, "body", "", "post body markdown")
	rootCmd.AddCommand(createCmd)
}
