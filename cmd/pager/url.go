package main

import (
	"fmt"

	"github.com/aellingwood/pager/internal/config"
	"github.com/aellingwood/pager/internal/pagination"
	"github.com/aellingwood/pager/internal/request"
	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Build the URL of a page",
	Long: "Build the URL of a page from a request URL. Without --route the page " +
		"number goes into the query string; with --route it is substituted into " +
		"the route pattern, e.g. --route '/articles/page/{page}'.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawURL, _ := cmd.Flags().GetString("url")
		route, _ := cmd.Flags().GetString("route")
		key, _ := cmd.Flags().GetString("key")
		page, _ := cmd.Flags().GetInt("page")

		req, err := request.Parse(rawURL, route)
		if err != nil {
			return err
		}

		overrides := map[string]any{}
		if route != "" || cmd.Flags().Changed("key") {
			source := config.SourceQueryString
			if route != "" {
				source = config.SourceRoute
			}
			overrides[config.KeyCurrentPage] = map[string]any{"source": source, "key": key}
		}
		if cmd.Flags().Changed("first-page-in-url") {
			first, _ := cmd.Flags().GetBool("first-page-in-url")
			overrides[config.KeyFirstPageInURL] = first
		}

		p, err := newPagination(cmd, pagination.Options{Request: req}, overrides)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.URL(page))
		return nil
	},
}

func init() {
	urlCmd.Flags().String("url", "/", "request URL")
	urlCmd.Flags().String("route", "", "route pattern the URL path matches")
	urlCmd.Flags().String("key", "page", "page parameter name")
	urlCmd.Flags().Int("page", 1, "page to link to")
	urlCmd.Flags().Bool("first-page-in-url", false, "keep the page parameter for page 1")
	rootCmd.AddCommand(urlCmd)
}
