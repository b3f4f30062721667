package main

import (
	"fmt"
	"strings"

	"github.com/aellingwood/pager/internal/pagination"
	"github.com/aellingwood/pager/internal/request"
	"github.com/spf13/cobra"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print the truncated page list",
	Long: "Print the page links that a pagination view would show. Hidden runs of " +
		"pages print as \"...\" and the current page is bracketed. With --url each " +
		"visible page is printed on its own line followed by its URL.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawURL, _ := cmd.Flags().GetString("url")

		var opts pagination.Options
		if rawURL != "" {
			req, err := request.Parse(rawURL, "")
			if err != nil {
				return err
			}
			opts.Request = req
		}

		p, err := newPagination(cmd, opts, pageOverrides(cmd))
		if err != nil {
			return err
		}
		if err := applyPage(cmd, p); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if rawURL == "" {
			fmt.Fprintln(out, formatLinks(p.Links()))
			return nil
		}
		for _, l := range p.Links() {
			if l.Gap {
				fmt.Fprintln(out, "...")
				continue
			}
			marker := ""
			if l.Current {
				marker = " (current)"
			}
			fmt.Fprintf(out, "%d\t%s%s\n", l.Number, l.URL, marker)
		}
		return nil
	},
}

func init() {
	addPageFlags(linksCmd)
	linksCmd.Flags().String("url", "", "request URL used to build page links")
	rootCmd.AddCommand(linksCmd)
}

// formatLinks renders links on one line, e.g. "1 2 ... 7 8 9 [10] 11".
func formatLinks(links []pagination.Link) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch {
		case l.Gap:
			parts = append(parts, "...")
		case l.Current:
			parts = append(parts, fmt.Sprintf("[%d]", l.Number))
		default:
			parts = append(parts, fmt.Sprint(l.Number))
		}
	}
	return strings.Join(parts, " ")
}
