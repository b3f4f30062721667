package main

import (
	"fmt"

	"github.com/aellingwood/pager/internal/pagination"
	"github.com/aellingwood/pager/internal/request"
	tmpl "github.com/aellingwood/pager/internal/template"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a pagination view",
	Long: "Render the pagination markup for a result set. Views are looked up in " +
		"--views first and then among the built-in views (pagination/basic, " +
		"pagination/simple). A hidden pagination prints nothing.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, _ := cmd.Flags().GetString("view")
		viewDir, _ := cmd.Flags().GetString("views")
		rawURL, _ := cmd.Flags().GetString("url")

		engine, err := tmpl.NewEngine(viewDir)
		if err != nil {
			return err
		}
		req, err := request.Parse(rawURL, "")
		if err != nil {
			return err
		}

		p, err := newPagination(cmd, pagination.Options{Request: req, Renderer: engine}, pageOverrides(cmd))
		if err != nil {
			return err
		}
		if err := applyPage(cmd, p); err != nil {
			return err
		}
		out, err := p.Render(view)
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func init() {
	addPageFlags(renderCmd)
	renderCmd.Flags().String("view", "", "view to render (default: the configured view)")
	renderCmd.Flags().String("views", "", "directory of views overriding the built-in ones")
	renderCmd.Flags().String("url", "/", "request URL used to build page links")
	rootCmd.AddCommand(renderCmd)
}
