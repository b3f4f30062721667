package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/BurntSushi/toml"
	"github.com/aellingwood/pager/internal/pagination"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// pageState is the printable form of a computed page state.
type pageState struct {
	TotalItems       int `yaml:"total_items"        toml:"total_items"`
	ItemsPerPage     int `yaml:"items_per_page"     toml:"items_per_page"`
	TotalPages       int `yaml:"total_pages"        toml:"total_pages"`
	CurrentPage      int `yaml:"current_page"       toml:"current_page"`
	CurrentFirstItem int `yaml:"current_first_item" toml:"current_first_item"`
	CurrentLastItem  int `yaml:"current_last_item"  toml:"current_last_item"`
	PreviousPage     int `yaml:"previous_page"      toml:"previous_page"`
	NextPage         int `yaml:"next_page"          toml:"next_page"`
	FirstPage        int `yaml:"first_page"         toml:"first_page"`
	LastPage         int `yaml:"last_page"          toml:"last_page"`
	Offset           int `yaml:"offset"             toml:"offset"`
}

func newPageState(p *pagination.Pagination) pageState {
	return pageState{
		TotalItems:       p.TotalItems(),
		ItemsPerPage:     p.ItemsPerPage(),
		TotalPages:       p.TotalPages(),
		CurrentPage:      p.CurrentPage(),
		CurrentFirstItem: p.CurrentFirstItem(),
		CurrentLastItem:  p.CurrentLastItem(),
		PreviousPage:     p.PreviousPage(),
		NextPage:         p.NextPage(),
		FirstPage:        p.FirstPage(),
		LastPage:         p.LastPage(),
		Offset:           p.Offset(),
	}
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute the page state for a result set",
	Long: "Compute the page count, item range, offset, and neighbouring pages for " +
		"the given total and page. Absent pages print as 0 in yaml and toml output.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		p, err := newPagination(cmd, pagination.Options{}, pageOverrides(cmd))
		if err != nil {
			return err
		}
		if err := applyPage(cmd, p); err != nil {
			return err
		}
		return writeFormatted(cmd.OutOrStdout(), format, newPageState(p), func(w io.Writer) error {
			return writeStateText(w, p)
		})
	},
}

func init() {
	addPageFlags(calcCmd)
	calcCmd.Flags().String("format", "text", "output format (text, yaml, toml)")
	rootCmd.AddCommand(calcCmd)
}

func writeStateText(w io.Writer, p *pagination.Pagination) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		value string
	}{
		{"Total items", fmt.Sprint(p.TotalItems())},
		{"Items per page", fmt.Sprint(p.ItemsPerPage())},
		{"Total pages", fmt.Sprint(p.TotalPages())},
		{"Current page", fmt.Sprint(p.CurrentPage())},
		{"Items", fmt.Sprintf("%d-%d", p.CurrentFirstItem(), p.CurrentLastItem())},
		{"Offset", fmt.Sprint(p.Offset())},
		{"Previous page", pageOrDash(p.PreviousPage())},
		{"Next page", pageOrDash(p.NextPage())},
		{"First page", pageOrDash(p.FirstPage())},
		{"Last page", pageOrDash(p.LastPage())},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r.label, r.value)
	}
	return tw.Flush()
}

func pageOrDash(n int) string {
	if n == pagination.None {
		return "-"
	}
	return fmt.Sprint(n)
}

// writeFormatted writes v as yaml or toml, or calls text for the text format.
func writeFormatted(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case "", "text":
		return text(w)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, yaml, or toml)", format)
	}
}
