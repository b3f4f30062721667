package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aellingwood/pager/internal/config"
	"github.com/aellingwood/pager/internal/pagination"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pager",
	Short: "Pagination calculator, renderer, and preview server",
	Long: "Pager computes page state for result sets of known size, decides which page " +
		"links to show, builds page URLs, and renders pagination views.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; it only supplies database settings.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "pagination.yaml", "path to the pagination group file")
	rootCmd.PersistentFlags().String("group", "", "pagination group to apply on top of the default group")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadGroups reads the group file named by --config. A missing file is only
// an error when --config was given explicitly.
func loadGroups(cmd *cobra.Command) (config.Source, error) {
	flags := cmd.Root().PersistentFlags()
	path, _ := flags.GetString("config")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !flags.Changed("config") {
			return nil, nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}

	file, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "using %s (groups: %v)\n", file.Path(), file.Names())
	}
	return file, nil
}

// newPagination builds a Pagination from the group file, the --group flag,
// and overrides, and validates the resulting settings.
func newPagination(cmd *cobra.Command, opts pagination.Options, overrides map[string]any) (*pagination.Pagination, error) {
	groups, err := loadGroups(cmd)
	if err != nil {
		return nil, err
	}
	opts.Groups = groups

	if overrides == nil {
		overrides = map[string]any{}
	}
	if group, _ := cmd.Root().PersistentFlags().GetString("group"); group != "" {
		overrides[config.KeyGroup] = group
	}

	p, err := pagination.New(opts, overrides)
	if err != nil {
		return nil, err
	}
	settings := p.Settings()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// pageOverrides converts the --total and --per-page flags to option
// overrides. Flags left at their defaults do not override the group.
func pageOverrides(cmd *cobra.Command) map[string]any {
	overrides := map[string]any{}
	if cmd.Flags().Changed("total") {
		total, _ := cmd.Flags().GetInt("total")
		overrides[config.KeyTotalItems] = total
	}
	if cmd.Flags().Changed("per-page") {
		perPage, _ := cmd.Flags().GetInt("per-page")
		overrides[config.KeyItemsPerPage] = perPage
	}
	return overrides
}

// applyPage pins the current page to --page when it was given. current_page
// is replaced as a whole, so the configured source and key are carried over.
func applyPage(cmd *cobra.Command, p *pagination.Pagination) error {
	if !cmd.Flags().Changed("page") {
		return nil
	}
	page, _ := cmd.Flags().GetInt("page")
	cp := p.Settings().CurrentPage
	_, err := p.Set(config.KeyCurrentPage, map[string]any{
		"source": cp.Source,
		"key":    cp.Key,
		"page":   page,
	})
	return err
}

// addPageFlags registers --total, --per-page and --page on cmd.
func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("total", 0, "total number of items")
	cmd.Flags().Int("per-page", 10, "items per page")
	cmd.Flags().Int("page", 1, "current page")
}
