package main

import (
	"fmt"
	"io"

	"github.com/aellingwood/pager/internal/config"
	"github.com/aellingwood/pager/internal/pagination"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long: "Print the pagination settings after merging the built-in defaults, the " +
		"default group, and the group selected with --group.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		list, _ := cmd.Flags().GetBool("list")

		if list {
			groups, err := loadGroups(cmd)
			if err != nil {
				return err
			}
			if file, ok := groups.(*config.FileSource); ok {
				for _, name := range file.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		}

		p, err := newPagination(cmd, pagination.Options{}, nil)
		if err != nil {
			return err
		}
		settings := p.Settings()
		return writeFormatted(cmd.OutOrStdout(), format, settings, func(w io.Writer) error {
			return writeFormatted(w, "yaml", settings, nil)
		})
	},
}

func init() {
	configCmd.Flags().String("format", "yaml", "output format (yaml, toml)")
	configCmd.Flags().Bool("list", false, "list the groups defined in the config file")
	rootCmd.AddCommand(configCmd)
}
