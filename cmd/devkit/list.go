package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/devkit/internal/catalog"
	"github.com/danmuck/devkit/internal/tools"
)

func newListCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tools grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := catalog.NewRegistry(nil)
			if err != nil {
				return err
			}
			return renderList(cmd.OutOrStdout(), reg, strings.ToLower(strings.TrimSpace(category)))
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list one category")
	return cmd
}

func renderList(w io.Writer, reg *tools.Registry, only string) error {
	cats := catalog.Categories()
	if only != "" {
		found := false
		for _, c := range cats {
			if c.ID == only {
				cats = []catalog.Category{c}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown category %q", only)
		}
	}

	width := 0
	for _, meta := range reg.ListMetadata("") {
		width = max(width, len(meta.ID))
	}

	for i, c := range cats {
		metas := reg.ListMetadata(c.ID)
		if len(metas) == 0 {
			continue
		}
		if i > 0 && only == "" {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", headerStyle.Render(c.Name), mutedStyle.Render(c.Description))
		for _, meta := range metas {
			fmt.Fprintf(w, "  %s  %s\n", column(idStyle, meta.ID, width), meta.Name)
		}
	}
	return nil
}
