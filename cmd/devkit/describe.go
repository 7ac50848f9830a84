package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/devkit/internal/catalog"
	"github.com/danmuck/devkit/internal/tools"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <tool>",
		Short: "Show a tool's actions and arguments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := catalog.NewRegistry(nil)
			if err != nil {
				return err
			}
			tool, ok := reg.Resolve(strings.TrimSpace(args[0]))
			if !ok {
				return fmt.Errorf("%w: %s", tools.ErrToolNotFound, args[0])
			}
			renderTool(cmd.OutOrStdout(), tool)
			return nil
		},
	}
}

func renderTool(w io.Writer, tool tools.Tool) {
	meta := tool.Metadata()
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render(meta.Name), mutedStyle.Render("("+meta.ID+")"))
	fmt.Fprintf(w, "%s\n", meta.Description)

	for _, op := range tool.Operations() {
		fmt.Fprintf(w, "\n  %s  %s\n", idStyle.Render(op.Name), op.Description)
		width := 0
		for _, arg := range op.Args {
			width = max(width, len(arg.Name))
		}
		for _, arg := range op.Args {
			fmt.Fprintf(w, "    %s  %s%s\n", column(idStyle, arg.Name, width), arg.Description, argNote(arg))
		}
	}
}

func argNote(arg tools.ArgSpec) string {
	switch {
	case arg.Required:
		return mutedStyle.Render(" (required)")
	case arg.Default != "":
		return mutedStyle.Render(fmt.Sprintf(" (default %q)", arg.Default))
	default:
		return ""
	}
}
