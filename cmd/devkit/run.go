package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/danmuck/devkit/internal/tools"
)

type runOptions struct {
	args      []string
	input     string
	inputFile string
}

func newRunCmd(c *cli) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <tool> <action>",
		Short: "Execute one tool action",
		Long: `Execute one tool action and print its output.

The input argument comes from --input, --input-file or, when neither is given
and stdin is not a terminal, from stdin. Other arguments are passed as
--arg name=value and may be repeated.`,
		Example: `  devkit run encoding.base64 encode --input hello
  echo '{"b":1,"a":2}' | devkit run format.json format --arg sort_keys=true
  devkit run network.subnet calculate --input 10.0.0.0/22`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := c.executor()
			if err != nil {
				return err
			}
			toolArgs, err := opts.resolve(exec, args[0], args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			res, err := exec.Execute(args[0], args[1], toolArgs)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(res.Stdout)
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&opts.args, "arg", "a", nil, "argument as name=value (repeatable)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "value of the input argument")
	cmd.Flags().StringVarP(&opts.inputFile, "input-file", "f", "", "read the input argument from a file")
	cmd.MarkFlagsMutuallyExclusive("input", "input-file")
	return cmd
}

func (o *runOptions) resolve(exec *tools.Executor, toolID, action string, stdin io.Reader) (map[string]string, error) {
	args := make(map[string]string, len(o.args)+1)
	for _, raw := range o.args {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: --arg %q must be name=value", tools.ErrInvalidInput, raw)
		}
		args[name] = value
	}

	switch {
	case o.input != "":
		args[tools.ArgInput] = o.input
	case o.inputFile != "":
		data, err := os.ReadFile(o.inputFile)
		if err != nil {
			return nil, err
		}
		args[tools.ArgInput] = string(data)
	case args[tools.ArgInput] == "" && wantsInput(exec, toolID, action) && !isTerminal(stdin):
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if len(data) > 0 {
			args[tools.ArgInput] = strings.TrimSuffix(string(data), "\n")
		}
	}
	return args, nil
}

// wantsInput reports whether the action declares an input argument. Unknown
// tools and actions fall through so the executor reports them.
func wantsInput(exec *tools.Executor, toolID, action string) bool {
	tool, ok := exec.Registry().Resolve(toolID)
	if !ok {
		return false
	}
	op, ok := tools.Operation(tool, action)
	if !ok {
		return false
	}
	for _, arg := range op.Args {
		if arg.Name == tools.ArgInput {
			return true
		}
	}
	return false
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
