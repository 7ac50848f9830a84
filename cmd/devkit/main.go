package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/devkit/internal/catalog"
	"github.com/danmuck/devkit/internal/logging"
	"github.com/danmuck/devkit/internal/observability"
	"github.com/danmuck/devkit/internal/tools"
)

type cli struct {
	verbose  bool
	logLevel string
}

func main() {
	observability.InitLogger("devkit")
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "devkit",
		Short: "Developer utilities: codecs, hashes, generators, formatters and converters",
		Long: `devkit bundles small, independent developer utilities behind one registry.

Every tool is addressed as <category>.<name> and exposes named actions that take
string arguments. Use "devkit list" to browse, "devkit describe <tool>" for the
arguments, "devkit run" to execute and "devkit serve" for the HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.applyLogLevel()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log every tool execution")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "trace|debug|info|warn|error|disabled")

	root.AddCommand(
		newListCmd(),
		newDescribeCmd(),
		newRunCmd(c),
		newServeCmd(),
	)
	return root
}

func (c *cli) applyLogLevel() error {
	if c.logLevel != "" {
		lvl, ok := logging.ParseLevel(c.logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", c.logLevel)
		}
		zerolog.SetGlobalLevel(lvl)
	}
	if c.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return nil
}

// executor builds a registry of every builtin. Execution logs stay quiet
// unless --verbose is set.
func (c *cli) executor() (*tools.Executor, error) {
	reg, err := catalog.NewRegistry(nil)
	if err != nil {
		return nil, err
	}
	logger := zerolog.Nop()
	if c.verbose {
		logger = log.Logger
	}
	return tools.NewExecutor(reg, tools.WithLogger(logger)), nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error: ")+err.Error())
}
