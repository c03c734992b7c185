// Command codelai translates the human-readable text inside source code
// with a term dictionary.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ZaguanLabs/codelai"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = codelai.Version
	commit    = codelai.GitCommit
	buildDate = codelai.BuildDate
)

// stdin is read when no input files are given.
var stdin io.Reader = os.Stdin

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   codelai.Name,
		Short: codelai.Description,
		Long: `codelai rewrites the string literals, comments and markup text of source
code with a term dictionary, leaving identifiers, keywords and layout untouched.

Supported languages: js, jsx, ts, python, ruby, shell, go, html.
Anything else is translated as plain text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: $CODELAI_CONFIG, then env only)")

	root.AddCommand(
		newTranslateCmd(opts),
		newDetectCmd(),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", codelai.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", buildDate)
			}
		},
	}
}

func newDetectCmd() *cobra.Command {
	var hint string

	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Print the language a snippet would be translated as",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(args)
			if err != nil {
				return err
			}
			in := inputs[0]
			if hint == "" {
				hint = in.hint
			}
			fmt.Fprintln(cmd.OutOrStdout(), codelai.DetectLanguage(in.code, hint))
			return nil
		},
	}
	cmd.Flags().StringVar(&hint, "lang", "", "Language hint (overrides the file extension)")
	return cmd
}
