package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"

	"github.com/agentflare-ai/go-restdoc/internal/config"
)

const rootLongDesc = `
go-restdoc builds HTML documentation pages for a tree of REST resources.

Each resource is a directory under the REST root holding one Go handler file per
HTTP verb (get.go, post.go, put.go, delete.go). A handler documents itself with a
comment that starts with "api-documents"; the rest of the comment is markdown.
Sibling files add more:

  • all.regex or <verb>.regex describe the parameter that follows the directory
  • docs.summary.rst and docs.footnotes.rst wrap the generated page
  • docs.page.rst replaces the generated blocks with a handwritten page

Settings come from defaults, a YAML or JSON --config file, RESTDOC_* environment
variables (a .env file in the working directory is loaded first) and flags, in
that order.
`

func newRootCmd(stdout io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout}
	cmd := &cobra.Command{
		Use:           "go-restdoc",
		Short:         "Render REST resource documentation as HTML",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newRoutesCmd(app))
	cmd.AddCommand(newOpenAPICmd(app))
	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func newRenderCmd(app *cliApp) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render URI",
		Short: "Write the HTML page of one resource",
		Example: strings.TrimSpace(`
  go-restdoc render --root ./rest /widgets/
  go-restdoc render --root ./rest --lang pt -o widgets.html /widgets/`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			return s.renderPage(app.stdout, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the page to a file instead of stdout")
	return cmd
}

func newServeCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve documentation pages over HTTP",
		Long: strings.TrimSpace(`
Serve every resource page under /docs/<uri>, Prometheus metrics under /metrics
and a health check under /healthz. Page labels follow the Accept-Language header.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			srv, err := s.pageServer()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, s.cfg.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (env "+config.EnvAddr+", default :8080)")
	return cmd
}

func newRoutesCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List every resource verb with its route pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			return s.printRoutes(app.stdout)
		},
	}
}

func newOpenAPICmd(app *cliApp) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Export the resource tree as an OpenAPI 3 document",
		Example: strings.TrimSpace(`
  go-restdoc openapi --root ./rest > openapi.yaml
  go-restdoc openapi --root ./rest --format json -o openapi.json`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.start(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return s.exportOpenAPI(ctx, app.stdout, format, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for go-restdoc.

The output should be evaluated by your shell. For example:

  # bash
  go-restdoc completion bash > /usr/local/etc/bash_completion.d/go-restdoc

  # zsh
  go-restdoc completion zsh > "${fpath[1]}/_go-restdoc"

  # fish
  go-restdoc completion fish | source

  # PowerShell
  go-restdoc completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.ExactValidArgs(1),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  go-restdoc gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}
