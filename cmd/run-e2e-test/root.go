package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
)

var errURLRequired = errors.New("--url is required")

// options holds command-line configuration
type options struct {
	URL        string
	Action     string
	ConfigFile string
	Verbose    bool
}

// runFunc performs the run once flags are parsed.
type runFunc func(ctx context.Context, opts *options, stdout, stderr io.Writer) error

func newRootCmd(run runFunc) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "run-e2e-test --url <URL> [--action \"<verb> <target> [value]\"]",
		Short: "Fallback browser runner for end-to-end checks",
		Long: `run-e2e-test loads a page in a real browser, optionally performs one
action and saves a full-page screenshot to ./e2e-test-result.png.

A browser is obtained with the first strategy that works:
  1. debug-attach       Attach to Chrome started with --remote-debugging-port=9222
  2. persistent-launch  Launch Chromium with the profile in ~/.e2e-testing/chromium-profile
  3. agent-browser      Manual fallback; the tool prints example commands

Actions:
  click <text>               Click the first element whose visible text is <text>
  type <selector> <text...>  Fill the first element matching <selector>

Examples:
  run-e2e-test --url http://localhost:3000
  run-e2e-test --url http://localhost:3000/login --action "click Sign In"
  run-e2e-test --url http://localhost:3000/login --action "type #email user@test.com"

To reuse an existing login session, start Chrome in debug mode first:
  google-chrome --remote-debugging-port=9222`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No flags at all: show help rather than an error
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			if opts.URL == "" {
				return errURLRequired
			}
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.URL, "url", "", "URL to open (required)")
	flags.StringVar(&opts.Action, "action", "", `Action to perform: "click <text>" or "type <selector> <text>"`)
	flags.StringVar(&opts.ConfigFile, "config", "", "Path to configuration file (default ~/.e2e-testing/config.yaml)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output")

	return cmd
}
