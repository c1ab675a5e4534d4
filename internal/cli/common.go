package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feliksas/tastescout-cli/internal/gateway/qloo"
	"github.com/feliksas/tastescout-cli/internal/gateway/weather"
	"github.com/feliksas/tastescout-cli/internal/service/output"
)

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

type globalFlags struct {
	Format  string
	User    string
	Output  string
	Verbose bool
}

const sharedGlobalFlagAnnotation = "tastescout_cli_shared_global"

func addGlobalFlags(cmd *cobra.Command, flags *globalFlags) {
	addSharedGlobalFlag(cmd, "format", func() {
		cmd.Flags().StringVar(&flags.Format, "format", "table", "Output format: table, json, or yaml.")
	})
	addSharedGlobalFlag(cmd, "user", func() {
		cmd.Flags().StringVar(&flags.User, "user", "", "User id of the active taste profile.")
	})
	addSharedGlobalFlag(cmd, "output", func() {
		cmd.Flags().StringVar(&flags.Output, "output", "", "Also write output to this file path.")
	})
	addSharedGlobalFlag(cmd, "verbose", func() {
		cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output (prints upstream request trace and detailed error diagnostics).")
	})
}

func addSharedGlobalFlag(cmd *cobra.Command, name string, register func()) {
	if cmd.Flags().Lookup(name) != nil {
		return
	}
	register()
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return
	}
	if flag.Annotations == nil {
		flag.Annotations = map[string][]string{}
	}
	flag.Annotations[sharedGlobalFlagAnnotation] = []string{"true"}
}

func userLabel(userID string) string {
	user := strings.TrimSpace(userID)
	if user == "" {
		return "anonymous"
	}
	return user
}

func parseOutputFormat(format string) (output.Format, error) {
	return output.ParseFormat(format)
}

func writeTable(cmd *cobra.Command, text string, outputPath string) error {
	return output.WriteOutput(cmd.OutOrStdout(), text, outputPath)
}

func writeMachinePayload(cmd *cobra.Command, env output.Envelope, format output.Format, outputPath string) error {
	rendered, err := output.RenderPayload(env, format)
	if err != nil {
		return err
	}
	return output.WriteOutput(cmd.OutOrStdout(), rendered, outputPath)
}

func emitError(
	cmd *cobra.Command,
	format output.Format,
	user string,
	outputPath string,
	code string,
	message string,
) error {
	if format == output.FormatTable {
		if err := output.WriteOutput(cmd.OutOrStdout(), message, outputPath); err != nil {
			return err
		}
		return &exitError{code: 1}
	}
	env := output.BuildEnvelope(user, nil, []string{}, map[string]any{
		"code":    code,
		"message": message,
	})
	if err := writeMachinePayload(cmd, env, format, outputPath); err != nil {
		return err
	}
	return &exitError{code: 1}
}

// emitUpstreamError renders a provider failure without leaking credentials;
// detail only appears under --verbose.
func emitUpstreamError(
	cmd *cobra.Command,
	format output.Format,
	user string,
	outputPath string,
	verbose bool,
	err error,
) error {
	if verbose && err != nil {
		return emitError(cmd, format, user, outputPath, "TASTESCOUT_UPSTREAM_ERROR", err.Error())
	}

	message := "upstream service unavailable (use --verbose for details)"
	if status := upstreamStatusCode(err); status > 0 {
		message = fmt.Sprintf("upstream service unavailable (status %d, use --verbose for details)", status)
	}
	return emitError(cmd, format, user, outputPath, "TASTESCOUT_UPSTREAM_ERROR", message)
}

func upstreamStatusCode(err error) int {
	var qlooErr *qloo.UpstreamRequestError
	if errors.As(err, &qlooErr) {
		return qlooErr.StatusCode
	}
	var weatherErr *weather.UpstreamRequestError
	if errors.As(err, &weatherErr) {
		return weatherErr.StatusCode
	}
	return 0
}

func requiredArg(name string) string {
	return fmt.Sprintf("%s is required", name)
}

// splitCSV parses a comma-separated flag value preserving order and
// dropping blanks.
func splitCSV(value string) []string {
	parts := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		parts = append(parts, token)
	}
	return parts
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
