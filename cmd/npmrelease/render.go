// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"npmrelease-cli/internal/issue"
	"npmrelease-cli/internal/release"

	"github.com/spf13/cobra"
)

// fail renders err to stderr and returns an ExitError so fang does not print it again.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	fmt.Fprintln(a.stderr, formatErrorForDisplay(err, verbose))
	return &ExitError{Code: 1, Err: err}
}

// formatErrorForDisplay formats an error for user display.
//
// Aggregated release errors are listed one per line with their code; in verbose
// mode each code's catalog entry is rendered below the list. ActionableErrors
// use their own Format.
func formatErrorForDisplay(err error, verbose bool) string {
	var cle *configLoadError
	if errors.As(err, &cle) {
		msg := formatErrorForDisplay(cle.err, verbose)
		if verbose {
			msg += "\n" + renderIssue(issue.ConfigLoadFailedId)
		}
		return msg
	}

	var agg *release.AggregateError
	if errors.As(err, &agg) {
		return formatAggregate(agg, verbose)
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ErrorStyle.Render("Error: ") + ae.Format(verbose)
	}

	msg := ErrorStyle.Render("Error: ") + err.Error()
	var re *release.Error
	if verbose && errors.As(err, &re) {
		msg += "\n" + renderGuidance([]release.Code{re.Code})
	}
	return msg
}

func formatAggregate(agg *release.AggregateError, verbose bool) string {
	var sb strings.Builder
	noun := "errors"
	if len(agg.Errors) == 1 {
		noun = "error"
	}
	sb.WriteString(ErrorStyle.Render(fmt.Sprintf("%d %s occurred:", len(agg.Errors), noun)))

	var codes []release.Code
	for _, err := range agg.Errors {
		sb.WriteString("\n  • ")
		var re *release.Error
		if errors.As(err, &re) {
			sb.WriteString(WarningStyle.Render(string(re.Code)))
			sb.WriteString(" ")
			sb.WriteString(re.Message)
			codes = append(codes, re.Code)
			continue
		}
		sb.WriteString(err.Error())
	}

	if verbose && len(codes) > 0 {
		sb.WriteString("\n")
		sb.WriteString(renderGuidance(codes))
	}
	return sb.String()
}

// renderGuidance renders the catalog entry for each distinct code.
func renderGuidance(codes []release.Code) string {
	var sb strings.Builder
	seen := make(map[release.Code]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true

		sb.WriteString(renderIssue(issue.Id(code)))
	}
	return sb.String()
}

// renderIssue renders one catalog entry, falling back to raw Markdown.
func renderIssue(id issue.Id) string {
	entry := issue.Get(id)
	if entry == nil {
		return ""
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		return string(entry.MarkdownMsg()) + "\n"
	}
	return rendered
}

// printReleases lists published or tagged releases, one per line.
func printReleases(w io.Writer, releases []release.Release) {
	for _, r := range releases {
		if r.Skipped {
			fmt.Fprintf(w, "%s %s %s\n", WarningStyle.Render("-"), CmdStyle.Render(r.Package), SubtitleStyle.Render("(skipped)"))
			continue
		}
		line := fmt.Sprintf("%s %s@%s %s", SuccessStyle.Render("✓"), CmdStyle.Render(r.Package), r.Version, r.Name)
		if r.URL != "" {
			line += " " + SubtitleStyle.Render(r.URL)
		}
		fmt.Fprintln(w, line)
	}
}
