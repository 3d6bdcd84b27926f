package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
)

// ErrFindings is returned by check when any file has unignored errors, so
// scripts can rely on the exit status.
var ErrFindings = errors.New("grammar issues found")

const stdinName = "-"

var (
	checkJSON    bool
	checkNoColor bool
	checkJobs    int
)

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Check files for grammar issues",
	Long: `Check one or more text files and print every issue that has not been
ignored. With no files, or with "-", text is read from standard input.

Exits with a non-zero status when issues are found.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output findings as JSON")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable coloured output")
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "files checked in parallel (0 = number of CPUs)")
	rootCmd.AddCommand(checkCmd)
}

// fileReport holds the findings for one input.
type fileReport struct {
	Name     string
	Findings []domain.Finding
}

func runCheck(cmd *cobra.Command, args []string) error {
	svc, err := services(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Check == nil {
		return ErrNotConfigured
	}

	if len(args) == 0 {
		args = []string{stdinName}
	}

	reports, err := checkInputs(cmd, svc.Check, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		err = writeJSONReports(out, reports)
	} else {
		writeTextReports(out, reports, newPalette(!checkNoColor && isTerminal(out)))
	}
	if err != nil {
		return err
	}

	for _, r := range reports {
		if len(r.Findings) > 0 {
			return ErrFindings
		}
	}
	return nil
}

// checkInputs checks every input concurrently and returns the reports in
// argument order.
func checkInputs(cmd *cobra.Command, checker driving.CheckService, names []string) ([]fileReport, error) {
	texts := make([]string, len(names))
	for i, name := range names {
		text, err := readInput(cmd, name)
		if err != nil {
			return nil, err
		}
		texts[i] = text
	}

	jobs := checkJobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	reports := make([]fileReport, len(names))
	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(names)))
	for i := range names {
		g.Go(func() error {
			findings, err := checker.Check(gctx, texts[i])
			if err != nil {
				return fmt.Errorf("checking %s: %w", displayName(names[i]), err)
			}
			reports[i] = fileReport{Name: displayName(names[i]), Findings: findings}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

func displayName(name string) string {
	if name == stdinName {
		return "<stdin>"
	}
	return name
}

// palette colours terminal output. A disabled palette prints plain text.
type palette struct {
	location *color.Color
	issue    *color.Color
	flagged  *color.Color
	fix      *color.Color
	ok       *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		location: color.New(color.Bold),
		issue:    color.New(color.FgYellow),
		flagged:  color.New(color.FgRed, color.Underline),
		fix:      color.New(color.FgGreen),
		ok:       color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.location, p.issue, p.flagged, p.fix, p.ok} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeTextReports(w io.Writer, reports []fileReport, p palette) {
	total := 0
	for _, r := range reports {
		for _, f := range r.Findings {
			total++
			p.location.Fprintf(w, "%s:%d:%d:", r.Name, f.Line, f.Column)
			fmt.Fprintf(w, " %s ", p.issue.Sprint(f.Span.Message))
			fmt.Fprintf(w, "%s [%s]\n", p.flagged.Sprintf("%q", f.Text), f.Span.RuleID())
			if len(f.Span.Replacements) > 0 {
				fixes := make([]string, len(f.Span.Replacements))
				for i, r := range f.Span.Replacements {
					fixes[i] = p.fix.Sprint(r)
				}
				fmt.Fprintf(w, "    suggestions: %s\n", strings.Join(fixes, ", "))
			}
		}
	}

	switch total {
	case 0:
		p.ok.Fprintln(w, "No issues found.")
	case 1:
		fmt.Fprintln(w, "1 issue found.")
	default:
		fmt.Fprintf(w, "%d issues found.\n", total)
	}
}

// jsonFinding is the --json shape of one finding.
type jsonFinding struct {
	File         string   `json:"file"`
	Line         int      `json:"line"`
	Column       int      `json:"column"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Text         string   `json:"text"`
	Message      string   `json:"message"`
	Rule         string   `json:"rule"`
	IssueType    string   `json:"issueType,omitempty"`
	Replacements []string `json:"replacements"`
}

func writeJSONReports(w io.Writer, reports []fileReport) error {
	out := make([]jsonFinding, 0)
	for _, r := range reports {
		for _, f := range r.Findings {
			jf := jsonFinding{
				File:         r.Name,
				Line:         f.Line,
				Column:       f.Column,
				Offset:       f.Span.Offset,
				Length:       f.Span.Length,
				Text:         f.Text,
				Message:      f.Span.Message,
				Rule:         f.Span.RuleID(),
				Replacements: f.Span.Replacements,
			}
			if f.Span.Rule != nil {
				jf.IssueType = f.Span.Rule.IssueType
			}
			if jf.Replacements == nil {
				jf.Replacements = []string{}
			}
			out = append(out, jf)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
