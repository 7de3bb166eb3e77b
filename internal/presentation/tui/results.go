package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	colorOK   = "#4ade80"
	colorWarn = "#fbbf24"
	colorDim  = "#94a3b8"
)

// MatchResult is one row of the match command.
type MatchResult struct {
	Filename string `json:"filename"`
	Ordinal  int    `json:"ordinal"`
	Matched  bool   `json:"matched"`
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Matches prints the ordinal of every filename, "-" for non-members.
func (p *Printer) Matches(expression string, rows []MatchResult) error {
	switch p.mode {
	case ModeJSON:
		return p.JSON(struct {
			Expression string        `json:"expression"`
			Results    []MatchResult `json:"results"`
		}{expression, rows})
	case ModeMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "## `%s`\n\n| File | Ordinal |\n| --- | ---: |\n", expression)
		for _, r := range rows {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(r.Filename), ordinalCell(r))
		}
		return p.markdown(b.String())
	}

	t := p.table()
	t.AppendHeader(table.Row{"File", "Ordinal"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Filename, ordinalCell(r)})
	}
	t.Render()
	return nil
}

// Name prints a single generated filename.
func (p *Printer) Name(from string, offset int, name string) error {
	switch p.mode {
	case ModeJSON:
		return p.JSON(struct {
			From     string `json:"from"`
			Offset   int    `json:"offset"`
			Expected string `json:"expected"`
		}{from, offset, name})
	case ModeMarkdown:
		return p.markdown(fmt.Sprintf("`%s` %+d → **`%s`**\n", from, offset, name))
	}
	_, err := fmt.Fprintln(p.out, name)
	return err
}

// Gap prints the outcome of a gap search.
func (p *Printer) Gap(expression string, gap domain.Gap) error {
	switch p.mode {
	case ModeJSON:
		return p.JSON(struct {
			Expression string `json:"expression"`
			domain.Gap
		}{expression, gap})
	case ModeMarkdown:
		return p.markdown("## Gap search\n\n" + describeGap(gap, "`") + "\n")
	}
	_, err := fmt.Fprintln(p.out, p.gapLine(gap))
	return err
}

// Run prints the files marked by a run and where the run stopped.
func (p *Printer) Run(expression string, run domain.Run) error {
	switch p.mode {
	case ModeJSON:
		return p.JSON(struct {
			Expression string `json:"expression"`
			Marked     int    `json:"marked"`
			domain.Run
		}{expression, run.Marked(), run})
	case ModeMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "## Run of %d\n\n", run.Marked())
		for _, n := range run.Names {
			fmt.Fprintf(&b, "- `%s`\n", n)
		}
		b.WriteString("\n" + describeGap(run.Gap, "`") + "\n")
		return p.markdown(b.String())
	}

	for _, n := range run.Names {
		if _, err := fmt.Fprintln(p.out, n); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(p.out, p.styled(fmt.Sprintf("%d marked; ", run.Marked()), colorDim)+p.gapLine(run.Gap))
	return err
}

// Plan prints a rename plan and how much of it was applied.
func (p *Printer) Plan(plan domain.Plan, applied int, dryRun bool) error {
	summary := planSummary(plan, applied, dryRun)
	switch p.mode {
	case ModeJSON:
		return p.JSON(struct {
			domain.Plan
			Applied int  `json:"applied"`
			DryRun  bool `json:"dry_run"`
		}{plan, applied, dryRun})
	case ModeMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "## %s rename\n\n| # | From | To |\n| ---: | --- | --- |\n", plan.Kind)
		for i, r := range plan.Renames {
			to := escapeCell(r.To)
			if r.Noop() {
				to = "*unchanged*"
			}
			fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, escapeCell(r.From), to)
		}
		b.WriteString("\n" + summary + "\n")
		return p.markdown(b.String())
	}

	t := p.table()
	t.AppendHeader(table.Row{"#", "From", "To"})
	for i, r := range plan.Renames {
		to := r.To
		if r.Noop() {
			to = p.styled("(unchanged)", colorDim)
		}
		t.AppendRow(table.Row{i + 1, r.From, to})
	}
	t.Render()

	color := colorOK
	if dryRun || applied < plan.Len() {
		color = colorWarn
	}
	_, err := fmt.Fprintln(p.out, p.styled(summary, color))
	return err
}

func (p *Printer) table() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	return t
}

func (p *Printer) gapLine(gap domain.Gap) string {
	line := describeGap(gap, "")
	if gap.Found {
		return p.styled(line, colorWarn)
	}
	return p.styled(line, colorOK)
}

func describeGap(gap domain.Gap, q string) string {
	switch {
	case !gap.Found:
		return fmt.Sprintf("no gap: %s%s%s ends the list (%d steps)", q, gap.Last, q, gap.Steps)
	case gap.Reason == domain.ReasonWidth:
		return fmt.Sprintf("width exhausted after %s%s%s, next is %s%s%s (%d steps)", q, gap.Last, q, q, gap.Actual, q, gap.Steps)
	default:
		return fmt.Sprintf("gap after %s%s%s: expected %s%s%s, found %s%s%s (%d steps)",
			q, gap.Last, q, q, gap.Expected, q, q, gap.Actual, q, gap.Steps)
	}
}

func planSummary(plan domain.Plan, applied int, dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("%d renames planned, %d change a name (dry run)", plan.Len(), plan.Changes())
	}
	return fmt.Sprintf("applied %d of %d renames", applied, plan.Len())
}

func ordinalCell(r MatchResult) string {
	if !r.Matched {
		return "-"
	}
	return fmt.Sprint(r.Ordinal)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
