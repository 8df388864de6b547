/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders the outcome of a validation run as a markdown job
// summary.
package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"chainguard.dev/registryguard/entity"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Outcome is the result of one validator.
type Outcome struct {
	Validator string
	Err       error
	Duration  time.Duration
}

// Passed reports whether the validator succeeded.
func (o Outcome) Passed() bool {
	return o.Err == nil
}

// Summary describes a whole run.
type Summary struct {
	// Entity is the classified entity, nil when classification failed.
	Entity *entity.Descriptor

	// Outcomes holds one entry per validator, in registration order.
	Outcomes []Outcome

	// Err is the classification failure, if any.
	Err error
}

// Failed returns the outcomes that did not pass.
func (s *Summary) Failed() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if !o.Passed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Markdown renders s for a GitHub job summary.
func Markdown(s *Summary) string {
	var buf bytes.Buffer
	buf.WriteString("### Registry validation\n\n")

	switch {
	case s.Entity == nil:
		fmt.Fprintf(&buf, "❌ The change set was rejected: %s\n", cell(errText(s.Err)))
		return buf.String()
	case s.Entity.Deleted:
		fmt.Fprintf(&buf, "🗑️ Entity `%s` is deleted, nothing to validate.\n", s.Entity.Dir())
		return buf.String()
	}

	fmt.Fprintf(&buf, "Entity: `%s` (%d/%d validators passed)\n\n",
		s.Entity.Dir(), len(s.Outcomes)-len(s.Failed()), len(s.Outcomes))

	table := createStandardTable([]string{"Validator", "Result", "Duration", "Details"}, &buf)
	for _, o := range s.Outcomes {
		result := "✅ pass"
		if !o.Passed() {
			result = "❌ fail"
		}
		_ = table.Append([]string{
			o.Validator,
			result,
			o.Duration.Round(time.Millisecond).String(),
			cell(errText(o.Err)),
		})
	}
	_ = table.Render()
	return buf.String()
}

// WriteStepSummary appends the markdown rendering of s to the file at path.
func WriteStepSummary(path string, s *Summary) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening step summary: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(Markdown(s) + "\n"); err != nil {
		return fmt.Errorf("writing step summary: %w", err)
	}
	return nil
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r", " ", "\n", " ")

// cell flattens s onto a single table line.
func cell(s string) string {
	return cellEscaper.Replace(s)
}

// createStandardTable creates a markdown table writer with the formatting
// shared by every report.
func createStandardTable(headers []string, w *bytes.Buffer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
