package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jpl-jengelke/aerie-go/internal/demomodel"
	"github.com/jpl-jengelke/aerie-go/internal/engine"
	"github.com/jpl-jengelke/aerie-go/internal/eventgraph"
	"github.com/jpl-jengelke/aerie-go/internal/incremental"
	"github.com/jpl-jengelke/aerie-go/internal/plan"
	"github.com/jpl-jengelke/aerie-go/internal/planio"
	"github.com/jpl-jengelke/aerie-go/internal/simtrace"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	spanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	topicStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func runSimulate(cmd *cobra.Command, args []string) error {
	newPlan, err := loadPlan(planPath)
	if err != nil {
		return err
	}

	model := demomodel.New()
	var opts []engine.SimulateOption
	if hasStopTime {
		opts = append(opts, engine.WithStopTime(stopTime))
	}

	if oldPlanPath == "" {
		spans, events, _, err := engine.Simulate(model, newPlan, opts...)
		if err != nil {
			return fmt.Errorf("simulating %s: %w", planPath, err)
		}
		render(cmd, "simulation", spans, events)
		return nil
	}

	oldPlan, err := loadPlan(oldPlanPath)
	if err != nil {
		return err
	}

	_, _, payload, err := engine.Simulate(demomodel.New(), oldPlan)
	if err != nil {
		return fmt.Errorf("simulating %s: %w", oldPlanPath, err)
	}

	recorder := simtrace.NewRecorder()
	spans, events, err := incremental.Simulate(model, newPlan, oldPlan, payload, incremental.WithTraceSink(recorder))
	if err != nil {
		return fmt.Errorf("incrementally simulating %s against %s: %w", planPath, oldPlanPath, err)
	}
	render(cmd, "incremental simulation", spans, events)
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("retained task table (from the old plan's run)"))
	for _, row := range planio.TaskHashTable(payload) {
		fmt.Fprintln(cmd.OutOrStdout(), row.String())
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("per-task decisions"))
	for _, d := range recorder.Trace("").Decisions {
		fmt.Fprintln(cmd.OutOrStdout(), spanStyle.Render(string(d.Kind)), d.TaskID, d.Reason)
	}
	return nil
}

func loadPlan(path string) (plan.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plan %s: %w", path, err)
	}
	defer f.Close()
	p, err := planio.DecodePlan(f)
	if err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", path, err)
	}
	return p, nil
}

func render(cmd *cobra.Command, label string, spans []engine.Span, events []engine.HistoryEntry) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(label+" - spans"))
	for _, s := range spans {
		fmt.Fprintln(out, spanStyle.Render(fmt.Sprintf("[%d,%d] %s", s.Start, s.End, s.Directive.Type)))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render(label+" - events"))
	for _, e := range events {
		fmt.Fprintln(out, topicStyle.Render(fmt.Sprintf("t=%d", e.Time)), eventgraph.String(e.Graph))
	}
}
