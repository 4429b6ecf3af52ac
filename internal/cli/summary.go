package cli

import (
	"fmt"

	"github.com/AndreyAkinshin/bootstrap/internal/environment"
	"github.com/AndreyAkinshin/bootstrap/internal/output"
	"github.com/AndreyAkinshin/bootstrap/internal/runner"
	"github.com/AndreyAkinshin/bootstrap/internal/toolchain"
)

// printRunSummary prints the per-step outcome and the final message.
func printRunSummary(w *output.Writer, h *toolchain.Handle, env *environment.Environment, s *runner.Summary) {
	w.SummaryHeader("Bootstrap Summary")

	w.SummaryItem("Toolchain", h.DisplayName())
	w.SummaryItem("Install root", env.InstallRoot)
	w.SummaryItem("Duration", formatDuration(s.TotalDuration))
	w.Info("")

	for _, r := range s.Results {
		note := ""
		switch {
		case r.Succeeded:
		case r.Step.Optional:
			note = fmt.Sprintf("optional, exit %d", r.ExitCode)
		case r.Err != nil:
			note = r.Err.Error()
		default:
			note = fmt.Sprintf("exit %d", r.ExitCode)
		}
		w.SummaryAction(r.Step.Description, r.Succeeded, formatDuration(r.Duration), note)
	}

	if s.Succeeded() {
		if s.Warned > 0 {
			w.FinalSuccess("Bootstrap completed with %d warning(s).", s.Warned)
		} else {
			w.FinalSuccess("Bootstrap completed successfully.")
		}
		return
	}
	if s.Aborted {
		w.FinalFailure("Bootstrap interrupted after %d step(s).", len(s.Results))
		return
	}
	w.FinalFailure("Bootstrap failed.")
}

// printDryRun lists the steps that would run.
func printDryRun(w *output.Writer, steps []runner.Step) {
	w.DryRunStart()
	for i, step := range steps {
		label := step.Description
		if step.Optional {
			label += " (optional)"
		}
		w.Println("[%d/%d] %s", i+1, len(steps), label)
		w.Println("      %s", step.String())
	}
	w.DryRunEnd()
	w.Hint("Nothing was installed. Run again without -n to execute these steps.")
}
