package script

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/todo-go/internal/task"
	"github.com/nibzard/todo-go/internal/todo"
)

//go:embed demo.yaml
var demoYAML []byte

// Demo returns the built-in demonstration script.
func Demo() (*Script, error) {
	s, err := Parse(demoYAML)
	if err != nil {
		return nil, fmt.Errorf("demo script: %w", err)
	}
	return s, nil
}

// StepResult records how one step ended.
type StepResult struct {
	Index   int     `json:"index"`
	Op      Op      `json:"op"`
	Expect  Outcome `json:"expect"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
	Passed  bool    `json:"passed"`
}

// Result summarizes a script run.
type Result struct {
	Name   string       `json:"name,omitempty"`
	Steps  []StepResult `json:"steps"`
	Failed int          `json:"failed"`
}

// OK reports whether every step passed.
func (r *Result) OK() bool {
	return r.Failed == 0
}

// Run executes the steps of s against svc in order and writes one line per
// step to out. Steps whose outcome differs from their expectation are
// counted as failed; the run continues. Errors that are neither validation
// nor not-found failures stop the run.
func Run(ctx context.Context, svc *todo.Service, s *Script, out io.Writer) (*Result, error) {
	result := &Result{Name: s.Name, Steps: make([]StepResult, 0, len(s.Steps))}
	if s.Name != "" {
		fmt.Fprintf(out, "== %s ==\n", s.Name)
	}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		message, id, err := dispatch(svc, step)
		outcome, known := outcomeOf(err)
		if !known {
			return result, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		if err != nil {
			message = err.Error()
		}

		sr := StepResult{
			Index:   i + 1,
			Op:      step.Op,
			Expect:  step.Expected(),
			Outcome: outcome,
			Message: message,
		}
		sr.Passed = sr.Outcome == sr.Expect
		if err := checkExpectedID(step, outcome, id); sr.Passed && err != nil {
			sr.Passed = false
			sr.Message = err.Error()
		}
		if !sr.Passed {
			result.Failed++
		}
		result.Steps = append(result.Steps, sr)
		writeStep(out, sr, step.Note)
	}

	fmt.Fprintf(out, "%d steps, %d failed\n", len(result.Steps), result.Failed)
	return result, nil
}

// outcomeOf classifies err; known is false for unexpected errors.
func outcomeOf(err error) (outcome Outcome, known bool) {
	switch {
	case err == nil:
		return OutcomeOK, true
	case errors.Is(err, todo.ErrValidation):
		return OutcomeValidation, true
	case errors.Is(err, todo.ErrNotFound):
		return OutcomeNotFound, true
	}
	return "", false
}

// dispatch runs one step and returns a summary line plus the ID of the
// task it touched, if any.
func dispatch(svc *todo.Service, step Step) (string, int, error) {
	switch step.Op {
	case OpAdd:
		t, err := svc.Add(deref(step.Title), deref(step.Description))
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("created task %d: %s", t.ID, t.Title), t.ID, nil

	case OpList:
		return describeList(svc.List()), 0, nil

	case OpGet:
		t, err := svc.Get(step.ID)
		if err != nil {
			return "", 0, err
		}
		return t.String(), t.ID, nil

	case OpUpdate:
		t, changed, err := svc.Update(step.ID, step.Title, step.Description)
		if err != nil {
			return "", 0, err
		}
		if !changed {
			return fmt.Sprintf("task %d unchanged", t.ID), t.ID, nil
		}
		return fmt.Sprintf("task %d updated: %s", t.ID, t.Title), t.ID, nil

	case OpDelete:
		t, err := svc.Delete(step.ID)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("deleted task %d: %s", t.ID, t.Title), t.ID, nil

	case OpComplete:
		t, err := svc.MarkComplete(step.ID)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("task %d marked as %s", t.ID, t.Status), t.ID, nil

	case OpIncomplete:
		t, err := svc.MarkIncomplete(step.ID)
		if err != nil {
			return "", 0, err
		}
		return fmt.Sprintf("task %d marked as %s", t.ID, t.Status), t.ID, nil

	case OpStats:
		st := svc.Statistics()
		return fmt.Sprintf("Total: %d tasks | Completed: %d | Remaining: %d", st.Total, st.Completed, st.Remaining), 0, nil

	case OpReset:
		svc.Reset()
		return "all tasks removed", 0, nil
	}
	return "", 0, fmt.Errorf("unknown op %q", step.Op)
}

func describeList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "no tasks"
	}
	entries := make([]string, 0, len(tasks))
	for _, t := range tasks {
		entries = append(entries, t.String())
	}
	return fmt.Sprintf("%d tasks: %s", len(tasks), strings.Join(entries, ", "))
}

// checkExpectedID verifies the ID assigned by a successful add.
func checkExpectedID(step Step, outcome Outcome, id int) error {
	if step.Op != OpAdd || step.ExpectID == 0 || outcome != OutcomeOK {
		return nil
	}
	if id != step.ExpectID {
		return fmt.Errorf("expected task id %d, got %d", step.ExpectID, id)
	}
	return nil
}

func writeStep(w io.Writer, sr StepResult, note string) {
	mark := "ok"
	if !sr.Passed {
		mark = "FAIL"
	}
	detail := sr.Message
	if sr.Outcome != OutcomeOK {
		detail = fmt.Sprintf("%s: %s", sr.Outcome, sr.Message)
	}
	if !sr.Passed && sr.Outcome != sr.Expect {
		detail += fmt.Sprintf(" (expected %s)", sr.Expect)
	}
	if note != "" {
		detail += "  # " + note
	}
	fmt.Fprintf(w, "[%-4s] %3d. %-10s %s\n", mark, sr.Index, sr.Op, detail)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
