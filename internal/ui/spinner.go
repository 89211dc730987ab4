package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

type StepSpinner struct {
	spinner *spinner.Spinner
	out     io.Writer
	label   string
	step    string
}

// NewStepSpinner animates only when out is a terminal; the final ✅/❌ line
// is always written.
func NewStepSpinner(label string, out io.Writer) *StepSpinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(out))
	s.Prefix = fmt.Sprintf("[%s] ", label)
	return &StepSpinner{
		spinner: s,
		out:     out,
		label:   label,
	}
}

func (s *StepSpinner) Start(step string) {
	s.step = step
	s.spinner.Suffix = fmt.Sprintf(" %s", step)
	s.spinner.Start()
}

func (s *StepSpinner) Stop(success bool) {
	s.spinner.Stop()
	if success {
		fmt.Fprintf(s.out, "[%s] ✅ %s\n", s.label, s.step)
	} else {
		fmt.Fprintf(s.out, "[%s] ❌ %s\n", s.label, s.step)
	}
}
