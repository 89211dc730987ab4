package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

var ErrCancelled = errors.New("cancelled by user")

const maxKeyInput = 64 << 10

// PromptKey asks for a key on the terminal. An interrupted or empty prompt
// returns ErrCancelled.
func PromptKey() (string, error) {
	prompt := promptui.Prompt{
		Label: "Add license key",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("value cannot be empty")
			}
			return nil
		},
	}

	key, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("license key prompt failed: %v", err)
	}

	return key, nil
}

// ReadKey reads a key piped on stdin. Keys may span several lines.
func ReadKey(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxKeyInput))
	if err != nil {
		return "", fmt.Errorf("failed to read license key: %v", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrCancelled
	}

	return key, nil
}

// Confirm asks a yes/no question and reports whether the user chose yes.
func Confirm(label string) (bool, error) {
	confirm := promptui.Select{
		Label: label,
		Items: []string{"Yes", "No"},
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "➤ {{ . | green }}",
			Inactive: "  {{ . }}",
			Selected: "✔ {{ . | green }}",
		},
	}

	idx, _, err := confirm.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirmation prompt failed: %v", err)
	}

	return idx == 0, nil
}
