package helpers

import (
	"fmt"
	"strings"

	"github.com/brimblehq/licenses/internal/types"
)

// NormalizeKey trims a pasted key and drops the line breaks mail clients
// like to insert.
func NormalizeKey(input string) types.LicenseKey {
	key := strings.TrimSpace(input)
	key = strings.ReplaceAll(key, "\n", "")
	key = strings.ReplaceAll(key, "\r", "")
	return types.LicenseKey(key)
}

// UniqueKeys drops exact duplicates, keeping the first occurrence in place.
func UniqueKeys(keys []types.LicenseKey) []types.LicenseKey {
	seen := make(map[types.LicenseKey]struct{}, len(keys))
	unique := make([]types.LicenseKey, 0, len(keys))

	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}

	return unique
}

// SingleLine keeps free text from breaking out of a comment line.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func ProcessErrors(errs []error) error {
	var messages []string
	for _, err := range errs {
		if err != nil {
			messages = append(messages, err.Error())
		}
	}

	if len(messages) > 0 {
		return fmt.Errorf("failed with errors:\n%s", strings.Join(messages, "\n"))
	}

	return nil
}
