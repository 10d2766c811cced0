package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"
)

// confirmPrompt displays a prompt and reads user confirmation.
// The prompt defaults to "No" when the user presses Enter without input.
func confirmPrompt(cmd *cobra.Command, prompt string) bool {
	cmd.PrintErr(prompt)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}
