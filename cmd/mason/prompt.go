package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/masonry-cms/mason/internal/messages"
)

// promptYesNo reads a y/n answer from in, reprompting on anything else.
// An empty line picks the default; EOF without an answer means no.
func promptYesNo(in io.Reader, out io.Writer, prompt string, defaultYes bool) (bool, error) {
	suffix := messages.PromptNoDefaultFmt
	if defaultYes {
		suffix = messages.PromptYesDefaultFmt
	}
	scanner := bufio.NewScanner(in)
	invalid := ""
	for {
		if _, err := fmt.Fprintf(out, suffix, prompt); err != nil {
			return false, err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, err
			}
			if invalid != "" {
				return false, fmt.Errorf(messages.PromptInvalidResponse, invalid)
			}
			return false, nil
		}
		switch answer := strings.TrimSpace(scanner.Text()); strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			invalid = answer
		}
		if _, err := fmt.Fprintln(out, messages.PromptRetryYesNo); err != nil {
			return false, err
		}
	}
}

// confirmer adapts promptYesNo to the installer's ConfirmFunc, reading from
// the command's stdin and writing to its stderr so prompts never mix into
// piped stdout.
func confirmer(in io.Reader, out io.Writer) func(prompt string) (bool, error) {
	return func(prompt string) (bool, error) {
		return promptYesNo(in, out, prompt, false)
	}
}
