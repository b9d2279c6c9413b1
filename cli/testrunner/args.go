package testrunner

// args.go contains helpers for presenting runner command lines.

import (
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// PasswordFlag passes the project password to the runner.
const PasswordFlag = "-x"

const redacted = "****"

// Redacted returns a copy of args with the project password masked.
func Redacted(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == PasswordFlag {
			out[i+1] = redacted
			i++
		}
	}
	return out
}

// Quote renders args as a shell command line, with the password masked.
func Quote(args []string) string {
	parts := make([]string, 0, len(args))
	for _, arg := range Redacted(args) {
		parts = append(parts, shellescape.Quote(arg))
	}
	return strings.Join(parts, " ")
}
