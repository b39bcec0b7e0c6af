// Command cssguide lints CSS, SCSS and HTML styles against a style guide.
package main

import (
	"errors"
	"fmt"
	"os"
)

// exitError carries a process exit code without printing anything.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}
