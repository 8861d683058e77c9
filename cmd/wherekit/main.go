// Command wherekit renders JSON filter documents into dialect-correct SQL
// and offers an interactive shell for building and executing queries.
//
// Usage:
//
//	wherekit render --table users '["and", [">=", "age", 18], ["like", "name", "A%"]]'
//	wherekit repl
//	wherekit config show
//
// Configuration is read from wherekit.yaml, WHEREKIT_* environment
// variables (DATABASE_URL is also honoured) and flags, in increasing
// order of precedence.
package main

import "os"

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}
