// Command goblog runs the blog server.
//
//	goblog serve [--addr :8080] [--log-format json|text]
//	goblog migrate
//
// Settings come from the environment and an optional .env file; see
// internal/envcfg for the variable names.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
