// proctor — rule-based evaluation of AI agent tool-call sessions.
package main

import "github.com/ppiankov/proctor/internal/cli"

func main() {
	cli.Execute()
}
