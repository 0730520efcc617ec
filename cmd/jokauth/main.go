// Command jokauth inspects and benchmarks bearer tokens against a configured
// nkeys account key.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errTokenAbsent) {
			fmt.Fprintln(os.Stderr, "jokauth:", err)
		}
		os.Exit(1)
	}
}
