// Command dart fits, queries and certifiably prunes a bagged forest of
// deletion-capable decision trees.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
