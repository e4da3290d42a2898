// Command sitemapctl generates sitemaps and resolves URLs from the command
// line against the same backends as the HTTP service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
