package main

import (
	"fmt"
	"os"

	"github.com/zescabedo/globalpayments-poc-sub001/internal/bootstrap"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := bootstrap.Start(""); err != nil {
		fmt.Fprintf(os.Stderr, "sitemap: %v\n", err)
		return 1
	}
	return 0
}
