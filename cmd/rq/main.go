package main

import (
	"fmt"
	"os"

	_ "github.com/mtibben/androiddnsfix"
	"github.com/nojima/restreq"
)

func main() {
	if err := restreq.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
