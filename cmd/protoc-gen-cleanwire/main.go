package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jptrs93/cleanwire/internal/logging"
	"github.com/jptrs93/cleanwire/internal/plugin"
)

func main() {
	if len(os.Args) > 1 {
		fmt.Fprintf(os.Stderr, "unknown argument %q (this program should be run by protoc, not directly)\n", os.Args[1])
		os.Exit(1)
	}
	log := logging.New("protoc-gen-cleanwire", logging.Config{Level: "warn", Out: os.Stderr})
	if err := plugin.Run(os.Stdin, os.Stdout, log); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(os.Args[0]), err)
		os.Exit(1)
	}
}
