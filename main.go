package main

import (
	"fmt"
	"os"

	"github.com/agentflare-ai/go-restdoc/internal/config"
	"github.com/agentflare-ai/go-restdoc/internal/docerr"
)

// Version is reported by --version. Release builds set it with -ldflags.
var Version = "dev"

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "go-restdoc:", err)
		os.Exit(1)
	}
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "go-restdoc:", err)
		if docerr.GetKind(err) == docerr.KindUsage {
			fmt.Fprintln(os.Stderr, "Run 'go-restdoc --help' for usage.")
		}
		os.Exit(1)
	}
}
