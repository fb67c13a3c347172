package main

import (
	"os"
	"strconv"
	"strings"

	"catalog-cli/internal/cli"
)

// valueFlags are persistent flags that consume the following token.
var valueFlags = map[string]bool{
	"--config":   true,
	"--base-url": true,
	"--format":   true,
	"-v":         true,
	"--v":        true,
	"--vmodule":  true,
	"--log_dir":  true,
}

func isItemID(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n >= 0
}

// rewriteDirectItemLookupArgs turns `catalog <id>` into `catalog items show <id>`. Cobra would
// treat the id as an unknown subcommand, so argv is rewritten before parsing. Persistent flags
// may come first; the first positional token decides.
func rewriteDirectItemLookupArgs(argv []string) []string {
	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isItemID(argv[i+1]) {
				return insertShow(argv, i+1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isItemID(a):
			return insertShow(argv, i)
		default:
			return argv
		}
	}
	return argv
}

func insertShow(argv []string, at int) []string {
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[:at]...)
	out = append(out, "items", "show")
	return append(out, argv[at:]...)
}

func main() {
	os.Args = rewriteDirectItemLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
