// Command catalog-check validates a YAML catalog file before it is used as a
// catalog source or imported into a database.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"landingcore/internal/catalog"
	"landingcore/internal/catalog/file"
	"landingcore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

// cli returns 0 when the catalog is usable, 1 when it has errors (or
// warnings under -strict), and 2 on usage errors.
func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("catalog-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		path   string
		strict bool
	)
	fs.StringVar(&path, "catalog", "catalog.yaml", "path to the catalog yaml")
	fs.BoolVar(&strict, "strict", false, "treat warnings as errors")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	problems, err := run(path)
	if err != nil {
		fmt.Fprintf(stderr, "Catalog validation failed: %v\n", err)
		return 1
	}
	for _, p := range problems {
		fmt.Fprintln(stdout, p)
	}
	if catalog.HasErrors(problems) || (strict && len(problems) > 0) {
		fmt.Fprintf(stderr, "Catalog validation failed: %d problem(s)\n", len(problems))
		return 1
	}
	fmt.Fprintln(stdout, "Catalog validation passed.")
	return 0
}

// validatePath rejects empty paths and parent directory traversal.
func validatePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}
	clean := filepath.Clean(p)
	for _, part := range strings.Split(filepath.ToSlash(clean), "/") {
		if part == ".." {
			return "", fmt.Errorf("path traversal not allowed: %s", p)
		}
	}
	return clean, nil
}

func run(path string) ([]catalog.Problem, error) {
	safe, err := validatePath(path)
	if err != nil {
		return nil, err
	}
	c, err := file.Read(safe)
	if err != nil {
		return nil, err
	}
	if len(c.Projects) == 0 {
		return nil, fmt.Errorf("catalog %s has no projects", safe)
	}
	return checkSorted(c), nil
}

// checkSorted lists errors before warnings, keeping catalog order within each.
func checkSorted(c domain.Catalog) []catalog.Problem {
	problems := catalog.Check(c)
	out := make([]catalog.Problem, 0, len(problems))
	for _, sev := range []domain.Severity{domain.SeverityError, domain.SeverityWarning} {
		for _, p := range problems {
			if p.Severity == sev {
				out = append(out, p)
			}
		}
	}
	return out
}
