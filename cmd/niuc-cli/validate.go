package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/byteness/niuc/certvalidate"
)

// configureValidateCommand sets up the validate subcommand with kingpin.
func configureValidateCommand(app *kingpin.Application) {
	var inputPath string

	cmd := app.Command("validate", "Check a sealed certificate JSON file against the certificate schema")

	cmd.Arg("input", "Path to a sealed certificate JSON file, or - for stdin").
		Required().
		StringVar(&inputPath)

	cmd.Action(func(*kingpin.ParseContext) error {
		err := runValidate(inputPath)
		app.FatalIfError(err, "validate")
		return nil
	})
}

func runValidate(path string) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	issues := certvalidate.Validate(data)
	if len(issues) == 0 {
		fmt.Fprintln(os.Stdout, "valid")
		return nil
	}

	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue.String())
	}
	return fmt.Errorf("%d validation issue(s) found", len(issues))
}
