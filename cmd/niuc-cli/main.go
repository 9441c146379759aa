// Command niuc-cli is a thin external-collaborator stub: it reads a JSON
// array of segments, runs them through the Runtime Gate, and prints the
// resulting sealed certificate. It does not replicate a model-calling
// demo loop — that is out of scope here, the same way cmd/sentinel stops
// at wiring subcommands to the cli package and leaves the AWS console
// out of it.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/byteness/niuc"
	"github.com/byteness/niuc/gate"
)

// Version is provided at compile time.
var Version = "dev"

// segmentInput is the JSON wire shape for one input segment, decoupled
// from niuc.Segment so the CLI's input format can carry JSON tags without
// adding them to the core type.
type segmentInput struct {
	Text     string `json:"text"`
	Channel  string `json:"channel"`
	SourceID string `json:"source_id"`
}

func main() {
	app := kingpin.New("niuc-cli", "Verify trust-labeled text segments against the NIUC gate")
	app.Version(Version)

	configureVerifyCommand(app)
	configureValidateCommand(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

// configureVerifyCommand sets up the verify subcommand with kingpin.
func configureVerifyCommand(app *kingpin.Application) {
	var (
		inputPath string
		mode      string
	)

	cmd := app.Command("verify", "Run a segment file through the runtime gate and print the sealed certificate")

	cmd.Arg("input", "Path to a JSON file containing an array of segments, or - for stdin").
		Required().
		StringVar(&inputPath)

	cmd.Flag("mode", "Gate mode: block or certified_rewrite").
		Default(string(gate.ModeBlock)).
		StringVar(&mode)

	cmd.Action(func(*kingpin.ParseContext) error {
		err := runVerify(inputPath, mode)
		app.FatalIfError(err, "verify")
		return nil
	})
}

func runVerify(inputPath, mode string) error {
	segments, err := readSegments(inputPath)
	if err != nil {
		return err
	}

	cfg := gate.RuntimeConfig{
		Mode:  gate.Mode(mode),
		Clock: func() int64 { return time.Now().Unix() },
	}

	result, err := gate.Process(segments, cfg)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	fmt.Fprintln(os.Stdout, result.CertificateJSON)
	return nil
}

func readSegments(path string) ([]niuc.Segment, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var inputs []segmentInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}

	segments := make([]niuc.Segment, len(inputs))
	for i, in := range inputs {
		segments[i] = niuc.Segment{
			Text:     in.Text,
			Channel:  niuc.Channel(in.Channel),
			SourceID: in.SourceID,
		}
	}
	return segments, nil
}
