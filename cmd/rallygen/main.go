package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/okian/rallystats/internal/adapters/tracking"
	"github.com/okian/rallystats/internal/testrally"
)

// Default generation constants.
const (
	defaultFrames   = 720
	defaultContacts = 12
	defaultSeed     = 42
	filePermission  = 0o600
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		os.Stderr.WriteString("rallygen: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// run writes one synthetic tracking document to -output or stdout.
func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("rallygen", flag.ContinueOnError)
	var (
		frames   = fs.Int("frames", defaultFrames, "Number of frames in the match")
		contacts = fs.Int("contacts", defaultContacts, "Number of contact frames")
		seed     = fs.Int64("seed", defaultSeed, "Random seed")
		dropout  = fs.Float64("dropout", 0, "Probability of dropping the object on non-contact frames")
		output   = fs.String("output", "", "Output file (default: stdout)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *frames < 0 || *contacts < 0 {
		return errors.New("frames and contacts must not be negative")
	}
	if *dropout < 0 || *dropout > 1 {
		return fmt.Errorf("dropout must be in [0, 1], got %v", *dropout)
	}

	gen := testrally.New(testrally.WithSeed(*seed), testrally.WithObjectDropout(*dropout))
	m := gen.Match(*frames, *contacts)

	if *output == "" {
		return tracking.Encode(stdout, m)
	}
	f, err := os.OpenFile(*output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := tracking.Encode(f, m); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
