package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grimdork/climate/arg"
	"github.com/tebeka/atexit"

	"github.com/Urethramancer/hack/cpu"
	"github.com/Urethramancer/hack/disassembler"
)

func main() {
	opt := arg.New("hackdis")
	opt.SetDefaultHelp(true)
	opt.SetPositional("FILE", "Machine code: .hack text or .bin big-endian words.", "", true, arg.VarString)
	opt.SetPositional("OUTPUT", "Listing file. Defaults to stdout.", "", false, arg.VarString)

	err := opt.Parse(os.Args)
	if err != nil {
		if errors.Is(err, arg.ErrNoArgs) {
			opt.PrintHelp()
			atexit.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		atexit.Exit(1)
	}
	if opt.GetBool("help") {
		opt.PrintHelp()
		atexit.Exit(0)
	}

	inputFile := opt.GetPosString("FILE")
	outputFile := opt.GetPosString("OUTPUT")

	code, err := loadCode(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		atexit.Exit(1)
	}

	text, err := disassembler.Disassemble(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Disassembly error: %v\n", err)
		atexit.Exit(2)
	}

	if outputFile == "" {
		fmt.Print(text)
		atexit.Exit(0)
	}

	if err := writeOutput(outputFile, []byte(text)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		atexit.Exit(1)
	}
	fmt.Printf("Disassembly written to %s\n", outputFile)
	atexit.Exit(0)
}

// writeOutput writes through a temporary file that is removed on exit if the
// rename never happened.
func writeOutput(path string, data []byte) error {
	tmp := path + ".tmp"
	atexit.Register(func() { os.Remove(tmp) })
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadCode(path string) ([]uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".bin" {
		return cpu.BytesToWords(data), nil
	}
	return cpu.ParseWords(string(data))
}
