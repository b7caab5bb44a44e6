package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/grimdork/climate/arg"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tebeka/atexit"

	"github.com/Urethramancer/hack/assembler"
	"github.com/Urethramancer/hack/config"
	"github.com/Urethramancer/hack/cpu"
)

// This program loads or assembles a Hack program, runs it on the emulator and
// shows the registers and the low RAM afterwards.
func main() {
	opt := arg.New("hackrun")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "n", "steps", "Step budget. Defaults to max_steps from the config.", 0, false, arg.VarInt, nil)
	opt.SetOption(arg.GroupDefault, "c", "config", "Config file. Defaults to "+config.FileName+" beside the input.", "", false, arg.VarString, nil)
	opt.SetPositional("FILE", "Program: .asm source, .hack text or .bin words.", "", true, arg.VarString)

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

	input := opt.GetPosString("FILE")
	cfg, err := config.Find(opt.GetString("config"), input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		atexit.Exit(1)
	}
	log, logFile, err := cfg.NewLogger(os.Stderr, cfg.Level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Register(func() { logFile.Close() })

	code, err := load(input, cfg, log)
	if err != nil {
		log.Error("load program", "file", input, "err", err)
		atexit.Exit(2)
	}

	steps := opt.GetInt("steps")
	if steps <= 0 {
		steps = cfg.MaxSteps
	}

	c := cpu.New(code)
	log.Info("running", "file", input, "words", len(code), "steps", steps)
	err = c.Run(steps)
	dumpState(c, cfg.StackPointer)
	if err != nil {
		log.Error("execution stopped", "pc", c.PC, "cycles", c.Cycles, "err", err)
		atexit.Exit(2)
	}
	log.Info("halted", "pc", c.PC, "cycles", c.Cycles)
	atexit.Exit(0)
}

func load(path string, cfg config.Config, log *slog.Logger) ([]uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(path) {
	case ".hack":
		return cpu.ParseWords(string(data))
	case ".bin":
		return cpu.BytesToWords(data), nil
	}
	asm := assembler.New(append(cfg.Options(path), assembler.WithLogger(log))...)
	return asm.Assemble(path, string(data))
}

func dumpState(c *cpu.CPU, stackPointer uint16) {
	regs := table.NewWriter()
	regs.SetTitle("Registers")
	regs.AppendHeader(table.Row{"PC", "A", "D", "Cycles", "SP cell"})
	regs.AppendRow(table.Row{c.PC, c.A, int16(c.D), c.Cycles, c.RAM[stackPointer]})
	fmt.Println(regs.Render())

	ram := table.NewWriter()
	ram.SetTitle("RAM[0..15]")
	ram.AppendHeader(table.Row{"Address", "Value", "Signed"})
	for i := 0; i < 16; i++ {
		ram.AppendRow(table.Row{fmt.Sprintf("R%d", i), c.RAM[i], int16(c.RAM[i])})
	}
	fmt.Println(ram.Render())
}
