package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/grimdork/climate/arg"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/k0kubun/pp/v3"
	"github.com/tebeka/atexit"

	"github.com/Urethramancer/hack/assembler"
	"github.com/Urethramancer/hack/config"
	"github.com/Urethramancer/hack/cpu"
)

const (
	exitOK = iota
	exitUsage
	exitAssembly
)

func main() {
	opt := arg.New("hackasm")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "o", "output", "Output file. Defaults to the input with a .hack extension.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "E", "expand", "Print the macro-expanded source and stop.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "r", "raw", "Plain Hack assembly without #call, #ret and #include.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "b", "binary", "Write big-endian words instead of .hack text.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "s", "symbols", "Print the label and variable table.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "d", "dump", "Dump the resolved instructions to stderr.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "v", "verbose", "Log each pass at debug level.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "c", "config", "Config file. Defaults to "+config.FileName+" beside the input.", "", false, arg.VarString, nil)
	opt.SetPositional("FILE", "Assembly source to translate.", "", true, arg.VarString)

	err := opt.Parse(os.Args)
	if err != nil {
		if errors.Is(err, arg.ErrNoArgs) {
			opt.PrintHelp()
			atexit.Exit(exitOK)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		atexit.Exit(exitUsage)
	}
	if opt.GetBool("help") {
		opt.PrintHelp()
		atexit.Exit(exitOK)
	}

	atexit.Exit(run(opt))
}

func run(opt *arg.Options) int {
	input := opt.GetPosString("FILE")
	cfg, err := config.Find(opt.GetString("config"), input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return exitUsage
	}
	if opt.GetBool("raw") {
		cfg.Macros = false
	}
	level := cfg.Level()
	if opt.GetBool("verbose") {
		level = slog.LevelDebug
	}
	log, logFile, err := cfg.NewLogger(os.Stderr, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	atexit.Register(func() { logFile.Close() })

	src, err := os.ReadFile(input)
	if err != nil {
		log.Error("read source", "file", input, "err", err)
		return exitUsage
	}

	asm := assembler.New(append(cfg.Options(input), assembler.WithLogger(log))...)
	if opt.GetBool("expand") {
		lines, err := asm.Preprocess(input, string(src))
		if err != nil {
			return report(log, err)
		}
		for _, l := range lines {
			fmt.Println(l.Text)
		}
		return exitOK
	}

	prog, err := asm.Program(input, string(src))
	if err != nil {
		return report(log, err)
	}
	code, err := assembler.Encode(prog)
	if err != nil {
		return report(log, err)
	}
	if opt.GetBool("dump") {
		pp.Fprintln(os.Stderr, prog)
	}
	if opt.GetBool("symbols") {
		printSymbols(asm.Symbols())
	}

	output := opt.GetString("output")
	if output == "" {
		ext := ".hack"
		if opt.GetBool("binary") {
			ext = ".bin"
		}
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}
	var data []byte
	if opt.GetBool("binary") {
		data = cpu.WordsToBytes(code)
	} else {
		data = []byte(cpu.FormatWords(code))
	}
	if err := writeOutput(output, data); err != nil {
		log.Error("write output", "file", output, "err", err)
		return exitUsage
	}
	log.Info("assembled", "file", input, "output", output, "words", len(code))
	return exitOK
}

// writeOutput writes through a temporary file so a failed run never leaves a
// truncated output behind.
func writeOutput(path string, data []byte) error {
	tmp := path + ".tmp"
	atexit.Register(func() { os.Remove(tmp) })
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// report logs an assembly failure and picks the exit code for it.
func report(log *slog.Logger, err error) int {
	var se *assembler.SourceError
	if errors.As(err, &se) {
		log.Error("assembly failed", "pos", se.Pos.String(), "line", se.Text, "err", se.Err)
	} else {
		log.Error("assembly failed", "err", err)
	}
	if errors.Is(err, assembler.ErrIO) {
		return exitUsage
	}
	return exitAssembly
}

func printSymbols(st *assembler.SymbolTable) {
	t := table.NewWriter()
	t.SetTitle("Symbols")
	t.AppendHeader(table.Row{"Name", "Address", "Kind"})
	for _, s := range st.Defined() {
		t.AppendRow(table.Row{s.Name, s.Address, s.Kind.String()})
	}
	fmt.Println(t.Render())
}
