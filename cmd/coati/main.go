// Coati CLI - assembles the bundled demo programs and dumps the encoded output
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chazu/coati/asm"
)

func main() {
	program := flag.String("p", "all", "Program to assemble: hello, functions, trycatch, all")
	verbose := flag.Bool("v", false, "Also print pools, metadata, and decoded exception ranges")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coati [options]\n\n")
		fmt.Fprintf(os.Stderr, "Assembles the bundled demo programs and dumps the encoded bytecode.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  coati                # Assemble and dump every demo\n")
		fmt.Fprintf(os.Stderr, "  coati -p hello       # Just the hello world program\n")
		fmt.Fprintf(os.Stderr, "  coati -p trycatch -v # Exception demo with pools and metadata\n")
	}
	flag.Parse()

	demos := map[string]func() (*asm.CodeUnit, error){
		"hello":     helloWorld,
		"functions": functionDefinition,
		"trycatch":  tryCatch,
	}
	order := []string{"hello", "functions", "trycatch"}

	var selected []string
	if *program == "all" {
		selected = order
	} else if _, ok := demos[*program]; ok {
		selected = []string{*program}
	} else {
		fmt.Fprintf(os.Stderr, "Error: unknown program %q (use hello, functions, trycatch, or all)\n", *program)
		os.Exit(1)
	}

	for i, name := range selected {
		if i > 0 {
			fmt.Println()
		}
		unit, err := demos[name]()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error assembling %s: %v\n", name, err)
			os.Exit(1)
		}
		dumpUnit(name, unit, *verbose)
	}
}

// emitAll appends instructions in order, stopping at the first error.
func emitAll(a *asm.Assembler, insns ...asm.Insn) error {
	for _, in := range insns {
		if err := a.EmitOp(in.Op, in.Arg); err != nil {
			return err
		}
	}
	return nil
}

// helloWorld assembles the equivalent of print("Hello world").
func helloWorld() (*asm.CodeUnit, error) {
	a := asm.NewAssembler()
	err := emitAll(a,
		asm.Insn{Op: asm.OpResume},
		asm.Insn{Op: asm.OpPushNull},
		asm.Insn{Op: asm.OpLoadName, Arg: a.AddName("print")},
		asm.Insn{Op: asm.OpLoadConst, Arg: a.AddConst("Hello world")},
		asm.Insn{Op: asm.OpPrecall, Arg: 1},
		asm.Insn{Op: asm.OpCall, Arg: 1},
		asm.Insn{Op: asm.OpPopTop},
		asm.Insn{Op: asm.OpLoadConst, Arg: a.AddConst(nil)},
		asm.Insn{Op: asm.OpReturnValue},
	)
	if err != nil {
		return nil, err
	}
	return a.Build()
}

// functionDefinition assembles a one-argument function that prints its
// argument, then a top-level program that binds it to print_wrapper and
// calls it with "Hello world".
func functionDefinition() (*asm.CodeUnit, error) {
	inner := asm.NewAssembler("text")
	err := emitAll(inner,
		asm.Insn{Op: asm.OpResume},
		asm.Insn{Op: asm.OpPushNull},
		asm.Insn{Op: asm.OpLoadName, Arg: inner.AddName("print")},
		asm.Insn{Op: asm.OpLoadFast, Arg: 0},
		asm.Insn{Op: asm.OpPrecall, Arg: 1},
		asm.Insn{Op: asm.OpCall, Arg: 1},
		asm.Insn{Op: asm.OpPopTop},
		asm.Insn{Op: asm.OpLoadConst, Arg: inner.AddConst(nil)},
		asm.Insn{Op: asm.OpReturnValue},
	)
	if err != nil {
		return nil, err
	}
	innerUnit, err := inner.Build()
	if err != nil {
		return nil, err
	}

	outer := asm.NewAssembler()
	err = emitAll(outer,
		asm.Insn{Op: asm.OpResume},
		asm.Insn{Op: asm.OpLoadConst, Arg: outer.AddConst(innerUnit)},
		asm.Insn{Op: asm.OpMakeFunction},
		asm.Insn{Op: asm.OpStoreName, Arg: outer.AddName("print_wrapper")},
		asm.Insn{Op: asm.OpPushNull},
		asm.Insn{Op: asm.OpLoadName, Arg: outer.AddName("print_wrapper")},
		asm.Insn{Op: asm.OpLoadConst, Arg: outer.AddConst("Hello world")},
		asm.Insn{Op: asm.OpPrecall, Arg: 1},
		asm.Insn{Op: asm.OpCall, Arg: 1},
		asm.Insn{Op: asm.OpPopTop},
		asm.Insn{Op: asm.OpLoadConst, Arg: outer.AddConst(nil)},
		asm.Insn{Op: asm.OpReturnValue},
	)
	if err != nil {
		return nil, err
	}
	return outer.Build()
}

// tryCatch assembles a program that raises a ValueError inside a
// protected range, rebinds it in the handler, prints it, and reraises
// anything the handler itself throws.
func tryCatch() (*asm.CodeUnit, error) {
	a := asm.NewAssembler()
	if err := a.EmitOp(asm.OpResume, 0); err != nil {
		return nil, err
	}

	body, err := a.OpenTryBlock(0, false)
	if err != nil {
		return nil, err
	}
	err = emitAll(a,
		asm.Insn{Op: asm.OpPushNull},
		asm.Insn{Op: asm.OpLoadName, Arg: a.AddName("ValueError")},
		asm.Insn{Op: asm.OpLoadConst, Arg: a.AddConst("Hello world")},
		asm.Insn{Op: asm.OpPrecall, Arg: 1},
		asm.Insn{Op: asm.OpCall, Arg: 1},
		asm.Insn{Op: asm.OpRaiseVarargs, Arg: 1},
	)
	if err != nil {
		return nil, err
	}
	if err := body.Close(); err != nil {
		return nil, err
	}

	handler, err := a.OpenTryBlock(1, true)
	if err != nil {
		return nil, err
	}
	err = emitAll(a,
		asm.Insn{Op: asm.OpPushExcInfo},
		asm.Insn{Op: asm.OpStoreName, Arg: a.AddName("e")},
		asm.Insn{Op: asm.OpPushNull},
		asm.Insn{Op: asm.OpLoadName, Arg: a.AddName("type")},
		asm.Insn{Op: asm.OpLoadName, Arg: a.AddName("e")},
		asm.Insn{Op: asm.OpPrecall, Arg: 1},
		asm.Insn{Op: asm.OpCall, Arg: 1},
		asm.Insn{Op: asm.OpStoreName, Arg: a.AddName("e1")},
		asm.Insn{Op: asm.OpPushNull},
		asm.Insn{Op: asm.OpLoadName, Arg: a.AddName("print")},
		asm.Insn{Op: asm.OpLoadName, Arg: a.AddName("e1")},
		asm.Insn{Op: asm.OpLoadName, Arg: a.AddName("e")},
		asm.Insn{Op: asm.OpPrecall, Arg: 2},
		asm.Insn{Op: asm.OpCall, Arg: 2},
		asm.Insn{Op: asm.OpPopTop},
		asm.Insn{Op: asm.OpPopExcept},
		asm.Insn{Op: asm.OpLoadConst, Arg: a.AddConst(nil)},
		asm.Insn{Op: asm.OpReturnValue},
	)
	if err != nil {
		return nil, err
	}
	if err := handler.Close(); err != nil {
		return nil, err
	}

	err = emitAll(a,
		asm.Insn{Op: asm.OpCopy},
		asm.Insn{Op: asm.OpPopExcept},
		asm.Insn{Op: asm.OpReraise, Arg: 1},
	)
	if err != nil {
		return nil, err
	}
	return a.Build()
}

// dumpUnit prints one assembled code unit.
func dumpUnit(name string, unit *asm.CodeUnit, verbose bool) {
	fmt.Printf("=== %s ===\n", name)
	fmt.Printf("bytecode (%d bytes):\n", len(unit.Bytecode))
	dumpHex(unit.Bytecode)
	if len(unit.ExceptionTable) > 0 {
		fmt.Printf("exception table (%d bytes):\n", len(unit.ExceptionTable))
		dumpHex(unit.ExceptionTable)
		if verbose {
			dumpExceptionRanges(unit.ExceptionTable)
		}
	}
	if verbose {
		fmt.Printf("consts:   %s\n", formatConsts(unit.Consts))
		fmt.Printf("names:    %v\n", unit.Names)
		fmt.Printf("varnames: %v\n", unit.VarNames)
		fmt.Printf("argcount=%d nlocals=%d stacksize=%d\n",
			unit.ArgCount, unit.LocalCount, unit.StackSize)
	}
}

// dumpHex prints bytes sixteen to a row with leading offsets.
func dumpHex(b []byte) {
	for off := 0; off < len(b); off += 16 {
		end := off + 16
		if end > len(b) {
			end = len(b)
		}
		fmt.Printf("  %04x:", off)
		for _, c := range b[off:end] {
			fmt.Printf(" %02x", c)
		}
		fmt.Println()
	}
}

// dumpExceptionRanges decodes the varint quadruples back into byte
// offsets for display.
func dumpExceptionRanges(table []byte) {
	for len(table) > 0 {
		start, n := asm.ReadVarint(table)
		table = table[n:]
		length, n := asm.ReadVarint(table)
		table = table[n:]
		handler, n := asm.ReadVarint(table)
		table = table[n:]
		packed, n := asm.ReadVarint(table)
		table = table[n:]
		fmt.Printf("  [%d, %d) -> %d depth=%d lasti=%v\n",
			2*start, 2*(start+length), 2*handler, packed>>1, packed&1 == 1)
	}
}

// formatConsts renders the constant pool, using None for nil to match
// how the values read in assembled programs.
func formatConsts(consts []any) string {
	parts := make([]string, len(consts))
	for i, c := range consts {
		switch v := c.(type) {
		case nil:
			parts[i] = "None"
		case string:
			parts[i] = fmt.Sprintf("%q", v)
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
