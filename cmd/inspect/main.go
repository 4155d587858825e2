package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yuzamesan3/surrealdb-ffi-codec/boundary"
	"github.com/yuzamesan3/surrealdb-ffi-codec/envelope"
	"github.com/yuzamesan3/surrealdb-ffi-codec/executor"
	"github.com/yuzamesan3/surrealdb-ffi-codec/payload"
	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to a serialized request envelope")
		exec        = flag.Bool("exec", false, "Run the envelope through an in-memory executor")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect -file <envelope.bin> [-exec]")
		fmt.Fprintln(os.Stderr, "       inspect -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*file, *exec); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file string, exec bool) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	env, err := envelope.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Printf("Envelope: %s (%d bytes)\n", file, len(data))
	printEnvelope(env)

	if !exec {
		return nil
	}

	mem := executor.NewMemory("inspect", "inspect")
	seedDemo(mem)
	b := boundary.New(mem, boundary.WithExecContext(boundary.NewExecContext()))

	resp := b.ExecuteRequest(data)
	defer b.FreeResponseBuffer(resp)

	out, err := envelope.Decode(resp.Bytes())
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Printf("\nResponse (%d bytes)\n", resp.Len())
	printEnvelope(out)
	return nil
}

func printEnvelope(env *envelope.Envelope) {
	fmt.Printf("  Operation:    %s\n", env.Operation)
	fmt.Printf("  Payload kind: %s\n", env.PayloadKind)
	fmt.Printf("  Status code:  %d\n", env.StatusCode)

	if len(env.HintTokens) > 0 {
		fmt.Printf("  Hint tokens:  %s\n", strings.Join(env.HintTokens, ", "))
	}
	for _, rh := range env.RecordHints {
		fmt.Printf("  Record hint:  %s -> %s\n", rh.Field, rh.Table)
	}

	printPayload("Payload", env.Payload)
	printPayload("Error payload", env.ErrorPayload)
}

func printPayload(label string, data []byte) {
	if len(data) == 0 {
		return
	}
	fmt.Printf("  %s (%d bytes):\n", label, len(data))
	v, err := payload.Unmarshal(data)
	if err != nil {
		fmt.Printf("    <undecodable: %v>\n", err)
		return
	}
	fmt.Print(renderBinary(v, 2))
}

// renderBinary pretty-prints a decoded payload tree with two-space indents.
func renderBinary(v value.Binary, depth int) string {
	pad := strings.Repeat("  ", depth)
	switch v.Kind() {
	case value.BinArray:
		var b strings.Builder
		fmt.Fprintf(&b, "%s[\n", pad)
		for _, e := range v.Arr() {
			b.WriteString(renderBinary(e, depth+1))
		}
		fmt.Fprintf(&b, "%s]\n", pad)
		return b.String()
	case value.BinMap:
		var b strings.Builder
		fmt.Fprintf(&b, "%s{\n", pad)
		v.Map().Range(func(key string, e value.Binary) bool {
			fmt.Fprintf(&b, "%s  %s:\n", pad, key)
			b.WriteString(renderBinary(e, depth+2))
			return true
		})
		fmt.Fprintf(&b, "%s}\n", pad)
		return b.String()
	default:
		return fmt.Sprintf("%s%s\n", pad, v)
	}
}

// seedDemo loads a few rows so -exec has something to query.
func seedDemo(mem *executor.Memory) {
	for _, name := range []string{"Ada", "Brian", "Kathleen"} {
		row := value.NewObject()
		row.Set("name", value.Text(name))
		mem.Seed("user", strings.ToLower(name), value.ObjectValue(row))
	}
}
