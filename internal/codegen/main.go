// Command codegen writes cell_generated.go with the Derive1..DeriveN
// constructors of package etp.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func generateDerive(n int) string {
	var sb strings.Builder

	typeParams := []string{"T any"}
	for i := 1; i <= n; i++ {
		typeParams = append(typeParams, fmt.Sprintf("D%d any", i))
	}

	depParams := []string{}
	for i := 1; i <= n; i++ {
		depParams = append(depParams, fmt.Sprintf("d%d Dependency", i))
	}

	factoryParams := []string{"*ResolveCtx"}
	for i := 1; i <= n; i++ {
		factoryParams = append(factoryParams, fmt.Sprintf("*Controller[D%d]", i))
	}

	deps := []string{}
	for i := 1; i <= n; i++ {
		deps = append(deps, fmt.Sprintf("d%d", i))
	}

	ctrlRefs := []string{"ctx"}
	for i := 1; i <= n; i++ {
		ctrlRefs = append(ctrlRefs, fmt.Sprintf("bind[D%d](ctx, d%d)", i, i))
	}

	sb.WriteString(fmt.Sprintf("// Derive%d defines a derived group over %d declared input(s).\n", n, n))
	sb.WriteString(fmt.Sprintf("func Derive%d[%s](\n", n, strings.Join(typeParams, ", ")))
	for _, dep := range depParams {
		sb.WriteString(fmt.Sprintf("\t%s,\n", dep))
	}
	sb.WriteString(fmt.Sprintf("\tfactory func(%s) (T, error),\n", strings.Join(factoryParams, ", ")))
	sb.WriteString("\topts ...CellOption,\n")
	sb.WriteString(") *Cell[T] {\n")
	sb.WriteString("\treturn newCell(func(ctx *ResolveCtx) (T, error) {\n")
	sb.WriteString(fmt.Sprintf("\t\treturn factory(%s)\n", strings.Join(ctrlRefs, ", ")))
	sb.WriteString(fmt.Sprintf("\t}, []Dependency{%s}, opts)\n", strings.Join(deps, ", ")))
	sb.WriteString("}\n\n")

	return sb.String()
}

func main() {
	arity := flag.Int("n", 6, "highest arity to generate")
	write := flag.Bool("w", false, "write cell_generated.go instead of printing")
	out := flag.String("o", "cell_generated.go", "output path used with -w")
	flag.Parse()

	var output strings.Builder
	output.WriteString("// Code generated by internal/codegen; DO NOT EDIT.\n\n")
	output.WriteString("package etp\n\n")
	output.WriteString("//go:generate go run ./internal/codegen -w\n\n")
	output.WriteString("func bind[D any](ctx *ResolveCtx, dep Dependency) *Controller[D] {\n")
	output.WriteString("\treturn &Controller[D]{\n")
	output.WriteString("\t\tcell:  dep.GetCell().(*Cell[D]),\n")
	output.WriteString("\t\tscope: ctx.scope,\n")
	output.WriteString("\t\tctx:   ctx,\n")
	output.WriteString("\t}\n")
	output.WriteString("}\n\n")
	for i := 1; i <= *arity; i++ {
		output.WriteString(generateDerive(i))
	}

	text := strings.TrimRight(output.String(), "\n") + "\n"
	if !*write {
		fmt.Print(text)
		return
	}

	if err := os.WriteFile(*out, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "codegen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", *out)
}
