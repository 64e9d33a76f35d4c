// Package pkg provides the libraries behind the precedence tool.
//
// # Overview
//
// Precedence reads pairwise ordering rules ("X|Y": X must come before Y) and
// sequences of items. It reports which sequences already respect the rules,
// reorders the ones that do not, and sums the middle items of both groups.
//
// # Architecture
//
// The typical data flow:
//
//	Input file (rules, blank line, sequences)
//	         ↓
//	    [io] package (read numbered lines)
//	         ↓
//	    [rules] package (rule graph, validation)
//	         ↓
//	    [rules/linear] package (repair search)
//	         ↓
//	    [pipeline] package (check, repair, cache, sums)
//	         ↓
//	    JSON report / DOT / SVG / PDF / PNG
//
// # Quick Start
//
// Check and repair a file:
//
//	in, _ := io.ImportFile("input.txt")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), in, pipeline.Options{})
//	fmt.Println(result.ValidSum, result.RepairedSum)
//
// Repair one sequence directly:
//
//	g, _ := rules.Build([]string{"47|53", "97|47", "97|53"})
//	fixed, err := linear.Reorder(ctx, g, rules.Sequence{53, 47, 97})
//
// # Main Packages
//
// [rules] - Items, sequences and the rule graph. Each item keeps the set of
// items that must precede it and the set that must follow it. Validation
// reports the first broken rule of a sequence.
//
// [rules/linear] - The repair search. It restricts the graph to the items of
// a sequence, then walks successor paths from every item without
// predecessors, fanning out over the first step in parallel.
//
// [pipeline] - Orchestration shared by the CLI and the HTTP API: parsing,
// checking, cached repairs, sums and diagrams.
//
// [cache] - Repair and report caching with file, Redis and no-op backends.
//
// [render] - Graphviz diagrams of the rule graph with an optional highlighted
// sequence.
//
// [io] - Input files and JSON reports.
//
// [errors] - Error codes and input validation.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// # Testing
//
//	go test ./pkg/...                   # All tests
//	go test ./pkg/rules/linear/...      # Search only
//	go test -run Example ./pkg/...      # Examples only
//
// [rules]: https://pkg.go.dev/github.com/matzehuels/precedence/pkg/rules
// [rules/linear]: https://pkg.go.dev/github.com/matzehuels/precedence/pkg/rules/linear
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/precedence/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/precedence/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/precedence/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/precedence/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/precedence/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/precedence/pkg/observability
package pkg
