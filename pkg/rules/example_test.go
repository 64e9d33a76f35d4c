package rules_test

import (
	"fmt"

	"github.com/matzehuels/precedence/pkg/rules"
)

func ExampleIsConsistent() {
	g, err := rules.Build([]string{"1|2", "1|3", "2|3"})
	if err != nil {
		panic(err)
	}

	fmt.Println(rules.IsConsistent(g, rules.Sequence{1, 2, 3}))
	fmt.Println(rules.IsConsistent(g, rules.Sequence{2, 1, 3}))
	// Output:
	// true
	// false
}

func ExampleRestrict() {
	g, _ := rules.Build([]string{"1|2", "2|3", "3|4"})

	scoped := rules.Restrict(g, rules.ScopeOf(rules.Sequence{2, 3}))
	fmt.Print(scoped)
	fmt.Println(g.RuleCount())
	// Output:
	// 2|3
	// 3
}

func ExampleFirstViolation() {
	g, _ := rules.Build([]string{"47|53", "53|29"})

	if v, found := rules.FirstViolation(g, rules.Sequence{53, 47, 29}); found {
		fmt.Println(v)
	}
	// Output:
	// 47 at 1 is not a successor of 53 at 0
}
