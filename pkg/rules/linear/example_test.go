package linear_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/precedence/pkg/rules"
	"github.com/matzehuels/precedence/pkg/rules/linear"
)

func ExampleReorder() {
	g, _ := rules.Build([]string{"1|2", "1|3", "2|3"})

	fixed, err := linear.Reorder(context.Background(), g, rules.Sequence{2, 1, 3})
	if err != nil {
		panic(err)
	}
	fmt.Println(fixed)
	// Output: 1,2,3
}

func ExampleReorder_acceptance() {
	g, _ := rules.Build([]string{"5|1", "1|2"})
	seq := rules.Sequence{1, 5, 2}

	prefix, _ := linear.Reorder(context.Background(), g, seq)
	fmt.Println(prefix)

	_, err := linear.Reorder(context.Background(), g, seq, linear.WithAcceptance(linear.AcceptFull))
	fmt.Println(errors.Is(err, linear.ErrUnsatisfiable))
	// Output:
	// 5,1,2
	// true
}
