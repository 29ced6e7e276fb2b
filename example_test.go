package mxml_test

import (
	"fmt"

	"github.com/gnolang/mxml"
)

func ExampleCompile() {
	t := mxml.MustCompile(`tooltip(message), <? +"data-toggle"="tooltip" +title={{message}}/>`)

	spec, err := t.Generate("Hello")
	if err != nil {
		panic(err)
	}
	for _, rule := range spec.Flatten().FME {
		fmt.Println(rule.Match.When, rule.Edit.Edit)
	}
	// Output:
	// [] [AddAttribute("data-toggle", "tooltip") AddAttribute("title", "Hello")]
}
