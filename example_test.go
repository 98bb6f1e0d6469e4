package goliquid_test

import (
	"fmt"
	"strings"

	"github.com/deicod/goliquid"
	"github.com/deicod/goliquid/nodes"
	"github.com/deicod/goliquid/values"
)

func ExampleParse() {
	tmpl, err := goliquid.Parse("Hello {{ name }}! You have {{ count }} new messages.")
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx := goliquid.NewContext()
	ctx.SetValue("name", "Alice")
	ctx.SetValue("count", 5)

	output, err := tmpl.Render(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(output)
	// Output: Hello Alice! You have 5 new messages.
}

func ExampleContext_SetFilter() {
	ctx := goliquid.NewContext()
	ctx.SetFilter("inc", func(input values.Value, args []values.Value) (values.Value, error) {
		step := 1.0
		if len(args) > 0 {
			step = values.ToNumber(args[0])
		}
		return values.Number(values.ToNumber(input) + step), nil
	})

	output, _ := goliquid.MustParse("{{ 1 | inc: 2 | inc }}").Render(ctx)
	fmt.Println(output)
	// Output: 4
}

func ExampleTemplate_Render_loop() {
	ctx := goliquid.NewContext()
	ctx.SetValue("products", []any{
		values.Map{"title": "shirt", "price": 20},
		values.Map{"title": "hat", "price": 15},
	})

	source := strings.Join([]string{
		"{% for p in products %}",
		"{{ forloop.index }}. {{ p.title | capitalize }} ${{ p.price }}",
		"{% unless forloop.last %}, {% endunless %}",
		"{% else %}no products{% endfor %}",
	}, "")

	output, _ := goliquid.MustParse(source).Render(ctx)
	fmt.Println(output)
	// Output: 1. Shirt $20, 2. Hat $15
}

func ExampleTemplate_Render_errorModes() {
	tmpl := goliquid.MustParse("a{{ 1 | shout }}b")

	output, err := tmpl.Render(goliquid.NewContext())
	fmt.Printf("%q %v\n", output, err != nil)

	ctx := goliquid.NewContext()
	ctx.SetErrorMode(goliquid.ErrorModeFailFast)
	output, err = tmpl.Render(ctx)
	fmt.Printf("%q %v\n", output, err != nil)
	// Output:
	// "ab" true
	// "a" true
}

func ExampleTryParse() {
	_, diagnostics, ok := goliquid.TryParse("{{ x }}\n{% for %}")
	fmt.Println(ok)
	fmt.Println(diagnostics[0].Severity, diagnostics[0].Line)
	// Output:
	// false
	// error 2
}

func ExampleWalk() {
	tmpl := goliquid.MustParse("{{ a | upcase }} {{ b | split: ',' | join: '-' }}")

	var filters []string
	goliquid.Walk(nodes.NodeVisitorFunc(func(node goliquid.Node) interface{} {
		if call, ok := node.(*nodes.FilterCall); ok {
			filters = append(filters, call.Name)
		}
		return nil
	}), tmpl.Root())

	fmt.Println(strings.Join(filters, " "))
	// Output: upcase split join
}
