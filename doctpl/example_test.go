package doctpl_test

import (
	"fmt"
	"strings"

	"github.com/lvillar/pdfreport/doctpl"
)

func ExampleParseXML() {
	root, err := doctpl.ParseXML(strings.NewReader(`
<pdf>
  <section id="invoice" page="A4,P">
    <print_content>header</print_content>
    <section id="lines" y_start="60" row_height="6" y_end="250">
      <print_content>line</print_content>
    </section>
  </section>
</pdf>`))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	root.Walk(func(n *doctpl.Node) bool {
		if n.Name == "section" {
			fmt.Println(n.Key(), n.String("id", ""), n.String("page|y_start", "-"))
		}
		return true
	})
	// Output:
	// section.0 invoice A4,P
	// section.0 lines 60
}
