// Package pdfreport builds PDF reports from declarative templates and
// row-oriented data.
//
// A template declares reusable content blocks and the sections that print
// them. A section is bound to a data provider and prints its blocks once
// per record, one row slot below the other, between y_start and y_end. A
// row that would start at or below y_end moves to the next page:
//
//	<pdf>
//	  <default format="A4" orientation="P" unit="mm"/>
//	  <info title="Orders" author="{USER}"/>
//	  <content id="row">
//	    <box x1="10" y1="30" x2="80" y2="36" border="B">{customer}</box>
//	    <box x1="80" y1="30" x2="110" y2="36" align="R" border="B">{total}</box>
//	  </content>
//	  <content id="footer">
//	    <pagenumber format="{PAGEINDEX} / {PAGETOTAL}" position="br"/>
//	  </content>
//	  <section id="doc" page="A4,P">
//	    <section id="orders" y_start="30" row_height="6" y_end="270">
//	      <print_content>row</print_content>
//	    </section>
//	    <print_content>footer</print_content>
//	  </section>
//	</pdf>
//
// Text and numeric settings may hold {tags}. A tag is replaced by, in this
// order of precedence, a built-in value such as {PAGEINDEX}, a variable set
// with SetVar, a field of the row being printed, {sectionId.field} of any
// section, {listId.field} of any datalist, or {sectionId.PAGEINDEX}.
// Unknown tags are left as they are.
//
// A Report draws on a canvas.Surface: an fpdf document by default, or the
// one passed with WithSurface.
//
// Basic usage:
//
//	r := pdfreport.New(pdfreport.WithLogger(logger))
//	if err := r.LoadTemplate("orders.xml"); err != nil {
//	    return err
//	}
//	r.SetSection("doc", dataprovider.NewMemory(dataprovider.NewRow("id", 1)), nil)
//	r.SetSection("orders", dataprovider.NewSQL(db, "SELECT customer, total FROM orders"), nil)
//	r.SetVar("USER", "jdoe", true)
//	if err := r.Build(ctx); err != nil {
//	    return err
//	}
//	return r.OutputFile("orders.pdf")
package pdfreport
