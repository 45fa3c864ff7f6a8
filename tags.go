package pdfreport

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/lvillar/pdfreport/dataprovider"
)

// Date and time layouts of {CURRENTDATE} and {CURRENTTIME}.
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04:05"
)

// Vars is the user variable namespace. Keys are trimmed, stripped of
// braces and stored uppercase; iteration follows insertion order.
type Vars struct {
	keys   []string
	values map[string]any
}

// NormalizeVarKey returns the stored form of a variable name.
func NormalizeVarKey(key string) string {
	key = strings.NewReplacer("{", "", "}", "").Replace(key)
	return strings.ToUpper(strings.TrimSpace(key))
}

// Set stores value under key. An existing key is replaced only when
// overwrite is true. Set reports false for an empty key.
func (v *Vars) Set(key string, value any, overwrite bool) bool {
	key = NormalizeVarKey(key)
	if key == "" {
		return false
	}
	if v.values == nil {
		v.values = make(map[string]any)
	}
	if _, ok := v.values[key]; ok {
		if overwrite {
			v.values[key] = value
		}
		return true
	}
	v.keys = append(v.keys, key)
	v.values[key] = value
	return true
}

// Get returns the value stored under key.
func (v *Vars) Get(key string) (any, bool) {
	val, ok := v.values[NormalizeVarKey(key)]
	return val, ok
}

// Keys returns the variable names in insertion order.
func (v *Vars) Keys() []string { return v.keys }

func (v *Vars) Len() int { return len(v.keys) }

// Resolver substitutes {tags} in template text. The layers are applied in
// this order, and the remaining text is returned as soon as no tag is left:
//
//  1. constants: {CURRENTDATE}, {CURRENTTIME}, {PAGEINDEX}, {PAGECOUNT},
//     {PAGETOTAL} and {RAND1} .. {RAND8}
//  2. user variables
//  3. {Y} and the fields of the active section row
//  4. {sectionId.field} for every section row
//  5. {listId.field} for every datalist row
//  6. {sectionId.PAGEINDEX}
//
// Tag names match case-insensitively. Unknown tags are left in place and a
// nil field value becomes the empty string.
type Resolver struct {
	Now        time.Time
	Rand       *rand.Rand
	PageIndex  int
	PageCount  int
	TotalAlias string
	Vars       *Vars
	Active     *Section
	Sections   []*Section
	Lists      []*Datalist
}

// Resolve returns text with every known tag replaced.
func (rv *Resolver) Resolve(text string) string {
	if !hasTags(text) {
		return text
	}
	text = rv.constants(text)

	if rv.Vars != nil {
		for _, key := range rv.Vars.keys {
			text = replaceFold(text, "{"+key+"}", dataprovider.FormatValue(rv.Vars.values[key]))
		}
	}
	if !hasTags(text) {
		return text
	}

	if rv.Active != nil {
		text = replaceFold(text, "{Y}", formatFloat(rv.Active.CurrentY()))
		text = replaceRow(text, "", rv.Active.row)
	}
	if !hasTags(text) {
		return text
	}

	for _, s := range rv.Sections {
		text = replaceRow(text, s.id+".", s.row)
	}
	for _, l := range rv.Lists {
		text = replaceRow(text, l.id+".", l.row)
	}
	for _, s := range rv.Sections {
		text = replaceFold(text, "{"+s.id+".PAGEINDEX}", strconv.Itoa(s.pageIndex))
	}
	return text
}

func (rv *Resolver) constants(text string) string {
	now := rv.Now
	if now.IsZero() {
		now = time.Now()
	}
	text = replaceFold(text, "{CURRENTDATE}", now.Format(DateLayout))
	text = replaceFold(text, "{CURRENTTIME}", now.Format(TimeLayout))
	text = replaceFold(text, "{PAGEINDEX}", strconv.Itoa(rv.PageIndex))
	text = replaceFold(text, "{PAGECOUNT}", strconv.Itoa(rv.PageCount))
	if rv.TotalAlias != "" {
		text = replaceFold(text, "{PAGETOTAL}", rv.TotalAlias)
	}

	low := 1
	for n := 1; n <= 8; n++ {
		tag := "{RAND" + strconv.Itoa(n) + "}"
		if containsFold(text, tag) {
			text = replaceFold(text, tag, strconv.Itoa(low+rv.intn(low*9)))
		}
		low *= 10
	}
	return text
}

func (rv *Resolver) intn(n int) int {
	if rv.Rand == nil {
		return rand.Intn(n)
	}
	return rv.Rand.Intn(n)
}

func replaceRow(text, prefix string, row dataprovider.Row) string {
	for _, f := range row {
		text = replaceFold(text, "{"+prefix+f.Name+"}", dataprovider.FormatValue(f.Value))
	}
	return text
}

// hasTags reports whether text still has both an opening and a closing brace.
func hasTags(text string) bool {
	return strings.Contains(text, "{") && strings.Contains(text, "}")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// replaceFold replaces every case-insensitive occurrence of old, which
// starts with '{', by repl.
func replaceFold(s, old, repl string) string {
	n := len(old)
	if n == 0 || len(s) < n {
		return s
	}
	var b strings.Builder
	last := 0
	for i := 0; i+n <= len(s); {
		if s[i] == old[0] && strings.EqualFold(s[i:i+n], old) {
			b.WriteString(s[last:i])
			b.WriteString(repl)
			i += n
			last = i
			continue
		}
		i++
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(sub))
}
