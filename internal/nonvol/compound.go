package nonvol

import (
	"fmt"
	"io"
	"strings"
)

// Field is a named child of a Compound. Optional fields were added in later
// firmware revisions; they are skipped when the remaining byte budget of the
// enclosing group is smaller than the field.
type Field struct {
	Name     string
	Val      Val
	Optional bool
}

// Compound is an ordered list of named values. It is the one recursive case
// of the value model: group payloads and nested records are compounds.
type Compound struct {
	fields  []Field
	present []bool
	set     bool
}

// NewCompound builds a compound from fields, in order. Field names must be
// unique within one compound.
func NewCompound(fields ...Field) *Compound {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			panic(fmt.Sprintf("duplicate field name %q", f.Name))
		}
		seen[f.Name] = true
	}
	return &Compound{fields: fields}
}

func (c *Compound) Fields() []Field { return c.fields }
func (c *Compound) IsSet() bool { return c.set }
func (c *Compound) TypeName() string { return "compound" }

// Bytes returns the sum over the fields that are present. Before a Read, all
// fields count.
func (c *Compound) Bytes() int {
	n := 0
	for i, f := range c.fields {
		if c.present != nil && !c.present[i] {
			continue
		}
		n += f.Val.Bytes()
	}
	return n
}

// Read fills the fields in declared order. An optional field is skipped when
// fewer bytes remain in the source than the field needs; this mirrors
// firmware that appends fields in newer versions without bumping the layout.
func (c *Compound) Read(r io.Reader) error {
	present := make([]bool, len(c.fields))
	for i, f := range c.fields {
		if f.Optional {
			if left := remaining(r); left >= 0 && left < f.Val.Bytes() {
				continue
			}
		}
		if err := f.Val.Read(r); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		present[i] = true
	}
	c.present = present
	c.set = true
	return nil
}

// Write emits the present fields in declared order.
func (c *Compound) Write(w io.Writer) error {
	for i, f := range c.fields {
		if c.present != nil && !c.present[i] {
			continue
		}
		if err := f.Val.Write(w); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

// Parse is not supported on whole compounds; set leaf values through Find.
func (c *Compound) Parse(s string) error {
	return fmt.Errorf("%w: cannot parse a compound; set individual fields", ErrParse)
}

func (c *Compound) Pretty() string {
	return c.prettyIndent("")
}

func (c *Compound) prettyIndent(indent string) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range c.fields {
		if c.present != nil && !c.present[i] {
			continue
		}
		b.WriteString(indent + "\t" + f.Name + " = ")
		if nested, ok := f.Val.(*Compound); ok {
			b.WriteString(nested.prettyIndent(indent + "\t"))
		} else {
			b.WriteString(f.Val.Pretty())
		}
		b.WriteString("\n")
	}
	b.WriteString(indent + "}")
	return b.String()
}

// Find resolves a dotted path relative to this compound: "a.b.c" descends
// into nested compounds by field name.
func (c *Compound) Find(path string) (Val, error) {
	head, rest, nested := strings.Cut(path, ".")

	for i, f := range c.fields {
		if f.Name != head {
			continue
		}
		if c.present != nil && !c.present[i] {
			return nil, fmt.Errorf("%w: %q is not present in this container", ErrNotFound, head)
		}
		if !nested {
			return f.Val, nil
		}
		sub, ok := f.Val.(*Compound)
		if !ok {
			return nil, fmt.Errorf("%w: %q is a %s, not a compound", ErrNotFound, head, f.Val.TypeName())
		}
		return sub.Find(rest)
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, head)
}
