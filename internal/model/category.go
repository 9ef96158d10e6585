package model

// DefaultCategories is the category list used when no file is configured
var DefaultCategories = []string{
	"Electronics",
	"Home & Kitchen",
	"Fashion",
	"Beauty",
	"Books",
	"Sports",
	"Toys",
}

// Categories is the fixed, ordered set of product categories.
// It is loaded once at startup and never modified afterwards.
type Categories struct {
	names []string
	index map[string]struct{}
}

func NewCategories(names []string) Categories {
	c := Categories{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, dup := c.index[n]; dup {
			continue
		}
		c.index[n] = struct{}{}
		c.names = append(c.names, n)
	}
	return c
}

// Names returns a copy of the category labels in configured order.
func (c Categories) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c Categories) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c Categories) Len() int {
	return len(c.names)
}
