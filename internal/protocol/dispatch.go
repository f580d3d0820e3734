package protocol

import (
	"fmt"
	"sort"
	"strings"

	"Bazaar/internal/catalog"
)

const (
	RespOK          = "OK\n"
	RespNoItems     = "No items found\n"
	RespNoMatches   = "No items found matching your search\n"
	categoryHeader  = "Available categories:\n"
	notFoundFormat  = "Item with ID %s not found\n"
	RespInvalidHelp = "Invalid command. Available commands:\n" +
		"HEAD\n" +
		"LIST [category]\n" +
		"GET <id>\n" +
		"SEARCH <term>\n" +
		"CATEGORIES\n"
)

// Catalog is the read side of the item store the dispatcher needs.
type Catalog interface {
	Items() []catalog.Item
	Get(id string) (catalog.Item, bool)
}

type Dispatcher struct {
	cat Catalog
}

func NewDispatcher(cat Catalog) *Dispatcher {
	return &Dispatcher{cat: cat}
}

// Handle parses one request and returns its response text.
func (d *Dispatcher) Handle(line string) string {
	return d.Dispatch(Parse(line))
}

func (d *Dispatcher) Dispatch(cmd Command) string {
	switch cmd.Kind {
	case KindHead:
		return RespOK
	case KindList:
		return d.list(cmd)
	case KindGet:
		return d.get(cmd.Arg)
	case KindSearch:
		return d.search(cmd.Arg)
	case KindCategories:
		return d.categories()
	default:
		return RespInvalidHelp
	}
}

func (d *Dispatcher) list(cmd Command) string {
	items := d.cat.Items()
	if cmd.HasArg {
		items = filter(items, func(it catalog.Item) bool {
			return strings.EqualFold(it.Category, cmd.Arg)
		})
	}
	if len(items) == 0 {
		return RespNoItems
	}
	return listing(items)
}

func (d *Dispatcher) get(id string) string {
	it, ok := d.cat.Get(id)
	if !ok {
		return fmt.Sprintf(notFoundFormat, id)
	}
	return fmt.Sprintf("ID: %s\nName: %s\nCategory: %s\nPrice: %s\nSeller: %s\n\n%s\n",
		it.ID, it.Name, it.Category, it.Price, it.Seller, it.Description)
}

func (d *Dispatcher) search(term string) string {
	term = strings.ToLower(term)
	items := filter(d.cat.Items(), func(it catalog.Item) bool {
		return strings.Contains(strings.ToLower(it.Name), term) ||
			strings.Contains(strings.ToLower(it.Description), term) ||
			strings.Contains(strings.ToLower(it.Category), term)
	})
	if len(items) == 0 {
		return RespNoMatches
	}
	return listing(items)
}

func (d *Dispatcher) categories() string {
	seen := make(map[string]struct{})
	for _, it := range d.cat.Items() {
		seen[it.Category] = struct{}{}
	}

	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var b strings.Builder
	b.WriteString(categoryHeader)
	for _, c := range cats {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteByte('\n')
	}
	return b.String()
}

func filter(items []catalog.Item, keep func(catalog.Item) bool) []catalog.Item {
	var out []catalog.Item
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func listing(items []catalog.Item) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s. %s - %s\n", it.ID, it.Name, it.Price)
	}
	return b.String()
}
