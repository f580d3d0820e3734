// Package protocol implements the line-oriented marketplace protocol:
// parsing raw request text into commands and answering them from the catalog.
package protocol

import "strings"

type Kind int

const (
	KindInvalid Kind = iota
	KindHead
	KindList
	KindGet
	KindSearch
	KindCategories
)

func (k Kind) String() string {
	switch k {
	case KindHead:
		return "HEAD"
	case KindList:
		return "LIST"
	case KindGet:
		return "GET"
	case KindSearch:
		return "SEARCH"
	case KindCategories:
		return "CATEGORIES"
	default:
		return "INVALID"
	}
}

// Command is a parsed request. Arg holds the category filter for LIST, the
// id for GET and the term for SEARCH; HasArg distinguishes an absent LIST
// filter. Raw keeps the original text for Invalid commands.
type Command struct {
	Kind   Kind
	Arg    string
	HasArg bool
	Raw    string
}

func Head() Command                 { return Command{Kind: KindHead} }
func List() Command                 { return Command{Kind: KindList} }
func ListCategory(c string) Command { return Command{Kind: KindList, Arg: c, HasArg: true} }
func Get(id string) Command         { return Command{Kind: KindGet, Arg: id, HasArg: true} }
func Search(term string) Command    { return Command{Kind: KindSearch, Arg: term, HasArg: true} }
func Categories() Command           { return Command{Kind: KindCategories} }
func Invalid(raw string) Command    { return Command{Kind: KindInvalid, Raw: raw} }

// Parse never fails: anything it does not recognise becomes Invalid.
// Extra arguments beyond the first are ignored.
func Parse(line string) Command {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Invalid(line)
	}

	args := parts[1:]

	switch strings.ToUpper(parts[0]) {
	case "HEAD":
		return Head()
	case "LIST":
		if len(args) > 0 {
			return ListCategory(args[0])
		}
		return List()
	case "GET":
		if len(args) == 0 {
			return Invalid(line)
		}
		return Get(args[0])
	case "SEARCH":
		if len(args) == 0 {
			return Invalid(line)
		}
		return Search(args[0])
	case "CATEGORIES":
		return Categories()
	default:
		return Invalid(line)
	}
}
