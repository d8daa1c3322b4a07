package kotlin

// Comment is a source comment kept in the extras side table. Text keeps
// the delimiters, which Kotlin shares with the origin dialect.
type Comment struct {
	Text     string
	Trailing bool // written on the same line as the code before it
}

// ExtrasMap answers which comments surround a node. Every method returns
// an empty slice for a node without comments.
type ExtrasMap interface {
	ExtrasBefore(n Node) []Comment
	ExtrasAfter(n Node) []Comment
	ExtrasWithin(n Node) []Comment
}

// Extras is the ExtrasMap produced by lowering. Nodes are keyed by
// identity, so two equal-looking statements never share comments.
type Extras struct {
	before map[Node][]Comment
	after  map[Node][]Comment
	within map[Node][]Comment
}

// NewExtras creates an empty side table.
func NewExtras() *Extras {
	return &Extras{
		before: make(map[Node][]Comment),
		after:  make(map[Node][]Comment),
		within: make(map[Node][]Comment),
	}
}

// AddBefore attaches comments printed on the lines before n.
func (e *Extras) AddBefore(n Node, comments ...Comment) {
	e.before[n] = append(e.before[n], comments...)
}

// AddAfter attaches comments printed after n.
func (e *Extras) AddAfter(n Node, comments ...Comment) {
	e.after[n] = append(e.after[n], comments...)
}

// AddWithin attaches comments printed inside the braces of n.
func (e *Extras) AddWithin(n Node, comments ...Comment) {
	e.within[n] = append(e.within[n], comments...)
}

// ExtrasBefore implements ExtrasMap.
func (e *Extras) ExtrasBefore(n Node) []Comment {
	if e == nil {
		return []Comment{}
	}
	return orEmpty(e.before[n])
}

// ExtrasAfter implements ExtrasMap.
func (e *Extras) ExtrasAfter(n Node) []Comment {
	if e == nil {
		return []Comment{}
	}
	return orEmpty(e.after[n])
}

// ExtrasWithin implements ExtrasMap.
func (e *Extras) ExtrasWithin(n Node) []Comment {
	if e == nil {
		return []Comment{}
	}
	return orEmpty(e.within[n])
}

// Len returns the number of attached comments.
func (e *Extras) Len() int {
	if e == nil {
		return 0
	}
	n := 0
	for _, m := range []map[Node][]Comment{e.before, e.after, e.within} {
		for _, cs := range m {
			n += len(cs)
		}
	}
	return n
}

func orEmpty(cs []Comment) []Comment {
	if cs == nil {
		return []Comment{}
	}
	return cs
}

// noExtras is the ExtrasMap of a tree without comments.
type noExtras struct{}

func (noExtras) ExtrasBefore(Node) []Comment { return []Comment{} }
func (noExtras) ExtrasAfter(Node) []Comment  { return []Comment{} }
func (noExtras) ExtrasWithin(Node) []Comment { return []Comment{} }
