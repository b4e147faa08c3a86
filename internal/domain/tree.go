package domain

// NodeKind names the identifiable node types of an entry tree.
type NodeKind string

const (
	NodeEntry       NodeKind = "entry"
	NodeSense       NodeKind = "sense"
	NodeIdiom       NodeKind = "idiom"
	NodePhrasalVerb NodeKind = "phrasal_verb"
	NodeExample     NodeKind = "example"
)

// Node is an identifiable element of an entry tree. The set of implementations
// is closed: *Entry, *Sense, *Idiom, *PhrasalVerbGroup, *Example.
type Node interface {
	Kind() NodeKind
	Identifier() string
	SetIdentifier(id string)
	Children() []Node
}

var (
	_ Node = (*Entry)(nil)
	_ Node = (*Sense)(nil)
	_ Node = (*Idiom)(nil)
	_ Node = (*PhrasalVerbGroup)(nil)
	_ Node = (*Example)(nil)
)

func (e *Entry) Kind() NodeKind          { return NodeEntry }
func (e *Entry) Identifier() string      { return e.ID }
func (e *Entry) SetIdentifier(id string) { e.ID = id }

func (s *Sense) Kind() NodeKind          { return NodeSense }
func (s *Sense) Identifier() string      { return s.ID }
func (s *Sense) SetIdentifier(id string) { s.ID = id }

func (i *Idiom) Kind() NodeKind          { return NodeIdiom }
func (i *Idiom) Identifier() string      { return i.ID }
func (i *Idiom) SetIdentifier(id string) { i.ID = id }

func (p *PhrasalVerbGroup) Kind() NodeKind          { return NodePhrasalVerb }
func (p *PhrasalVerbGroup) Identifier() string      { return p.ID }
func (p *PhrasalVerbGroup) SetIdentifier(id string) { p.ID = id }

func (x *Example) Kind() NodeKind          { return NodeExample }
func (x *Example) Identifier() string      { return x.ID }
func (x *Example) SetIdentifier(id string) { x.ID = id }

// Children returns senses, then idioms, then phrasal verb groups.
func (e *Entry) Children() []Node {
	nodes := make([]Node, 0, len(e.Senses)+len(e.Idioms)+len(e.PhrasalVerbSenses))
	nodes = appendSenses(nodes, e.Senses)
	for i := range e.Idioms {
		nodes = append(nodes, &e.Idioms[i])
	}
	for i := range e.PhrasalVerbSenses {
		nodes = append(nodes, &e.PhrasalVerbSenses[i])
	}
	return nodes
}

func (s *Sense) Children() []Node {
	nodes := make([]Node, 0, len(s.Examples))
	for i := range s.Examples {
		nodes = append(nodes, &s.Examples[i])
	}
	return nodes
}

func (i *Idiom) Children() []Node {
	return appendSenses(make([]Node, 0, len(i.Senses)), i.Senses)
}

func (p *PhrasalVerbGroup) Children() []Node {
	return appendSenses(make([]Node, 0, len(p.Senses)), p.Senses)
}

func (x *Example) Children() []Node { return nil }

func appendSenses(nodes []Node, senses []Sense) []Node {
	for i := range senses {
		nodes = append(nodes, &senses[i])
	}
	return nodes
}

// Walk visits n and all of its descendants in pre-order.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// AssignIDs gives every node without an identifier a fresh one from newID.
// Existing identifiers are never replaced. Returns the number of ids assigned.
func AssignIDs(entries []Entry, newID func() string) int {
	assigned := 0
	for i := range entries {
		Walk(&entries[i], func(n Node) {
			if n.Identifier() != "" {
				return
			}
			n.SetIdentifier(newID())
			assigned++
		})
	}
	return assigned
}
