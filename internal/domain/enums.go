package domain

import "strings"

// Proficiency symbols, ordered from beginner to advanced.
const (
	SymbolA1 = "a1"
	SymbolA2 = "a2"
	SymbolB1 = "b1"
	SymbolB2 = "b2"
	SymbolC1 = "c1"
	SymbolC2 = "c2"

	// SymbolOther is a filter value matching documents whose symbol is not a known one.
	SymbolOther = "other"
)

// SymbolPriority is the order in which a document's top symbol is chosen.
var SymbolPriority = []string{SymbolA1, SymbolA2, SymbolB1, SymbolB2, SymbolC1, SymbolC2}

// IsKnownSymbol reports whether s is one of SymbolPriority (case-insensitive).
func IsKnownSymbol(s string) bool {
	for _, p := range SymbolPriority {
		if strings.EqualFold(p, s) {
			return true
		}
	}
	return false
}

// RootState is the tag of a document's position in the root graph.
type RootState string

const (
	RootStateStandalone RootState = "standalone"
	RootStateRoot       RootState = "root"
	RootStateChild      RootState = "child"
)

func (s RootState) String() string { return string(s) }

func (s RootState) IsValid() bool {
	switch s {
	case RootStateStandalone, RootStateRoot, RootStateChild:
		return true
	}
	return false
}

// RootLink is the root pointer of a document: standalone (no graph membership),
// a root with at least one child, or a child of the root named by Key.
// Key is set only for RootStateChild.
type RootLink struct {
	State RootState `json:"state"`
	Key   string    `json:"key,omitempty"`
}

// Standalone returns the link of a document outside the root graph.
func Standalone() RootLink { return RootLink{State: RootStateStandalone} }

// AsRoot returns the link of a document that other documents point to.
func AsRoot() RootLink { return RootLink{State: RootStateRoot} }

// ChildOf returns the link of a document pointing at rootKey.
func ChildOf(rootKey string) RootLink { return RootLink{State: RootStateChild, Key: rootKey} }

func (l RootLink) IsStandalone() bool { return l.State == "" || l.State == RootStateStandalone }
func (l RootLink) IsRoot() bool       { return l.State == RootStateRoot }
func (l RootLink) IsChild() bool      { return l.State == RootStateChild }

// Parent returns the root key of a child link.
func (l RootLink) Parent() (string, bool) {
	if l.State != RootStateChild {
		return "", false
	}
	return l.Key, true
}

func (l RootLink) String() string {
	if key, ok := l.Parent(); ok {
		return "child of " + key
	}
	if l.IsRoot() {
		return string(RootStateRoot)
	}
	return string(RootStateStandalone)
}
