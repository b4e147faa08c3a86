package domain

import "testing"

func TestRootLink_States(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		link       RootLink
		standalone bool
		root       bool
		child      bool
		parent     string
	}{
		{name: "zero value is standalone", link: RootLink{}, standalone: true},
		{name: "standalone", link: Standalone(), standalone: true},
		{name: "root", link: AsRoot(), root: true},
		{name: "child", link: ChildOf("run"), child: true, parent: "run"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.link.IsStandalone(); got != tt.standalone {
				t.Errorf("IsStandalone() = %v, want %v", got, tt.standalone)
			}
			if got := tt.link.IsRoot(); got != tt.root {
				t.Errorf("IsRoot() = %v, want %v", got, tt.root)
			}
			if got := tt.link.IsChild(); got != tt.child {
				t.Errorf("IsChild() = %v, want %v", got, tt.child)
			}
			parent, ok := tt.link.Parent()
			if parent != tt.parent || ok != tt.child {
				t.Errorf("Parent() = (%q, %v), want (%q, %v)", parent, ok, tt.parent, tt.child)
			}
		})
	}
}

func TestRootState_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []RootState{RootStateStandalone, RootStateRoot, RootStateChild} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if RootState("orphan").IsValid() {
		t.Error("unknown state should be invalid")
	}
}

func TestIsKnownSymbol(t *testing.T) {
	t.Parallel()

	if !IsKnownSymbol("b2") || !IsKnownSymbol("C1") {
		t.Error("expected b2 and C1 to be known")
	}
	if IsKnownSymbol("") || IsKnownSymbol(SymbolOther) || IsKnownSymbol("d1") {
		t.Error("expected empty, other and d1 to be unknown")
	}
}
