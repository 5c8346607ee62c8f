package chrome

import "testing"

func TestHitNewTabPlus(t *testing.T) {
	s := State{Tabs: []TabInfo{{Title: "a"}, {Title: "b"}}}
	action, idx := Hit(s, float64(len(s.Tabs))*tabWidth+5, 5)
	if action != ActionNewTab {
		t.Fatalf("expected ActionNewTab, got %v", action)
	}
	if idx != -1 {
		t.Fatalf("expected no tab index for new-tab hit, got %d", idx)
	}
}

func TestHitSwitchTab(t *testing.T) {
	s := State{Tabs: []TabInfo{{Title: "a"}, {Title: "b"}}}
	action, idx := Hit(s, tabWidth+5, 5)
	if action != ActionSwitchTab {
		t.Fatalf("expected ActionSwitchTab, got %v", action)
	}
	if idx != 1 {
		t.Fatalf("expected tab index 1, got %d", idx)
	}
}

func TestHitBackButton(t *testing.T) {
	s := State{}
	action, _ := Hit(s, padding+1, barHeight/2+padding+1)
	if action != ActionBack {
		t.Fatalf("expected ActionBack, got %v", action)
	}
}

func TestHitAddressBar(t *testing.T) {
	s := State{}
	action, _ := Hit(s, 200, barHeight/2+padding+1)
	if action != ActionFocusAddress {
		t.Fatalf("expected ActionFocusAddress, got %v", action)
	}
}

func TestHitBelowChromeIsNone(t *testing.T) {
	s := State{}
	action, _ := Hit(s, 50, barHeight+10)
	if action != ActionNone {
		t.Fatalf("expected ActionNone below the chrome band, got %v", action)
	}
}

func TestPaintProducesNonEmptyCommandList(t *testing.T) {
	s := State{Tabs: []TabInfo{{Title: "a", Active: true}}, AddressText: "about:blank"}
	cmds := Paint(800, s)
	if len(cmds) == 0 {
		t.Fatal("expected Paint to emit at least one paint command")
	}
}
