package observable

import "testing"

func TestCellReplaysCurrentValue(t *testing.T) {
	cell := NewCell(3)
	var got []int
	unsubscribe := cell.Subscribe(func(v int) { got = append(got, v) })
	defer unsubscribe()
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected replay of 3, got %#v", got)
	}
	cell.Set(4)
	if len(got) != 2 || got[1] != 4 {
		t.Fatalf("expected notification of 4, got %#v", got)
	}
}

func TestCellUnsubscribe(t *testing.T) {
	cell := NewCell("a")
	calls := 0
	unsubscribe := cell.Subscribe(func(string) { calls++ })
	unsubscribe()
	unsubscribe()
	cell.Set("b")
	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
	if cell.Get() != "b" {
		t.Fatalf("Get() = %q, want b", cell.Get())
	}
}

func TestCellNotifiesInOrder(t *testing.T) {
	cell := NewCell(false)
	var order []string
	cell.Subscribe(func(bool) { order = append(order, "first") })
	cell.Subscribe(func(bool) { order = append(order, "second") })
	order = nil
	cell.Set(true)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected order %#v", order)
	}
}
