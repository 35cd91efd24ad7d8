package decoder

import "testing"

func TestStateTranslated(t *testing.T) {
	tests := []struct {
		s    State
		want int
	}{
		{State{}, 0},
		{State{Covered: 3}, 3},
		{State{Covered: 2, Gap: Gap{Start: 0, End: 1}}, 1},
		{State{Covered: 4, Gap: Gap{Start: 1, End: 3}}, 2},
	}
	for _, tt := range tests {
		if got := tt.s.translated(); got != tt.want {
			t.Errorf("translated(%+v) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestStateLess(t *testing.T) {
	tests := []struct {
		a, b State
		want bool
	}{
		{State{Covered: 1}, State{Covered: 2}, true},
		{State{Covered: 2}, State{Covered: 1}, false},
		{State{Covered: 2, Gap: Gap{Start: 0, End: 1}}, State{Covered: 2, Gap: Gap{Start: 1, End: 2}}, true},
		{State{Covered: 2, Gap: Gap{Start: 0, End: 1}}, State{Covered: 2, Gap: Gap{Start: 0, End: 2}}, true},
		{State{Covered: 2, Context: "a"}, State{Covered: 2, Context: "b"}, true},
		{State{Covered: 2, Context: "b"}, State{Covered: 2, Context: "b"}, false},
	}
	for _, tt := range tests {
		if got := tt.a.less(tt.b); got != tt.want {
			t.Errorf("less(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGapIsOpen(t *testing.T) {
	if (Gap{}).IsOpen() {
		t.Error("zero gap should be closed")
	}
	if !(Gap{Start: 1, End: 3}).IsOpen() {
		t.Error("gap [1, 3) should be open")
	}
}
