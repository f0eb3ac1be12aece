package slider

import "testing"

func TestSnapRung(t *testing.T) {
	cases := []struct {
		p     float64
		rungs int
		want  int
	}{
		{0, 5, 0},
		{1, 5, 4},
		{0.5, 5, 2},
		{0.24, 5, 1},
		{0.26, 5, 1},
		{0.40, 5, 2},
		{-0.3, 5, 0},
		{1.7, 5, 4},
		{0.9, 1, 0},
		{0.49, 2, 0},
		{0.51, 2, 1},
	}
	for _, c := range cases {
		if got := SnapRung(c.p, c.rungs); got != c.want {
			t.Fatalf("SnapRung(%v, %d) = %d, want %d", c.p, c.rungs, got, c.want)
		}
	}
}

func TestSlider_ChangeFiresOnceOnRelease(t *testing.T) {
	var fires int
	var gotPrev, gotNext int
	s := New(5, 1, func(prev, next int) {
		fires++
		gotPrev, gotNext = prev, next
	})

	s.Press(0.25)
	if s.State() != StateActive {
		t.Fatalf("press should activate, state=%d", s.State())
	}
	s.Drag(0.5)
	s.Drag(0.75)
	s.Drag(1.0)
	if s.State() != StateSliding {
		t.Fatalf("drag should slide, state=%d", s.State())
	}
	if fires != 0 {
		t.Fatalf("change fired mid-gesture")
	}

	s.Release()
	if s.State() != StateIdle {
		t.Fatalf("release should return to idle")
	}
	if fires != 1 {
		t.Fatalf("expected exactly one change, got %d", fires)
	}
	if gotPrev != 1 || gotNext != 4 {
		t.Fatalf("change compared wrong values: prev=%d next=%d", gotPrev, gotNext)
	}
}

func TestSlider_ReleaseAtStartValueIsSilent(t *testing.T) {
	var fires int
	s := New(5, 2, func(int, int) { fires++ })

	s.Press(0.5) // snaps to 2, same as initial
	s.Drag(0.9)
	s.Drag(0.5) // back to the press-time capture
	s.Release()

	if fires != 0 {
		t.Fatalf("round trip back to the start value must not fire, got %d", fires)
	}
}

func TestSlider_IgnoresOutOfOrderGestures(t *testing.T) {
	var fires int
	s := New(3, 0, func(int, int) { fires++ })

	s.Drag(1.0) // no press yet
	if s.Value() != 0 || s.State() != StateIdle {
		t.Fatalf("drag without press changed state")
	}
	s.Release()
	if fires != 0 {
		t.Fatalf("release without press fired a change")
	}

	s.Press(1.0)
	s.Press(0.0) // second press during a gesture is ignored
	if s.Value() != 2 {
		t.Fatalf("second press reset the value: %d", s.Value())
	}
	s.Release()
	if fires != 1 {
		t.Fatalf("expected one change after click-to-set, got %d", fires)
	}
}
