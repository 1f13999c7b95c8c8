package geom

import "testing"

func TestSwapDecisionString(t *testing.T) {
	tests := []struct {
		d    SwapDecision
		want string
	}{
		{NoSwap, "none"},
		{SwapBefore, "before"},
		{SwapAfter, "after"},
		{SwapDecision(9), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("SwapDecision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEvaluateFullThreshold(t *testing.T) {
	// Threshold 1: whole item is the zone, side decided by the half.
	cfg := DefaultSwapConfig()
	target := Rect{0, 100, 50, 20}

	tests := []struct {
		name string
		p    Point
		want SwapDecision
	}{
		{"upper half", Point{10, 104}, SwapBefore},
		{"exact middle", Point{10, 110}, SwapAfter},
		{"lower half", Point{10, 118}, SwapAfter},
		{"above target clamps", Point{10, 90}, SwapBefore},
		{"below target clamps", Point{10, 130}, SwapAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Evaluate(tt.p, target, AxisVertical); got != tt.want {
				t.Errorf("Evaluate(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestEvaluatePartialThreshold(t *testing.T) {
	// Threshold 0.5: only the middle half commits; edge quarters are inert.
	cfg := SwapConfig{Threshold: 0.5}
	target := Rect{0, 0, 100, 40}

	tests := []struct {
		name string
		p    Point
		want SwapDecision
	}{
		{"leading edge band", Point{0, 2}, NoSwap},
		{"just inside zone upper", Point{0, 12}, SwapBefore},
		{"just inside zone lower", Point{0, 28}, SwapAfter},
		{"trailing edge band", Point{0, 38}, NoSwap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Evaluate(tt.p, target, AxisVertical); got != tt.want {
				t.Errorf("Evaluate(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestEvaluateInverted(t *testing.T) {
	// Inverted: edge bands commit, middle is inert.
	cfg := SwapConfig{Threshold: 1, Invert: true, InvertedThreshold: 0.5}
	target := Rect{0, 0, 100, 40}

	tests := []struct {
		name string
		p    Point
		want SwapDecision
	}{
		{"leading band", Point{0, 5}, SwapBefore},
		{"middle inert", Point{0, 20}, NoSwap},
		{"trailing band", Point{0, 36}, SwapAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Evaluate(tt.p, target, AxisVertical); got != tt.want {
				t.Errorf("Evaluate(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestEvaluateHorizontalAxis(t *testing.T) {
	cfg := DefaultSwapConfig()
	target := Rect{100, 0, 60, 20}

	if got := cfg.Evaluate(Point{110, 10}, target, AxisHorizontal); got != SwapBefore {
		t.Errorf("left half = %v, want %v", got, SwapBefore)
	}
	if got := cfg.Evaluate(Point{150, 10}, target, AxisHorizontal); got != SwapAfter {
		t.Errorf("right half = %v, want %v", got, SwapAfter)
	}
}

func TestEvaluateDegenerateRect(t *testing.T) {
	cfg := DefaultSwapConfig()
	if got := cfg.Evaluate(Point{0, 0}, Rect{}, AxisVertical); got != NoSwap {
		t.Errorf("zero-size target = %v, want %v", got, NoSwap)
	}
}

func TestNormalizedThresholdFallbacks(t *testing.T) {
	cfg := SwapConfig{Threshold: 0, Invert: true}.normalized()
	if cfg.Threshold != 1 {
		t.Errorf("zero threshold normalized to %v, want 1", cfg.Threshold)
	}
	if cfg.InvertedThreshold != 1 {
		t.Errorf("inverted threshold fallback = %v, want 1", cfg.InvertedThreshold)
	}

	cfg = SwapConfig{Threshold: 0.4}.normalized()
	if cfg.InvertedThreshold != 0.4 {
		t.Errorf("inverted threshold fallback = %v, want 0.4", cfg.InvertedThreshold)
	}
}
