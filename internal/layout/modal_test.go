package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"large terminal caps at max", 200, 80},     // 100 -> 80
		{"normal terminal", 120, 60},                // 120*50/100 = 60
		{"narrow uses min", 60, 40},                 // 30 -> 40
		{"very narrow bounded by terminal", 30, 26}, // 40 > 30-4
		{"tiny terminal clamps to 1", 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateModalWidth(tt.terminalWidth, cfg)
			if got != tt.want {
				t.Errorf("CalculateModalWidth(%d) = %d, want %d",
					tt.terminalWidth, got, tt.want)
			}
		})
	}
}

func TestCalculatePickerVisible(t *testing.T) {
	cfg := DefaultConfig().Picker

	tests := []struct {
		name   string
		height int
		want   int
	}{
		{"standard terminal", 24, 9}, // (24-5)/2 = 9
		{"tall terminal", 45, 20},    // (45-5)/2 = 20
		{"short clamps to 1", 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePickerVisible(tt.height, cfg)
			if got != tt.want {
				t.Errorf("CalculatePickerVisible(%d) = %d, want %d", tt.height, got, tt.want)
			}
		})
	}
}
