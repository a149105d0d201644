package layout

// CalculateModalWidth computes responsive modal width based on percentage of terminal width.
// Uses WidthPercent of terminal width, clamped between MinWidth and MaxWidth.
func CalculateModalWidth(terminalWidth int, cfg ModalConfig) int {
	width := terminalWidth * cfg.WidthPercent / 100

	if width < cfg.MinWidth {
		width = cfg.MinWidth
	}
	if width > cfg.MaxWidth {
		width = cfg.MaxWidth
	}

	// Don't exceed terminal width
	if width > terminalWidth-4 {
		width = terminalWidth - 4
	}
	if width < 1 {
		return 1
	}

	return width
}

// CalculatePickerVisible returns how many results fit on screen.
func CalculatePickerVisible(terminalHeight int, cfg PickerConfig) int {
	visible := (terminalHeight - cfg.HeaderReduction) / cfg.LinesPerResult
	if visible < 1 {
		return 1
	}
	return visible
}
