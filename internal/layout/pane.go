package layout

// PaneLayout holds calculated pane widths.
type PaneLayout struct {
	ListWidth int
	TagWidth  int
}

// CalculatePaneHeight computes the content height for panes.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculatePaneWidths splits the terminal between the link list and the
// tag index. The tag pane gets TagPanePercent of the width left after
// padding; both panes are clamped to their minimums.
func CalculatePaneWidths(terminalWidth int, cfg PaneConfig) PaneLayout {
	available := terminalWidth - cfg.AppPadding

	tagWidth := available * cfg.TagPanePercent / 100
	if tagWidth < cfg.MinTagPaneWidth {
		tagWidth = cfg.MinTagPaneWidth
	}

	listWidth := available - tagWidth
	if listWidth < cfg.MinListPaneWidth {
		listWidth = cfg.MinListPaneWidth
	}

	return PaneLayout{
		ListWidth: listWidth,
		TagWidth:  tagWidth,
	}
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	width := paneWidth - cfg.ContentPadding
	if width < 1 {
		return 1
	}
	return width
}

// CalculateScrollOffset returns the first line to show so that the lines
// [selectedStart, selectedEnd) fit in a window of height lines.
// offset is the current first line.
func CalculateScrollOffset(offset, selectedStart, selectedEnd, height, totalLines int) int {
	if totalLines <= height {
		return 0
	}
	if selectedStart < offset {
		offset = selectedStart
	}
	if selectedEnd > offset+height {
		offset = selectedEnd - height
	}
	if offset > totalLines-height {
		offset = totalLines - height
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// CalculateVisibleListItems computes the start and end indices for a scrollable list.
// Returns (start, end) where items[start:end] should be displayed.
func CalculateVisibleListItems(maxVisible, selectedIdx, totalItems int) (start, end int) {
	if totalItems <= maxVisible {
		return 0, totalItems
	}

	if selectedIdx >= maxVisible {
		start = selectedIdx - maxVisible + 1
	}

	end = start + maxVisible
	if end > totalItems {
		end = totalItems
	}

	return start, end
}
