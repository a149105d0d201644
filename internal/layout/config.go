package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane   PaneConfig
	Modal  ModalConfig
	Input  InputConfig
	Text   TextConfig
	Picker PickerConfig
}

// PaneConfig holds dimensions for the link and tag panes.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + count header (1) + pane borders (2) + back link (1) + help bar (3) = 8
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// AppPadding is the horizontal padding around both panes.
	AppPadding int

	// TagPanePercent is the tag pane's share of the available width.
	TagPanePercent int

	// MinTagPaneWidth and MinListPaneWidth clamp the two panes.
	MinTagPaneWidth  int
	MinListPaneWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	// Accounts for pane border/padding on each side.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int
}

// InputConfig holds text input configuration for the new link form.
type InputConfig struct {
	TitleCharLimit       int
	URLCharLimit         int
	DescriptionCharLimit int
	TagsCharLimit        int

	Width int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// PickerConfig holds the search result picker layout.
type PickerConfig struct {
	// HeaderReduction: lines for header, spacing and footer.
	HeaderReduction int

	// LinesPerResult: title line plus URL line.
	LinesPerResult int
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  8, // app padding (1) + count header (1) + pane borders (2) + back link (1) + help bar (3)
			MinHeight:        5,
			AppPadding:       4,
			TagPanePercent:   30,
			MinTagPaneWidth:  18,
			MinListPaneWidth: 30,
			ContentPadding:   4,
		},
		Modal: ModalConfig{
			WidthPercent: 50,
			MinWidth:     40,
			MaxWidth:     80,
		},
		Input: InputConfig{
			TitleCharLimit:       256,
			URLCharLimit:         2048,
			DescriptionCharLimit: 4096,
			TagsCharLimit:        200,
			Width:                30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
		Picker: PickerConfig{
			HeaderReduction: 5,
			LinesPerResult:  2,
		},
	}
}
