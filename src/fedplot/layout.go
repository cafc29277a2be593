package fedplot

// DefaultFEDTitle is the standard figure title.
const DefaultFEDTitle = "Free Energy Diagram for the Oxygen Reduction Reaction"

// Layout describes the figure handed to the renderer: titles, x-axis
// state ticks, fonts and dimensions. Cosmetic configuration, no
// algorithmic content.
type Layout struct {
	Title  string
	XTitle string
	YTitle string

	// TickLabels and TickValues place one species label at the
	// center of each state's flat segment.
	TickLabels []string
	TickValues []float64

	FontFamily     string
	TitleFontSize  int
	AxisFontSize   int
	TickFontSize   int
	LegendFontSize int

	// YMin/YMax pin the energy window when YMax > YMin; both zero
	// lets the renderer scale to the data. XMax > 0 pins the x range
	// to [0, XMax].
	YMin float64
	YMax float64
	XMax float64

	// HideLegend drops the legend for the whole figure regardless of
	// per-series flags.
	HideLegend bool

	Width  int
	Height int
}

// FEDLayout returns the standard free-energy-diagram layout. An empty
// title selects DefaultFEDTitle.
func FEDLayout(title string) Layout {
	if title == "" {
		title = DefaultFEDTitle
	}
	labels := []string{"O2", "OOH", "O", "OH", "H2O"}
	return Layout{
		Title:          title,
		XTitle:         "Reaction Coordinate",
		YTitle:         "Free Energy [eV]",
		TickLabels:     labels,
		TickValues:     MidTickValues(len(labels), DefaultSpacing, DefaultStepSize),
		FontFamily:     "Courier New, monospace",
		TitleFontSize:  18,
		AxisFontSize:   18,
		TickFontSize:   16,
		LegendFontSize: 18,
		Width:          800,
		Height:         600,
	}
}

// PeroxideLayout is FEDLayout with ticks for the two-electron branch.
func PeroxideLayout(title string) Layout {
	l := FEDLayout(title)
	l.TickLabels = []string{"O2", "OOH", "H2O2"}
	l.TickValues = MidTickValues(len(l.TickLabels), DefaultSpacing, DefaultStepSize)
	return l
}
