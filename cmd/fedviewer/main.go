package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/mhaugland/ReactionEnergyDiagrams/cmd/fedviewer/uihelpers"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/bands"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/fedplot"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/orr"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	filePath   string
	stylesPath string
	bandsPath  string

	rows     []dataset.Row
	propCols []string
	styles   fedplot.StyleConfig
	band     *bands.Structure

	// plot controls
	groupBy   string // extra grouping column, "" groups everything together
	optName   string // legend name prefix
	bias      float64
	plotMode  fedplot.PlotMode
	allStates bool
	showIdeal bool

	showCaption  bool
	hoverEnabled bool

	// diagrams backing the hover readout; refreshed on each FED render
	fedDiagrams []orr.GroupDiagram

	// widgets
	rowsTable      *widget.Table
	fileLabel      *widget.Label
	biasLabel      *widget.Label
	groupSelect    *widget.Select
	fedImgCanvas   *canvas.Image
	peroxImgCanvas *canvas.Image
	bandImgCanvas  *canvas.Image
	fedOverlay     *stateOverlay
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var fileFlag, stylesFlag, bandsFlag, groupByFlag, nameFlag, screenshotsFlag, logLevelFlag string
	var biasFlag float64
	flag.StringVar(&fileFlag, "file", "", "Path to adsorption_results.csv or .jsonl")
	flag.StringVar(&stylesFlag, "styles", "", "Path to a YAML style config")
	flag.StringVar(&bandsFlag, "bands", "", "Path to a band structure JSON")
	flag.Float64Var(&biasFlag, "bias", 0, "Applied bias in V")
	flag.StringVar(&groupByFlag, "groupby", "", "Comma-separated grouping columns (e.g. element)")
	flag.StringVar(&nameFlag, "name", "", "Legend name prefix")
	flag.StringVar(&screenshotsFlag, "screenshots", "", "Render all charts into this directory and exit")
	flag.StringVar(&logLevelFlag, "loglevel", "", "Log level: debug, info, warn or error")
	flag.Parse()
	if logLevelFlag != "" {
		dataset.SetLogLevel(logLevelFlag)
	}

	if screenshotsFlag != "" {
		err := RunScreenshotsMode(ScreenshotOptions{
			File:    fileFlag,
			Styles:  stylesFlag,
			Bands:   bandsFlag,
			OutDir:  screenshotsFlag,
			Bias:    biasFlag,
			GroupBy: groupByFlag,
			OptName: nameFlag,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "screenshots:", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.mhaugland.fedviewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Reaction Energy Diagrams")
	w.Resize(fyne.NewSize(1100, 800))

	state := &uiState{
		app:         a,
		window:      w,
		filePath:    fileFlag,
		stylesPath:  stylesFlag,
		bandsPath:   bandsFlag,
		groupBy:     groupByFlag,
		optName:     nameFlag,
		bias:        uihelpers.ClampBias(biasFlag),
		plotMode:    fedplot.ModeAll,
		showIdeal:   true,
		showCaption: true,
	}
	// Load the hover preference before the overlay exists so it starts
	// in the right state.
	state.hoverEnabled = a.Preferences().BoolWithFallback("hoverReadout", false)

	// top bar controls; callbacks are wired after the canvases exist
	fileLabel := widget.NewLabel(truncatePath(state.filePath, 60))
	state.fileLabel = fileLabel
	modeSelect := widget.NewSelect([]string{"All", "States Only", "Full Lines"}, nil)
	modeSelect.Selected = "All"
	groupSelect := widget.NewSelect([]string{"None"}, nil)
	groupSelect.PlaceHolder = "None"
	state.groupSelect = groupSelect

	idealChk := widget.NewCheck("Ideal", nil)
	allStatesChk := widget.NewCheck("All States", nil)
	captionChk := widget.NewCheck("Caption", nil)
	hoverChk := widget.NewCheck("Hover", nil)
	hoverChk.SetChecked(state.hoverEnabled)

	// Bias control: - [label] +
	state.biasLabel = widget.NewLabel(fmt.Sprintf("%.2f V", state.bias))
	decBias := widget.NewButton("-", func() {
		b := uihelpers.ClampBias(state.bias - uihelpers.BiasStep)
		if b != state.bias {
			state.bias = b
			state.biasLabel.SetText(fmt.Sprintf("%.2f V", b))
			savePrefs(state)
			redrawCharts(state)
		}
	})
	incBias := widget.NewButton("+", func() {
		b := uihelpers.ClampBias(state.bias + uihelpers.BiasStep)
		if b != state.bias {
			state.bias = b
			state.biasLabel.SetText(fmt.Sprintf("%.2f V", b))
			savePrefs(state)
			redrawCharts(state)
		}
	})

	// Data table (loaded rows)
	state.rowsTable = widget.NewTable(
		func() (int, int) {
			rows := len(state.rows) + 1
			if rows < 1 {
				rows = 1
			}
			return rows, 5 + len(state.propCols)
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			// columns: 0 adsorbate, 1 site, 2 ads_e, 3 elec_energy,
			// 4 gibbs_correction, then one per extra property
			if id.Row == 0 {
				switch id.Col {
				case 0:
					lbl.SetText("Adsorbate")
				case 1:
					lbl.SetText("Site")
				case 2:
					lbl.SetText("Ads E (eV)")
				case 3:
					lbl.SetText("Elec E (eV)")
				case 4:
					lbl.SetText("Correction (eV)")
				default:
					if pi := id.Col - 5; pi >= 0 && pi < len(state.propCols) {
						lbl.SetText(state.propCols[pi])
					} else {
						lbl.SetText("")
					}
				}
				return
			}
			rix := id.Row - 1
			if rix < 0 || rix >= len(state.rows) {
				lbl.SetText("")
				return
			}
			r := state.rows[rix]
			switch id.Col {
			case 0:
				lbl.SetText(r.Adsorbate)
			case 1:
				if r.Site == "" {
					lbl.SetText("-")
				} else {
					lbl.SetText(r.Site)
				}
			case 2:
				lbl.SetText(formatEnergyCell(r.Energy))
			case 3:
				lbl.SetText(formatEnergyCell(r.Electronic))
			case 4:
				lbl.SetText(formatEnergyCell(r.Correction))
			default:
				if pi := id.Col - 5; pi >= 0 && pi < len(state.propCols) {
					if v := r.Prop(state.propCols[pi]); v != "" {
						lbl.SetText(v)
					} else {
						lbl.SetText("-")
					}
				} else {
					lbl.SetText("")
				}
			}
		},
	)
	updateRowColumnWidths(state)

	// chart placeholders
	state.fedImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.fedImgCanvas.FillMode = canvas.ImageFillContain
	state.fedImgCanvas.SetMinSize(fyne.NewSize(900, 420))
	state.peroxImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.peroxImgCanvas.FillMode = canvas.ImageFillContain
	state.peroxImgCanvas.SetMinSize(fyne.NewSize(900, 320))
	state.bandImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.bandImgCanvas.FillMode = canvas.ImageFillContain
	state.bandImgCanvas.SetMinSize(fyne.NewSize(900, 420))
	state.fedOverlay = newStateOverlay(state)

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openFileDialog(state, fileLabel) }),
		widget.NewButton("Reload", func() { loadAll(state, fileLabel) }),
		widget.NewLabel("Mode:"), modeSelect,
		widget.NewLabel("Group:"), groupSelect,
		widget.NewLabel("Bias:"), decBias, state.biasLabel, incBias,
		idealChk, allStatesChk, captionChk, hoverChk,
		widget.NewLabel("File:"), fileLabel,
	)

	diagramsColumn := container.NewVBox(
		container.NewStack(state.fedImgCanvas, state.fedOverlay),
		widget.NewSeparator(),
		state.peroxImgCanvas,
	)
	diagramsScroll := container.NewVScroll(diagramsColumn)
	diagramsScroll.SetMinSize(fyne.NewSize(900, 650))
	bandsScroll := container.NewVScroll(state.bandImgCanvas)
	bandsScroll.SetMinSize(fyne.NewSize(900, 650))

	tabs := container.NewAppTabs(
		container.NewTabItem("Rows", state.rowsTable),
		container.NewTabItem("Diagrams", diagramsScroll),
		container.NewTabItem("Bands", bandsScroll),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(ti *container.TabItem) {
		if state != nil && state.app != nil {
			state.app.Preferences().SetInt("selectedTabIndex", tabs.SelectedIndex())
		}
	}
	content := container.NewBorder(top, nil, nil, nil, tabs)
	w.SetContent(content)

	// Redraw charts on window resize so they scale with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() { redrawCharts(state) })
					}
				}
			}
		}()
	}

	// Now that canvases exist, assign control callbacks
	modeSelect.OnChanged = func(v string) {
		switch strings.ToLower(v) {
		case "states only":
			state.plotMode = fedplot.ModeStatesOnly
		case "full lines":
			state.plotMode = fedplot.ModeFullLines
		default:
			state.plotMode = fedplot.ModeAll
		}
		savePrefs(state)
		redrawCharts(state)
	}
	groupSelect.OnChanged = func(v string) {
		if strings.EqualFold(v, "none") {
			state.groupBy = ""
		} else {
			state.groupBy = v
		}
		savePrefs(state)
		redrawCharts(state)
		fmt.Printf("[viewer] grouping changed to %q; %d diagrams\n", v, len(state.fedDiagrams))
	}
	idealChk.OnChanged = func(b bool) { state.showIdeal = b; savePrefs(state); redrawCharts(state) }
	allStatesChk.OnChanged = func(b bool) { state.allStates = b; savePrefs(state); redrawCharts(state) }
	captionChk.OnChanged = func(b bool) { state.showCaption = b; savePrefs(state); redrawCharts(state) }
	hoverChk.OnChanged = func(b bool) {
		state.hoverEnabled = b
		savePrefs(state)
		if state.fedOverlay != nil {
			state.fedOverlay.enabled = b
			state.fedOverlay.Refresh()
		}
	}

	buildMenus(state, fileLabel)
	loadPrefs(state, modeSelect, idealChk, allStatesChk, captionChk, fileLabel, tabs)
	idealChk.SetChecked(state.showIdeal)
	allStatesChk.SetChecked(state.allStates)
	captionChk.SetChecked(state.showCaption)
	hoverChk.SetChecked(state.hoverEnabled)
	if state.fedOverlay != nil {
		state.fedOverlay.enabled = state.hoverEnabled
		state.fedOverlay.Refresh()
	}
	loadAll(state, fileLabel)

	w.ShowAndRun()
}

// menus and dialogs
func buildMenus(state *uiState, fileLabel *widget.Label) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() {
			state.filePath = f
			fileLabel.SetText(truncatePath(state.filePath, 60))
			savePrefs(state)
			loadAll(state, fileLabel)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state, fileLabel) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Dataset…", func() { openFileDialog(state, fileLabel) }),
		fyne.NewMenuItem("Open Styles…", func() {
			openPathDialog(state, func(p string) {
				state.stylesPath = p
				savePrefs(state)
				loadAll(state, fileLabel)
			})
		}),
		fyne.NewMenuItem("Open Bands…", func() {
			openPathDialog(state, func(p string) {
				state.bandsPath = p
				savePrefs(state)
				loadAll(state, fileLabel)
			})
		}),
		fyne.NewMenuItem("Reload", func() { loadAll(state, fileLabel) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export FED Chart…", func() { exportChartPNG(state, state.fedImgCanvas, "fed_chart.png") }),
		fyne.NewMenuItem("Export Peroxide Chart…", func() { exportChartPNG(state, state.peroxImgCanvas, "peroxide_chart.png") }),
		fyne.NewMenuItem("Export Band Chart…", func() { exportChartPNG(state, state.bandImgCanvas, "band_chart.png") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	mainMenu := fyne.NewMainMenu(fileMenu, recentMenu)
	state.window.SetMainMenu(mainMenu)

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadAll(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadAll(state, fileLabel) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// openPathDialog runs a file-open dialog and hands the picked path to
// onPick. Cancel and errors are silently ignored.
func openPathDialog(state *uiState, onPick func(string)) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		onPick(rc.URI().Path())
	}, state.window)
	d.Show()
}

func openFileDialog(state *uiState, fileLabel *widget.Label) {
	openPathDialog(state, func(p string) {
		state.filePath = p
		fileLabel.SetText(truncatePath(state.filePath, 60))
		addRecentFile(state, state.filePath)
		savePrefs(state)
		loadAll(state, fileLabel)
	})
}

// load data and render
func loadAll(state *uiState, fileLabel *widget.Label) {
	if state.filePath == "" {
		if _, err := os.Stat("adsorption_results.csv"); err == nil {
			state.filePath = "adsorption_results.csv"
		} else if _, err := os.Stat("adsorption_results.jsonl"); err == nil {
			state.filePath = "adsorption_results.jsonl"
		} else {
			return
		}
		if fileLabel != nil {
			fileLabel.SetText(truncatePath(state.filePath, 60))
		}
	}
	rows, err := dataset.Load(state.filePath, dataset.LoadOptions{})
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.rows = rows
	state.propCols = propColumns(rows)
	fmt.Printf("[viewer] loaded %d rows from %s\n", len(rows), state.filePath)

	// styles and bands are optional; a failed load surfaces but keeps
	// the rows usable
	state.styles = fedplot.StyleConfig{}
	if state.stylesPath != "" {
		cfg, err := fedplot.LoadStyleConfig(state.stylesPath)
		if err != nil {
			dialog.ShowError(err, state.window)
		} else {
			state.styles = cfg
		}
	}
	state.band = nil
	if state.bandsPath != "" {
		bs, err := bands.Load(state.bandsPath)
		if err != nil {
			dialog.ShowError(err, state.window)
		} else {
			state.band = &bs
		}
	}

	if state.groupSelect != nil {
		state.groupSelect.Options = append([]string{"None"}, state.propCols...)
		if state.groupBy == "" {
			state.groupSelect.Selected = "None"
		} else {
			state.groupSelect.Selected = state.groupBy
		}
		state.groupSelect.Refresh()
	}
	if state.rowsTable != nil {
		state.rowsTable.Refresh()
	}
	updateRowColumnWidths(state)
	redrawCharts(state)
}

// groupColumns parses a comma-separated grouping spec into columns.
func groupColumns(groupBy string) []string {
	var out []string
	for _, c := range strings.Split(groupBy, ",") {
		c = strings.TrimSpace(c)
		if c != "" && !strings.EqualFold(c, "none") {
			out = append(out, c)
		}
	}
	return out
}

func hasCol(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

// propColumns returns the sorted union of extra property columns over
// all rows, for the table and the grouping selector.
func propColumns(rows []dataset.Row) []string {
	set := map[string]struct{}{}
	for _, r := range rows {
		for _, k := range r.PropNames() {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func formatEnergyCell(e dataset.Energy) string {
	v, ok := e.Value()
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func updateRowColumnWidths(state *uiState) {
	if state == nil || state.rowsTable == nil {
		return
	}
	state.rowsTable.SetColumnWidth(0, 110)
	state.rowsTable.SetColumnWidth(1, 110)
	state.rowsTable.SetColumnWidth(2, 110)
	state.rowsTable.SetColumnWidth(3, 120)
	state.rowsTable.SetColumnWidth(4, 140)
	for i := range state.propCols {
		state.rowsTable.SetColumnWidth(5+i, 110)
	}
}

func redrawCharts(state *uiState) {
	cw, chh := chartSize(state)
	if img := renderFEDChart(state, cw, chh); img != nil && state.fedImgCanvas != nil {
		state.fedImgCanvas.Image = img
		state.fedImgCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
		state.fedImgCanvas.Refresh()
		if state.fedOverlay != nil {
			state.fedOverlay.Refresh()
		}
	}
	if img := renderPeroxideChart(state, cw, chh); img != nil && state.peroxImgCanvas != nil {
		state.peroxImgCanvas.Image = img
		state.peroxImgCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
		state.peroxImgCanvas.Refresh()
	}
	if img := renderBandChart(state, cw, chh); img != nil && state.bandImgCanvas != nil {
		state.bandImgCanvas.Image = img
		state.bandImgCanvas.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
		state.bandImgCanvas.Refresh()
	}
}

// chartSize follows the window width so the diagrams use the
// available horizontal space.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		return uihelpers.ComputeChartDimensions(0)
	}
	sz := state.window.Canvas().Size()
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.95) - 12)
}

func palette(state *uiState) []string {
	if len(state.styles.Colors) > 0 {
		return state.styles.Colors
	}
	return defaultPalette
}

func renderFEDChart(state *uiState, cw, chh int) image.Image {
	if len(state.rows) == 0 {
		return blank(cw, chh)
	}
	cols := groupColumns(state.groupBy)
	if state.allStates && !hasCol(cols, dataset.ColSite) {
		cols = append(cols, dataset.ColSite)
	}
	opts := fedplot.CollectionOptions{
		GroupBy:     cols,
		Bias:        state.bias,
		OptName:     state.optName,
		Colors:      palette(state),
		Mode:        state.plotMode,
		Rules:       state.styles.Rules,
		IdealSeries: state.showIdeal,
	}
	var (
		series []fedplot.Series
		l      fedplot.Layout
		err    error
	)
	if state.allStates {
		series, l, err = fedplot.AllStatesFED(state.rows, opts)
	} else {
		series, l, err = fedplot.LowestEnergyFED(state.rows, opts)
	}
	if err != nil {
		fmt.Printf("[viewer] fed chart error: %v; showing blank fallback\n", err)
		state.fedDiagrams = nil
		return blank(cw, chh)
	}
	if state.allStates {
		state.fedDiagrams, _ = orr.AllStatesDiagrams(state.rows, cols, "all")
	} else {
		state.fedDiagrams, _ = orr.LowestEnergyDiagrams(state.rows, cols, "all")
	}
	l = state.styles.Layout.Apply(l)
	img := renderFigure(series, l, cw, chh)
	// The caption makes sense for the lowest-energy pathways only: the
	// site-scatter variant has mostly incomplete per-site paths.
	if state.showCaption && !state.allStates {
		if caption := fedCaption(state.fedDiagrams); caption != "" {
			img = drawCaption(img, caption)
		}
	}
	return img
}

func renderPeroxideChart(state *uiState, cw, chh int) image.Image {
	if len(state.rows) == 0 {
		return blank(cw, chh)
	}
	diagrams, err := orr.LowestEnergyDiagrams(state.rows, groupColumns(state.groupBy), "all")
	if err != nil {
		fmt.Printf("[viewer] peroxide chart error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	series := buildPeroxideSeries(diagrams, palette(state), state.styles.Rules)
	if len(series) == 0 {
		return blank(cw, chh)
	}
	return renderFigure(series, fedplot.PeroxideLayout(""), cw, chh)
}

func renderBandChart(state *uiState, cw, chh int) image.Image {
	if state.band == nil {
		return blank(cw, chh)
	}
	return renderFigure(state.band.Series(), state.band.Layout(""), cw, chh)
}

// stateOverlay shows a vertical guide snapped to the hovered mechanism
// state plus each group's energy at that state.
type stateOverlay struct {
	widget.BaseWidget
	state    *uiState
	enabled  bool
	hovering bool
	mouse    fyne.Position
}

func newStateOverlay(state *uiState) *stateOverlay {
	o := &stateOverlay{state: state, enabled: state != nil && state.hoverEnabled}
	o.ExtendBaseWidget(o)
	return o
}

func (o *stateOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background gives the widget a full hit area
	bg := canvas.NewRectangle(color.RGBA{})
	lineV := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	lineV.StrokeWidth = 1.0
	label := widget.NewRichText()
	label.Wrapping = fyne.TextWrapOff
	labelBG := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 170})
	objs := []fyne.CanvasObject{bg, lineV, labelBG, label}
	return &stateOverlayRenderer{o: o, bg: bg, lineV: lineV, labelBG: labelBG, label: label, objs: objs}
}

type stateOverlayRenderer struct {
	o       *stateOverlay
	bg      *canvas.Rectangle
	lineV   *canvas.Line
	labelBG *canvas.Rectangle
	label   *widget.RichText
	objs    []fyne.CanvasObject
}

func (r *stateOverlayRenderer) Destroy() {}

func (r *stateOverlayRenderer) park() {
	r.lineV.Position1 = fyne.NewPos(-10, -10)
	r.lineV.Position2 = fyne.NewPos(-10, -10)
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(fyne.NewPos(-1000, -1000))
	r.label.Move(fyne.NewPos(-1000, -1000))
}

func (r *stateOverlayRenderer) Layout(size fyne.Size) {
	if r.o == nil {
		return
	}
	if r.bg != nil {
		r.bg.Resize(size)
		r.bg.Move(fyne.NewPos(0, 0))
	}
	if !r.o.enabled || !r.o.hovering {
		r.park()
		return
	}
	st := r.o.state
	if st == nil || st.fedImgCanvas == nil || st.fedImgCanvas.Image == nil || len(st.fedDiagrams) == 0 {
		r.park()
		return
	}
	b := st.fedImgCanvas.Image.Bounds()
	imgW, imgH := float32(b.Dx()), float32(b.Dy())
	drawX, drawY, drawW, drawH, scale := uihelpers.ContainRect(imgW, imgH, size.Width, size.Height)
	mx, my := r.o.mouse.X, r.o.mouse.Y
	if mx < drawX || mx > drawX+drawW || my < drawY || my > drawY+drawH {
		r.park()
		return
	}
	labels := fedplot.FEDLayout("").TickLabels
	centers := uihelpers.StateCenters(len(labels), imgW, 16, 12, drawX, scale)
	idx := uihelpers.NearestIndex(centers, mx)
	if idx < 0 || idx >= len(labels) {
		r.park()
		return
	}
	r.lineV.Position1 = fyne.NewPos(centers[idx], drawY)
	r.lineV.Position2 = fyne.NewPos(centers[idx], drawY+drawH)

	lines := []string{labels[idx]}
	shown := 0
	for _, gd := range st.fedDiagrams {
		if shown >= 6 {
			lines = append(lines, fmt.Sprintf("+%d more", len(st.fedDiagrams)-shown))
			break
		}
		p := orr.ApplyBias(gd.Diagram.Path, st.bias)
		if idx >= p.Len() {
			continue
		}
		if v, ok := p.Energies[idx].Value(); ok {
			lines = append(lines, fmt.Sprintf("%s: %.2f eV", gd.Key, v))
		} else {
			lines = append(lines, fmt.Sprintf("%s: n/a", gd.Key))
		}
		shown++
	}
	r.label.Segments = []widget.RichTextSegment{&widget.TextSegment{
		Text:  strings.Join(lines, "\n"),
		Style: widget.RichTextStyleInline,
	}}
	r.label.Refresh()

	pad := float32(6)
	ts := r.label.MinSize()
	bgW := ts.Width + 2*pad
	bgH := ts.Height + 2*pad
	tx, ty := mx+8, my+8
	if tx+bgW > size.Width {
		tx = size.Width - bgW
	}
	if ty+bgH > size.Height {
		ty = size.Height - bgH
	}
	r.labelBG.Resize(fyne.NewSize(bgW, bgH))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))
}

func (r *stateOverlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *stateOverlayRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *stateOverlayRenderer) Refresh() {
	r.Layout(r.o.Size())
	if r.bg != nil {
		r.bg.Refresh()
	}
	r.lineV.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.lineV.StrokeWidth = 1
	r.lineV.Refresh()
	if r.labelBG != nil {
		r.labelBG.Refresh()
	}
	r.label.Refresh()
}

func (o *stateOverlay) MouseMoved(ev *desktop.MouseEvent) {
	if !o.enabled {
		return
	}
	o.hovering = true
	o.mouse = ev.Position
	o.Refresh()
}
func (o *stateOverlay) MouseIn(ev *desktop.MouseEvent) { o.hovering = true; o.Refresh() }
func (o *stateOverlay) MouseOut()                      { o.hovering = false; o.Refresh() }

var _ desktop.Hoverable = (*stateOverlay)(nil)

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetString("stylesFile", state.stylesPath)
	prefs.SetString("bandsFile", state.bandsPath)
	prefs.SetFloat("bias", state.bias)
	prefs.SetString("groupBy", state.groupBy)
	prefs.SetString("plotMode", state.plotMode.String())
	prefs.SetBool("showIdeal", state.showIdeal)
	prefs.SetBool("allStates", state.allStates)
	prefs.SetBool("showCaption", state.showCaption)
	prefs.SetBool("hoverReadout", state.hoverEnabled)
}

// loadPrefs restores the saved UI state. Values given on the command
// line win over the stored ones.
func loadPrefs(state *uiState, modeSel *widget.Select, ideal, allSt, caption *widget.Check, fileLabel *widget.Label, tabs *container.AppTabs) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if state.filePath == "" {
		if f := prefs.StringWithFallback("lastFile", ""); f != "" {
			state.filePath = f
			if fileLabel != nil {
				fileLabel.SetText(truncatePath(state.filePath, 60))
			}
		}
	}
	if state.stylesPath == "" {
		state.stylesPath = prefs.StringWithFallback("stylesFile", "")
	}
	if state.bandsPath == "" {
		state.bandsPath = prefs.StringWithFallback("bandsFile", "")
	}
	if state.bias == 0 {
		state.bias = uihelpers.ClampBias(prefs.FloatWithFallback("bias", 0))
		if state.biasLabel != nil {
			state.biasLabel.SetText(fmt.Sprintf("%.2f V", state.bias))
		}
	}
	if state.groupBy == "" {
		state.groupBy = prefs.StringWithFallback("groupBy", "")
	}
	if m, err := fedplot.ParsePlotMode(prefs.StringWithFallback("plotMode", state.plotMode.String())); err == nil {
		state.plotMode = m
	}
	if modeSel != nil {
		switch state.plotMode {
		case fedplot.ModeStatesOnly:
			modeSel.Selected = "States Only"
		case fedplot.ModeFullLines:
			modeSel.Selected = "Full Lines"
		default:
			modeSel.Selected = "All"
		}
	}
	state.showIdeal = prefs.BoolWithFallback("showIdeal", state.showIdeal)
	state.allStates = prefs.BoolWithFallback("allStates", state.allStates)
	state.showCaption = prefs.BoolWithFallback("showCaption", state.showCaption)
	state.hoverEnabled = prefs.BoolWithFallback("hoverReadout", state.hoverEnabled)
	if ideal != nil {
		ideal.SetChecked(state.showIdeal)
	}
	if allSt != nil {
		allSt.SetChecked(state.allStates)
	}
	if caption != nil {
		caption.SetChecked(state.showCaption)
	}
	if tabs != nil {
		idx := prefs.IntWithFallback("selectedTabIndex", 0)
		if idx >= 0 && idx < len(tabs.Items) {
			tabs.SelectIndex(idx)
		}
	}
}

// recent files helpers
func recentFiles(state *uiState) []string {
	prefs := state.app.Preferences()
	raw := prefs.StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	prefs := state.app.Preferences()
	list := recentFiles(state)
	filtered := []string{path}
	for _, f := range list {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil {
		return
	}
	if img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		_ = png.Encode(wc, img.Image)
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// utils
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
