package main

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorRosewater lipgloss.Color = "#f5e0dc"
	colorFlamingo  lipgloss.Color = "#f2cdcd"
	colorPink      lipgloss.Color = "#f5c2e7"
	colorMauve     lipgloss.Color = "#cba6f7"
	colorRed       lipgloss.Color = "#f38ba8"
	colorMaroon    lipgloss.Color = "#eba0ac"
	colorPeach     lipgloss.Color = "#fab387"
	colorYellow    lipgloss.Color = "#f9e2af"
	colorGreen     lipgloss.Color = "#a6e3a1"
	colorTeal      lipgloss.Color = "#94e2d5"
	colorSky       lipgloss.Color = "#89dceb"
	colorSapphire  lipgloss.Color = "#74c7ec"
	colorBlue      lipgloss.Color = "#89b4fa"
	colorLavender  lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay2 lipgloss.Color = "#9399b2"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
	colorCrust    lipgloss.Color = "#11111b"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

// colorAccent drives the modal border, help keys and cursor. It is the one
// color the config can override (ui.accent); applyAccent rebinds it before
// the first render.
var colorAccent = colorBlue

const (
	colorBrand   = colorBlue
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

// ---------------------------------------------------------------------------
// Canvas cell colors
// ---------------------------------------------------------------------------

// Node markers, edges and highlights on the graph canvas. These are plain
// palette colors rather than styles because the half-block renderer combines
// them pairwise into foreground/background per terminal cell.
const (
	colorCanvasNode     = colorBlue
	colorCanvasEdge     = colorSurface2
	colorCanvasSelected = colorYellow
	colorCanvasCurrent  = colorPink
	colorCanvasPath     = colorGreen
)

// Coverage overlay heat ramp, cold to hot. Bucket 0 is nodes no path
// touches; the hot end marks the pangenome core every path runs through.
const (
	colorCanvasCov0 = colorSurface2
	colorCanvasCov1 = colorSapphire
	colorCanvasCov2 = colorTeal
	colorCanvasCov3 = colorPeach
	colorCanvasCov4 = colorRed
)

// ---------------------------------------------------------------------------
// All palette colors for validation / iteration
// ---------------------------------------------------------------------------

// AllPaletteColors returns every Catppuccin Mocha color for testing purposes.
func AllPaletteColors() []lipgloss.Color {
	return []lipgloss.Color{
		colorRosewater, colorFlamingo, colorPink, colorMauve,
		colorRed, colorMaroon, colorPeach, colorYellow,
		colorGreen, colorTeal, colorSky, colorSapphire,
		colorBlue, colorLavender,
		colorText, colorSubtext1, colorSubtext0,
		colorOverlay2, colorOverlay1, colorOverlay0,
		colorSurface2, colorSurface1, colorSurface0,
		colorBase, colorMantle, colorCrust,
	}
}

// PathAccentColors returns the accent cycle used when several paths are
// listed side by side, in display order.
func PathAccentColors() []lipgloss.Color {
	return []lipgloss.Color{
		colorGreen, colorTeal, colorPeach, colorMauve,
		colorSapphire, colorYellow, colorFlamingo, colorSky,
		colorLavender, colorRosewater, colorMaroon, colorPink,
	}
}
