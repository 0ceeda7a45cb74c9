package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/game"
	"github.com/kgilmer/PiccadillyLife/genetics"
)

// Inspector renders the panel for the selected entity.
type Inspector struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates an inspector panel. maxEnergy sets the full scale of
// the energy bar.
func NewInspector(x, y, width int32, maxEnergy float32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		sections: SelectionSections(maxEnergy),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector for sel and returns the bottom edge.
func (ins *Inspector) Draw(sel game.Selection) int32 {
	r := ins.renderer
	pad := r.Theme.Padding
	contentWidth := ins.width - pad*2

	height := pad*2 + r.Theme.BarHeight + 4
	for _, sd := range ins.sections {
		height += r.SectionHeight(sd, sel)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + pad
	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+pad, y, sd, sel, contentWidth)
	}
	y = r.DrawGeneStrip(ins.x+pad, y, sel.Genes, genetics.GeneMax, contentWidth)
	return y + pad
}

func asSelection(data any) game.Selection {
	s, _ := data.(game.Selection)
	return s
}

func isCreature(data any) bool {
	return asSelection(data).Kind == components.KindCreature
}

// SelectionSections describes the inspector layout for a game.Selection.
func SelectionSections(maxEnergy float32) []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID: "entity",
			Fields: []FieldDescriptor{
				{
					ID: "title", Label: "Entity", Widget: WidgetText,
					TextGetter: func(d any) string {
						s := asSelection(d)
						return fmt.Sprintf("%s #%d", s.Kind, s.ID)
					},
				},
				{
					ID: "energy", Label: "Energy", Widget: WidgetEnergyBar,
					Range:  FieldRange{Min: 0, Max: maxEnergy},
					Getter: func(d any) float32 { return float32(asSelection(d).Energy) },
				},
				{
					ID: "radius", Label: "Radius", Widget: WidgetText, Format: "%.2f",
					Getter: func(d any) float32 { return float32(asSelection(d).Radius) },
				},
				{
					ID: "mass", Label: "Mass", Widget: WidgetText, Format: "%.3f",
					Getter: func(d any) float32 { return float32(asSelection(d).Mass) },
				},
				{
					ID: "position", Label: "Position", Widget: WidgetText,
					TextGetter: func(d any) string {
						s := asSelection(d)
						return fmt.Sprintf("%.2f, %.2f", s.X, s.Y)
					},
				},
				{
					ID: "color", Label: "Colour", Widget: WidgetColorSwatch,
					ColorGetter: func(d any) rl.Color { return asSelection(d).Color },
				},
			},
		},
		{
			ID:      "lineage",
			Title:   "Lineage",
			Visible: isCreature,
			Fields: []FieldDescriptor{
				{
					ID: "generation", Label: "Generation", Widget: WidgetText, Format: "%.0f",
					Getter: func(d any) float32 { return float32(asSelection(d).Generation) },
				},
				{
					ID: "parent", Label: "Parent", Widget: WidgetText,
					TextGetter: func(d any) string {
						if p := asSelection(d).ParentID; p != 0 {
							return fmt.Sprintf("#%d", p)
						}
						return "founder"
					},
				},
				{
					ID: "children", Label: "Children", Widget: WidgetText, Format: "%.0f",
					Getter: func(d any) float32 { return float32(asSelection(d).Children) },
				},
				{
					ID: "meals", Label: "Meals", Widget: WidgetText, Format: "%.0f",
					Getter: func(d any) float32 { return float32(asSelection(d).Meals) },
				},
				{
					ID: "peak", Label: "Peak", Widget: WidgetText, Format: "%.1f",
					Getter: func(d any) float32 { return float32(asSelection(d).PeakEnergy) },
				},
			},
		},
		{
			ID:      "dna",
			Title:   "DNA",
			Visible: isCreature,
			Fields: []FieldDescriptor{
				{
					ID: "strategy", Label: "Strategy", Widget: WidgetText,
					TextGetter: func(d any) string { return asSelection(d).Strategy.String() },
				},
				{
					ID: "threshold", Label: "Threshold", Widget: WidgetText, Format: "%.0f",
					Getter: func(d any) float32 { return float32(asSelection(d).Threshold) },
				},
				{
					ID: "age", Label: "Age", Widget: WidgetText, Format: "%.0f",
					Getter: func(d any) float32 { return float32(asSelection(d).Age) },
				},
				{
					ID: "rest", Label: "Rest", Widget: WidgetText, Format: "%.0f",
					Getter: func(d any) float32 { return float32(asSelection(d).RestCycles) },
				},
				{
					ID: "next", Label: "Next move", Widget: WidgetText,
					TextGetter: func(d any) string { return asSelection(d).Next.String() },
				},
				{
					ID: "peer", Label: "Peer", Widget: WidgetText,
					TextGetter: func(d any) string {
						if asSelection(d).HasPeer {
							return "recorded"
						}
						return "none"
					},
				},
			},
		},
	}
}
