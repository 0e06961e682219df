package ui

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pawline/tether-mp/components"
	"github.com/pawline/tether-mp/shared/messages"
)

// Step tables the value buttons cycle through.
var (
	lengthSteps     = []float64{2, 4, 6, 8, 10, 14, 20}
	captureSteps    = []float64{1, 2, 3, 5, 8}
	strengthSteps   = []float64{1, 2, 4, 6, 10}
	multiplierSteps = []float64{0.5, 1.0, 1.5, 2.0, 3.0}
	scaleSteps      = []float64{0.5, 0.75, 1.0, 1.5, 2.0}
)

// ParamsUI is the leash tuning panel. Every value is a cycle button; Apply
// sends the whole set to the server, which ignores it unless the local
// participant owns the collar.
type ParamsUI struct {
	UI    *ebitenui.UI
	Panel *components.PanelData

	// Callbacks
	OnApply func(messages.SetLeashParams)

	valueButtons map[string]*widget.Button
	statusLabel  *widget.Label

	normalFace text.Face
	smallFace  text.Face
}

// NewParamsUI creates the tuning panel bound to the given edit state.
func NewParamsUI(panel *components.PanelData, onApply func(messages.SetLeashParams)) *ParamsUI {
	pui := &ParamsUI{
		Panel:        panel,
		OnApply:      onApply,
		valueButtons: make(map[string]*widget.Button),
	}

	pui.loadFonts()
	pui.buildUI()

	return pui
}

func (pui *ParamsUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic(err)
	}

	pui.normalFace = &text.GoTextFace{
		Source: fontSource,
		Size:   14,
	}
	pui.smallFace = &text.GoTextFace{
		Source: fontSource,
		Size:   11,
	}
}

func (pui *ParamsUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	panelContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{20, 20, 30, 230})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(10)),
			widget.RowLayoutOpts.Spacing(4),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	title := widget.NewLabel(
		widget.LabelOpts.Text("LEASH TUNING", &pui.normalFace, &widget.LabelColor{
			Idle: color.RGBA{255, 255, 255, 255},
		}),
	)
	panelContainer.AddChild(title)

	panelContainer.AddChild(pui.buildValueRow("Length", "length", lengthSteps,
		func() float64 { return pui.Panel.LeashLength },
		func(v float64) { pui.Panel.LeashLength = v }))
	panelContainer.AddChild(pui.buildValueRow("Capture", "capture", captureSteps,
		func() float64 { return pui.Panel.MaxCaptureDistance },
		func(v float64) { pui.Panel.MaxCaptureDistance = v }))
	panelContainer.AddChild(pui.buildValueRow("Pull", "pull", strengthSteps,
		func() float64 { return pui.Panel.MinPullStrength },
		func(v float64) { pui.Panel.MinPullStrength = v }))
	panelContainer.AddChild(pui.buildValueRow("Multiplier", "mult", multiplierSteps,
		func() float64 { return pui.Panel.VelocityMultiplier },
		func(v float64) { pui.Panel.VelocityMultiplier = v }))
	panelContainer.AddChild(pui.buildValueRow("Scale", "scale", scaleSteps,
		func() float64 { return pui.Panel.Scale },
		func(v float64) { pui.Panel.Scale = v }))

	panelContainer.AddChild(pui.buildToggleRow("Variable pull", "variable",
		func() bool { return pui.Panel.VariablePullStrength },
		func(v bool) { pui.Panel.VariablePullStrength = v }))
	panelContainer.AddChild(pui.buildToggleRow("Snap to anchor", "snap",
		func() bool { return pui.Panel.SnapToAnchor },
		func(v bool) { pui.Panel.SnapToAnchor = v }))
	panelContainer.AddChild(pui.buildToggleRow("Grab while worn", "grabworn",
		func() bool { return pui.Panel.CanPickupWhenAttached },
		func(v bool) { pui.Panel.CanPickupWhenAttached = v }))

	applyButton := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(100, 26)),
		widget.ButtonOpts.Image(pui.applyButtonImage()),
		widget.ButtonOpts.Text("APPLY", &pui.normalFace, &widget.ButtonTextColor{
			Idle:    color.RGBA{255, 255, 255, 255},
			Hover:   color.RGBA{200, 255, 200, 255},
			Pressed: color.RGBA{150, 200, 150, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if pui.OnApply != nil {
				pui.OnApply(messages.SetLeashParams{
					LeashLength:           pui.Panel.LeashLength,
					MaxCaptureDistance:    pui.Panel.MaxCaptureDistance,
					MinPullStrength:       pui.Panel.MinPullStrength,
					VelocityMultiplier:    pui.Panel.VelocityMultiplier,
					VariablePullStrength:  pui.Panel.VariablePullStrength,
					SnapToAnchor:          pui.Panel.SnapToAnchor,
					CanPickupWhenAttached: pui.Panel.CanPickupWhenAttached,
					Scale:                 pui.Panel.Scale,
				})
			}
			pui.Panel.Dirty = false
			pui.UpdateUI()
		}),
	)
	panelContainer.AddChild(applyButton)

	pui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &pui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{255, 180, 100, 255},
		}),
	)
	panelContainer.AddChild(pui.statusLabel)

	rootContainer.AddChild(panelContainer)

	pui.UI = &ebitenui.UI{
		Container: rootContainer,
	}
}

func (pui *ParamsUI) buildValueRow(label, key string, steps []float64, get func() float64, set func(float64)) *widget.Container {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)

	nameLabel := widget.NewLabel(
		widget.LabelOpts.Text(label, &pui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	)
	row.AddChild(nameLabel)

	valueButton := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(60, 20)),
		widget.ButtonOpts.Image(pui.buttonImage()),
		widget.ButtonOpts.Text(formatValue(get()), &pui.smallFace, &widget.ButtonTextColor{
			Idle:    color.RGBA{255, 255, 100, 255},
			Hover:   color.RGBA{255, 255, 200, 255},
			Pressed: color.RGBA{200, 200, 200, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			set(nextStep(steps, get()))
			pui.Panel.Dirty = true
			pui.UpdateUI()
		}),
	)
	pui.valueButtons[key] = valueButton
	row.AddChild(valueButton)

	return row
}

func (pui *ParamsUI) buildToggleRow(label, key string, get func() bool, set func(bool)) *widget.Container {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)

	nameLabel := widget.NewLabel(
		widget.LabelOpts.Text(label, &pui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	)
	row.AddChild(nameLabel)

	toggleButton := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(40, 20)),
		widget.ButtonOpts.Image(pui.buttonImage()),
		widget.ButtonOpts.Text(onOff(get()), &pui.smallFace, &widget.ButtonTextColor{
			Idle:    color.RGBA{255, 255, 100, 255},
			Hover:   color.RGBA{255, 255, 200, 255},
			Pressed: color.RGBA{200, 200, 200, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			set(!get())
			pui.Panel.Dirty = true
			pui.UpdateUI()
		}),
	)
	pui.valueButtons[key] = toggleButton
	row.AddChild(toggleButton)

	return row
}

func (pui *ParamsUI) buttonImage() *widget.ButtonImage {
	idle := image.NewNineSliceColor(color.RGBA{60, 60, 80, 255})
	hover := image.NewNineSliceColor(color.RGBA{80, 80, 100, 255})
	pressed := image.NewNineSliceColor(color.RGBA{40, 40, 60, 255})
	disabled := image.NewNineSliceColor(color.RGBA{40, 40, 40, 255})

	return &widget.ButtonImage{
		Idle:     idle,
		Hover:    hover,
		Pressed:  pressed,
		Disabled: disabled,
	}
}

func (pui *ParamsUI) applyButtonImage() *widget.ButtonImage {
	idle := image.NewNineSliceColor(color.RGBA{40, 100, 40, 255})
	hover := image.NewNineSliceColor(color.RGBA{60, 140, 60, 255})
	pressed := image.NewNineSliceColor(color.RGBA{30, 80, 30, 255})
	disabled := image.NewNineSliceColor(color.RGBA{40, 50, 40, 255})

	return &widget.ButtonImage{
		Idle:     idle,
		Hover:    hover,
		Pressed:  pressed,
		Disabled: disabled,
	}
}

// UpdateUI refreshes all value labels from the panel state.
func (pui *ParamsUI) UpdateUI() {
	setLabel := func(key, label string) {
		if b, ok := pui.valueButtons[key]; ok && b != nil {
			if textWidget := b.Text(); textWidget != nil {
				textWidget.Label = label
			}
		}
	}

	setLabel("length", formatValue(pui.Panel.LeashLength))
	setLabel("capture", formatValue(pui.Panel.MaxCaptureDistance))
	setLabel("pull", formatValue(pui.Panel.MinPullStrength))
	setLabel("mult", formatValue(pui.Panel.VelocityMultiplier))
	setLabel("scale", formatValue(pui.Panel.Scale))
	setLabel("variable", onOff(pui.Panel.VariablePullStrength))
	setLabel("snap", onOff(pui.Panel.SnapToAnchor))
	setLabel("grabworn", onOff(pui.Panel.CanPickupWhenAttached))

	if pui.statusLabel != nil {
		if pui.Panel.Dirty {
			pui.statusLabel.Label = "unsaved changes"
		} else {
			pui.statusLabel.Label = ""
		}
	}
}

// nextStep returns the step after the current value, wrapping around.
func nextStep(steps []float64, current float64) float64 {
	for _, v := range steps {
		if v > current+1e-9 {
			return v
		}
	}
	return steps[0]
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2g", v)
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
