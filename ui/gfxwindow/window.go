package gfxwindow

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gfxscope/internal/app"
	"gfxscope/pkg/colorutil"
	"gfxscope/pkg/geometry"
)

// Surface resolution the viewer renders at; the window scales it up.
const (
	surfaceWidth  = 640
	surfaceHeight = 480
)

// frameInterval is the viewer frame period.
const frameInterval = time.Second / 60

// notifyFrames is how long a transient notification stays on screen.
const notifyFrames = 120

// Window hosts one viewer session.
type Window struct {
	fyne.Window
	app     fyne.App
	session *app.Session

	view     *viewerWidget
	renderer *softRenderer
	input    *inputState

	notifyText string
	notifyTTL  int

	stop chan struct{}
}

// New creates the viewer window. scale multiplies the fixed surface
// resolution into the initial window size.
func New(fyneApp fyne.App, session *app.Session, scale float64) *Window {
	fyneApp.Settings().SetTheme(darkTheme{})
	win := fyneApp.NewWindow("gfxscope - " + session.Machine.Name())

	w := &Window{
		Window:   win,
		app:      fyneApp,
		session:  session,
		renderer: newSoftRenderer(surfaceWidth, surfaceHeight),
		input:    newInputState(),
		stop:     make(chan struct{}),
	}

	w.view = newViewerWidget(w)
	win.SetContent(w.view)

	if scale < 1 {
		scale = 1
	}
	win.Resize(fyne.NewSize(float32(surfaceWidth*scale), float32(surfaceHeight*scale)))

	session.On(app.EventNotification, func(data interface{}) {
		w.notifyText, _ = data.(string)
		w.notifyTTL = notifyFrames
	})

	win.SetOnClosed(func() {
		close(w.stop)
		session.Close()
	})

	return w
}

// Run shows the window, focuses the view for key input, and drives the
// frame loop until the viewer exits or the window closes.
func (w *Window) Run() {
	w.session.Viewer.Show()
	w.Window.Show()
	w.Window.Canvas().Focus(w.view)

	go w.frameLoop()
}

func (w *Window) frameLoop() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if !w.frame() {
				w.Window.Close()
				return
			}
		}
	}
}

// frame renders one viewer frame onto the surface and refreshes the
// widget. Returns false when the viewer has exited.
func (w *Window) frame() bool {
	w.renderer.Clear(color.RGBA{A: 0xff})

	alive := w.session.Frame(w.renderer, w.input)
	w.input.tick()

	if w.notifyTTL > 0 {
		w.drawNotification()
		w.notifyTTL--
	}

	w.view.raster.Refresh()
	return alive
}

// drawNotification paints the transient status text near the bottom of
// the surface.
func (w *Window) drawNotification() {
	r := w.renderer
	chw := r.CharWidth('0')
	chh := r.LineHeight()
	width := r.StringWidth(w.notifyText)

	x := 0.5 - 0.5*width
	y := 1.0 - 2.0*chh
	r.FillRect(geometry.NewRect(x-chw, y-0.25*chh, width+2*chw, 1.5*chh), 0xd0101030)

	for _, ch := range w.notifyText {
		r.DrawChar(x, y, colorutil.White, ch)
		x += r.CharWidth(ch)
	}
}

// viewerWidget is the focusable, hoverable raster area the surface is
// displayed in.
type viewerWidget struct {
	widget.BaseWidget
	win    *Window
	raster *fynecanvas.Raster
}

func newViewerWidget(win *Window) *viewerWidget {
	v := &viewerWidget{win: win}
	v.raster = fynecanvas.NewRasterFromImage(win.renderer.Surface())
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *viewerWidget) CreateRenderer() fyne.WidgetRenderer {
	return &viewerWidgetRenderer{view: v}
}

func (v *viewerWidget) MinSize() fyne.Size {
	return fyne.NewSize(surfaceWidth/2, surfaceHeight/2)
}

// desktop.Keyable

func (v *viewerWidget) KeyDown(ev *fyne.KeyEvent) { v.win.input.keyDown(ev.Name) }
func (v *viewerWidget) KeyUp(ev *fyne.KeyEvent)   { v.win.input.keyUp(ev.Name) }

// fyne.Focusable

func (v *viewerWidget) FocusGained()             {}
func (v *viewerWidget) FocusLost()               {}
func (v *viewerWidget) TypedKey(*fyne.KeyEvent)  {}
func (v *viewerWidget) TypedRune(rune)           {}

// desktop.Hoverable

func (v *viewerWidget) MouseIn(ev *desktop.MouseEvent) { v.MouseMoved(ev) }

func (v *viewerWidget) MouseMoved(ev *desktop.MouseEvent) {
	size := v.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	v.win.input.setPointer(
		float64(ev.Position.X)/float64(size.Width),
		float64(ev.Position.Y)/float64(size.Height),
		true,
	)
}

func (v *viewerWidget) MouseOut() {
	v.win.input.setPointer(0, 0, false)
}

type viewerWidgetRenderer struct {
	view *viewerWidget
}

func (r *viewerWidgetRenderer) Layout(size fyne.Size) {
	r.view.raster.Resize(size)
}

func (r *viewerWidgetRenderer) MinSize() fyne.Size {
	return r.view.MinSize()
}

func (r *viewerWidgetRenderer) Refresh() {
	r.view.raster.Refresh()
}

func (r *viewerWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.view.raster}
}

func (r *viewerWidgetRenderer) Destroy() {}
