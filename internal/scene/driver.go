package scene

// Pointer is the state of a drag gesture in display units.
type Pointer struct {
	Position Vec
	Pressed  bool
}

// Renderable is a view advanced once per frame and steered by drags on
// its handles.
type Renderable interface {
	OnFrame()
	OnDrag(p Pointer)
}

// Driver runs the frame loop. Drag events are delivered between frames;
// there is no concurrency.
type Driver struct {
	renderables []Renderable
	handles     map[*Circle]Renderable
	active      *Circle
	frame       int
}

func NewDriver() *Driver {
	return &Driver{handles: make(map[*Circle]Renderable)}
}

// Attach registers r for frames and marks handles as draggable on its behalf.
func (d *Driver) Attach(r Renderable, handles ...*Circle) {
	d.renderables = append(d.renderables, r)
	for _, h := range handles {
		h.Draggable = true
		d.handles[h] = r
	}
}

func (d *Driver) Frame() {
	for _, r := range d.renderables {
		r.OnFrame()
	}
	d.frame++
}

func (d *Driver) Frames() int    { return d.frame }
func (d *Driver) Dragging() bool { return d.active != nil }

// Press starts a drag if p hits a registered handle on c.
func (d *Driver) Press(c *Canvas, p Vec, slack float64) bool {
	hit := c.HitTest(p, slack)
	if hit == nil {
		return false
	}
	owner, ok := d.handles[hit]
	if !ok {
		return false
	}
	d.active = hit
	owner.OnDrag(Pointer{Position: p, Pressed: true})
	return true
}

func (d *Driver) Move(p Vec) bool {
	if d.active == nil {
		return false
	}
	d.handles[d.active].OnDrag(Pointer{Position: p, Pressed: true})
	return true
}

func (d *Driver) Release(p Vec) {
	if d.active == nil {
		return
	}
	d.handles[d.active].OnDrag(Pointer{Position: p, Pressed: false})
	d.active = nil
}
