package viz

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"

	"github.com/san-kum/phasependulum/internal/scene"
)

const (
	charW = 8
	charH = 16
)

// Recorder accumulates canvas frames for a GIF.
type Recorder struct {
	Path   string
	frames []*image.Paletted
}

func NewRecorder(path string) *Recorder {
	return &Recorder{Path: path}
}

func (r *Recorder) Frames() int { return len(r.frames) }

// Capture rasterizes the canvases side by side into one paletted frame.
func (r *Recorder) Capture(canvases ...*Canvas) {
	imgW, imgH := 0, 0
	for _, c := range canvases {
		imgW += c.Width * charW
		if c.Height*charH > imgH {
			imgH = c.Height * charH
		}
	}
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.Plan9)
	black := uint8(img.Palette.Index(color.Black))
	for i := range img.Pix {
		img.Pix[i] = black
	}

	offX := 0
	for _, c := range canvases {
		for row := 0; row < c.Height; row++ {
			for col := 0; col < c.Width; col++ {
				pattern := int(c.Grid[row][col] - blank)
				if pattern <= 0 {
					continue
				}
				idx := uint8(img.Palette.Index(cellColor(c.Colors[row][col])))
				baseX, baseY := offX+col*charW, row*charH
				dotW, dotH := charW/2, charH/4
				for dy := 0; dy < 4; dy++ {
					for dx := 0; dx < 2; dx++ {
						if pattern&pixelMap[dy][dx] == 0 {
							continue
						}
						for py := 0; py < dotH; py++ {
							for px := 0; px < dotW; px++ {
								img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
							}
						}
					}
				}
			}
		}
		offX += c.Width * charW
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames and forgets them.
func (r *Recorder) Save() error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(r.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	r.frames = nil
	return gif.EncodeAll(f, &anim)
}

func cellColor(hex string) color.Color {
	if hex == "" {
		return color.White
	}
	c, _, err := scene.ParseColor(hex)
	if err != nil {
		return color.White
	}
	return c
}
