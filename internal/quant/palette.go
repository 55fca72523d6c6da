package quant

import (
	"container/heap"
	"image"
	"image/color"
	"math"
	"sort"
)

// PaletteSize is the only color depth the legacy client understands.
const PaletteSize = 256

// Color is one palette entry. The wire palette carries no alpha.
type Color struct {
	R, G, B uint8
}

// Palette is a fixed 256-entry color table. Entry 0 is always pure black and
// doubles as the transparency / background sentinel. A palette is immutable
// once built.
type Palette [PaletteSize]Color

// Nearest returns the index of the entry closest to (r,g,b) by squared
// Euclidean distance. Ties resolve to the lowest index.
func (p *Palette) Nearest(r, g, b uint8) int {
	best := 0
	bestDist := math.MaxInt
	for i := 0; i < PaletteSize; i++ {
		dr := int(r) - int(p[i].R)
		dg := int(g) - int(p[i].G)
		db := int(b) - int(p[i].B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = i
			if d == 0 {
				break
			}
		}
	}
	return best
}

// ColorPalette converts p into an opaque stdlib palette for GIF construction.
func (p *Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, PaletteSize)
	for i, c := range p {
		cp[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	}
	return cp
}

// colorCount is a distinct RGB value and the number of pixels carrying it.
type colorCount struct {
	color Color
	count int
}

// box is one region of color space under median-cut subdivision.
type box struct {
	colors []colorCount
	minC   [3]int
	maxC   [3]int
	total  int
	index  int // maintained by the heap.Interface methods
}

func newBox(colors []colorCount) *box {
	b := &box{colors: colors}
	b.shrink()
	return b
}

func channelValue(c Color, ch int) int {
	switch ch {
	case 0:
		return int(c.R)
	case 1:
		return int(c.G)
	}
	return int(c.B)
}

// shrink recomputes the bounding ranges and pixel total from the members.
func (b *box) shrink() {
	b.total = 0
	for ch := 0; ch < 3; ch++ {
		b.minC[ch] = 0xFF
		b.maxC[ch] = 0
	}
	for _, cc := range b.colors {
		b.total += cc.count
		for ch := 0; ch < 3; ch++ {
			v := channelValue(cc.color, ch)
			if v < b.minC[ch] {
				b.minC[ch] = v
			}
			if v > b.maxC[ch] {
				b.maxC[ch] = v
			}
		}
	}
}

// widestChannel returns the channel (0=R, 1=G, 2=B) with the largest range.
func (b *box) widestChannel() int {
	widest := 0
	span := b.maxC[0] - b.minC[0]
	for ch := 1; ch < 3; ch++ {
		if d := b.maxC[ch] - b.minC[ch]; d > span {
			span = d
			widest = ch
		}
	}
	return widest
}

func (b *box) widestRange() int {
	ch := b.widestChannel()
	return b.maxC[ch] - b.minC[ch]
}

// split divides the box at the frequency-weighted median along its widest
// channel. Members are sorted by that channel (stable, so ties keep histogram
// order) and the cut falls at the first position where the cumulative pixel
// count reaches half the box's total. Both halves are always non-empty.
func (b *box) split() (*box, *box) {
	ch := b.widestChannel()
	sort.SliceStable(b.colors, func(i, j int) bool {
		return channelValue(b.colors[i].color, ch) < channelValue(b.colors[j].color, ch)
	})

	half := b.total / 2
	cum := 0
	cut := 0
	for i, cc := range b.colors {
		cum += cc.count
		if cum >= half {
			cut = i + 1
			break
		}
	}
	if cut < 1 {
		cut = 1
	}
	if cut >= len(b.colors) {
		cut = len(b.colors) - 1
	}
	return newBox(b.colors[:cut]), newBox(b.colors[cut:])
}

// average returns the pixel-count-weighted mean color of the box.
func (b *box) average() Color {
	if b.total == 0 {
		return Color{}
	}
	var sumR, sumG, sumB int64
	for _, cc := range b.colors {
		sumR += int64(cc.color.R) * int64(cc.count)
		sumG += int64(cc.color.G) * int64(cc.count)
		sumB += int64(cc.color.B) * int64(cc.count)
	}
	n := int64(b.total)
	return Color{
		R: uint8(sumR / n),
		G: uint8(sumG / n),
		B: uint8(sumB / n),
	}
}

// boxQueue is a max-heap of boxes keyed by widest channel range.
type boxQueue []*box

func (q boxQueue) Len() int { return len(q) }

func (q boxQueue) Less(i, j int) bool {
	return q[i].widestRange() > q[j].widestRange()
}

func (q boxQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *boxQueue) Push(x interface{}) {
	b := x.(*box)
	b.index = len(*q)
	*q = append(*q, b)
}

func (q *boxQueue) Pop() interface{} {
	old := *q
	n := len(old)
	b := old[n-1]
	b.index = -1
	*q = old[:n-1]
	return b
}

func (q boxQueue) top() *box {
	return q[0]
}

// NewAdaptivePalette derives a 256-entry palette from the pixel population of
// img by median cut. Alpha is ignored. The result is deterministic for a
// given input: the histogram is seeded in packed-RGB order and splits use
// stable sorts.
func NewAdaptivePalette(img *image.NRGBA) *Palette {
	hist := make(map[uint32]int)
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := y * img.Stride
		for x := 0; x < b.Dx(); x++ {
			i := row + x*4
			key := uint32(img.Pix[i])<<16 | uint32(img.Pix[i+1])<<8 | uint32(img.Pix[i+2])
			hist[key]++
		}
	}

	keys := make([]uint32, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	seed := make([]colorCount, len(keys))
	for i, k := range keys {
		seed[i] = colorCount{
			color: Color{R: uint8(k >> 16), G: uint8(k >> 8), B: uint8(k)},
			count: hist[k],
		}
	}

	var palette Palette
	if len(seed) == 0 {
		fillGrayRamp(&palette, 1)
		return &palette
	}

	q := &boxQueue{}
	heap.Init(q)
	heap.Push(q, newBox(seed))
	for q.Len() < PaletteSize && q.top().widestRange() > 0 {
		widest := heap.Pop(q).(*box)
		lo, hi := widest.split()
		heap.Push(q, lo)
		heap.Push(q, hi)
	}

	n := 0
	for q.Len() > 0 {
		palette[n] = heap.Pop(q).(*box).average()
		n++
	}

	// Entry 0 is the transparency sentinel no matter what the boxes produced.
	palette[0] = Color{}
	if n < PaletteSize {
		fillGrayRamp(&palette, n)
	}
	return &palette
}

// fillGrayRamp fills entries from..255 with an evenly spaced grayscale ramp.
func fillGrayRamp(p *Palette, from int) {
	count := PaletteSize - from
	if count <= 0 {
		return
	}
	for k := 0; k < count; k++ {
		v := uint8(128)
		if count > 1 {
			v = uint8(math.Round(float64(k) * 255.0 / float64(count-1)))
		}
		p[from+k] = Color{R: v, G: v, B: v}
	}
}
