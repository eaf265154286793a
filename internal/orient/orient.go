// Package orient models the eight screen orientations of rectangular pixel
// data as a small closed group generated by an axis swap and two flips.
// Every rasterizer in the viewer maps destination coordinates back to
// source coordinates through this package rather than doing its own bit
// math.
package orient

// Code is a 3-bit orientation: any combination of FlipX, FlipY and SwapXY.
type Code uint8

const (
	// FlipX mirrors horizontally.
	FlipX Code = 1 << iota
	// FlipY mirrors vertically.
	FlipY
	// SwapXY exchanges the axes. Flips are measured before the swap.
	SwapXY
)

// The four rotations, expressed as flip/swap compositions.
const (
	Rot0   Code = 0
	Rot90  Code = SwapXY | FlipX
	Rot180 Code = FlipX | FlipY
	Rot270 Code = SwapXY | FlipY
)

const flipMask = FlipX | FlipY

// Map converts a coordinate in the oriented cell back to the coordinate in
// the untransformed source, for a source of size w by h. When SwapXY is
// clear, FlipX measures against w and FlipY against h. When SwapXY is set,
// FlipX measures against h, FlipY against w, and the axes are exchanged
// last. The order is load-bearing: the flips always apply in the
// destination frame, before the swap.
func Map(o Code, x, y, w, h int) (int, int) {
	sx, sy := x, y
	if o&SwapXY == 0 {
		if o&FlipX != 0 {
			sx = w - 1 - sx
		}
		if o&FlipY != 0 {
			sy = h - 1 - sy
		}
	} else {
		if o&FlipX != 0 {
			sx = h - 1 - sx
		}
		if o&FlipY != 0 {
			sy = w - 1 - sy
		}
		sx, sy = sy, sx
	}
	return sx, sy
}

// Compose returns the orientation that results from applying a first and
// then b. If b does not swap the axes the two codes simply XOR together;
// otherwise a's flip bits trade places before XOR-ing in b.
func Compose(a, b Code) Code {
	if b&SwapXY == 0 {
		return a ^ b
	}
	swapped := a & SwapXY
	if a&FlipX != 0 {
		swapped |= FlipY
	}
	if a&FlipY != 0 {
		swapped |= FlipX
	}
	return swapped ^ b
}

// Inverse returns the orientation that undoes o. Pure flips are their own
// inverse; when the axes are swapped the flip bits trade places.
func Inverse(o Code) Code {
	if o&SwapXY == 0 {
		return o
	}
	inv := SwapXY
	if o&FlipX != 0 {
		inv |= FlipY
	}
	if o&FlipY != 0 {
		inv |= FlipX
	}
	return inv
}

// Dims returns the oriented width and height of a w by h source.
func Dims(o Code, w, h int) (int, int) {
	if o&SwapXY != 0 {
		return h, w
	}
	return w, h
}
