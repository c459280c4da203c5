package components

// PixelID encodes the (ix, iy, plane) triple described in §3 as a single
// integer: ix + Nx*(iy + Ny*plane). Nx, Ny are the per-plane pixel counts.
func PixelID(ix, iy, plane, nx, ny int32) int64 {
	return int64(ix) + int64(nx)*(int64(iy)+int64(ny)*int64(plane))
}

// DecodePixelID is the inverse of PixelID: id2pixel(pixel2id(ix,iy,plane)) ==
// (ix,iy,plane) for all in-range inputs (§8 invariant 7).
func DecodePixelID(id int64, nx, ny int32) (ix, iy, plane int32) {
	n := int64(nx)
	m := int64(ny)
	ix = int32(id % n)
	rest := id / n
	iy = int32(rest % m)
	plane = int32(rest / m)
	return ix, iy, plane
}

// PixelCenter returns the (x, y) cm coordinates of a pixel's center:
// x = ix*pitch + originX + pitch/2, likewise y.
func PixelCenter(ix, iy int32, pitch, originX, originY float64) (x, y float64) {
	x = float64(ix)*pitch + originX + pitch/2
	y = float64(iy)*pitch + originY + pitch/2
	return x, y
}
