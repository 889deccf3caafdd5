package models

// MediaRef points at one resolution variant of an uploaded photo. ID is
// opaque: a URL, a local path or a transport file id.
type MediaRef struct {
	ID     string
	Width  int
	Height int
	Size   int64
}

// Largest returns the variant with the most pixels, ties broken by size.
func Largest(refs []MediaRef) (MediaRef, bool) {
	if len(refs) == 0 {
		return MediaRef{}, false
	}
	best := refs[0]
	for _, r := range refs[1:] {
		ra, ba := r.Width*r.Height, best.Width*best.Height
		if ra > ba || (ra == ba && r.Size > best.Size) {
			best = r
		}
	}
	return best, true
}
