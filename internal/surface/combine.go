package surface

import "sort"

// groupKey identifies monitors that are allowed to merge. Monitors of a
// different physical size or scale never end up in the same Surface.
type groupKey struct {
	width  int
	height int
	scale  float64
}

type tile struct {
	bounds    Rect
	scale     float64
	wallpaper string
	// anchor is the top-left member; a merged tile keeps its wallpaper.
	anchor Rect
}

// Combine merges monitors that tile contiguously into combined surfaces.
//
// Monitors are first grouped by physical size and scale factor. Inside a group,
// monitors sharing top and bottom edges and touching horizontally are merged
// into strips, then strips sharing left and right edges and touching vertically
// are merged. Zero-sized descriptors are dropped. The result is sorted by left
// edge, then top edge and size, and does not depend on the input order.
//
// wallpapers maps MonitorDescriptor.ID to an image path and may be nil.
func Combine(descriptors []MonitorDescriptor, wallpapers map[string]string) []Surface {
	groups := make(map[groupKey][]tile)
	var keys []groupKey

	for _, d := range descriptors {
		if d.Bounds.Empty() || !validScale(d.ScaleFactor) {
			continue
		}
		key := groupKey{width: d.Bounds.Width, height: d.Bounds.Height, scale: d.ScaleFactor}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = appendUnique(groups[key], tile{
			bounds:    d.Bounds,
			scale:     d.ScaleFactor,
			wallpaper: wallpapers[d.ID],
			anchor:    d.Bounds,
		})
	}

	var surfaces []Surface
	for _, key := range keys {
		tiles := mergeTiles(groups[key], touchesHorizontally)
		tiles = mergeTiles(tiles, touchesVertically)
		for _, t := range tiles {
			s, err := New(t.bounds, t.scale, t.wallpaper)
			if err != nil {
				// Unreachable: empty bounds were filtered above.
				continue
			}
			surfaces = append(surfaces, s)
		}
	}

	sort.SliceStable(surfaces, func(i, j int) bool {
		if surfaces[i].Position.X != surfaces[j].Position.X {
			return surfaces[i].Position.X < surfaces[j].Position.X
		}
		if surfaces[i].Position.Y != surfaces[j].Position.Y {
			return surfaces[i].Position.Y < surfaces[j].Position.Y
		}
		if surfaces[i].Size.Width != surfaces[j].Size.Width {
			return surfaces[i].Size.Width < surfaces[j].Size.Width
		}
		return surfaces[i].Size.Height < surfaces[j].Size.Height
	})
	return surfaces
}

// appendUnique skips exact duplicates, which is how mirrored outputs show up.
func appendUnique(tiles []tile, t tile) []tile {
	for i := range tiles {
		if tiles[i].bounds == t.bounds {
			if t.wallpaper != "" && tiles[i].wallpaper == "" {
				tiles[i].wallpaper = t.wallpaper
			}
			return tiles
		}
	}
	return append(tiles, t)
}

// mergeTiles merges pairs matching adjacent until no pair matches.
func mergeTiles(tiles []tile, adjacent func(a, b Rect) bool) []tile {
	out := append([]tile(nil), tiles...)
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(out) && !merged; i++ {
			for j := i + 1; j < len(out); j++ {
				if !adjacent(out[i].bounds, out[j].bounds) {
					continue
				}
				out[i] = mergeTile(out[i], out[j])
				out = append(out[:j], out[j+1:]...)
				merged = true
				break
			}
		}
	}
	return out
}

func mergeTile(a, b tile) tile {
	merged := tile{
		bounds:    a.bounds.Union(b.bounds),
		scale:     a.scale,
		wallpaper: a.wallpaper,
		anchor:    a.anchor,
	}
	if topLeftOf(b.anchor, a.anchor) {
		merged.anchor = b.anchor
		merged.wallpaper = b.wallpaper
	}
	if merged.wallpaper == "" {
		merged.wallpaper = firstNonEmpty(a.wallpaper, b.wallpaper)
	}
	return merged
}

func topLeftOf(a, b Rect) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func touchesHorizontally(a, b Rect) bool {
	if a.Y != b.Y || a.Height != b.Height {
		return false
	}
	return a.Right() == b.X || b.Right() == a.X
}

func touchesVertically(a, b Rect) bool {
	if a.X != b.X || a.Width != b.Width {
		return false
	}
	return a.Bottom() == b.Y || b.Bottom() == a.Y
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
