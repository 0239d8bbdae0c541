package common

// Rect is an axis-aligned box given by its min and max corners.
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) Intersects(other Rect) bool {
	return r.MinX < other.MaxX &&
		r.MaxX > other.MinX &&
		r.MinY < other.MaxY &&
		r.MaxY > other.MinY
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }
