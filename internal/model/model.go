package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Volume thresholds (m³) separating the weight categories.
const (
	MediumThreshold = 0.01
	HeavyThreshold  = 0.03
)

// ErrInvalidDimension is returned when a box is built with a non-positive dimension.
var ErrInvalidDimension = errors.New("box dimensions must be positive")

// Category is the weight class of a box, derived from its volume.
type Category int

const (
	CategoryLight Category = iota
	CategoryMedium
	CategoryHeavy
)

func (c Category) String() string {
	switch c {
	case CategoryHeavy:
		return "Heavy"
	case CategoryMedium:
		return "Medium"
	default:
		return "Light"
	}
}

// Weight returns the strict stacking weight of the category (Heavy > Medium > Light).
func (c Category) Weight() int {
	switch c {
	case CategoryHeavy:
		return 3
	case CategoryMedium:
		return 2
	default:
		return 1
	}
}

// RGB is a display color.
type RGB struct {
	R, G, B int
}

// Color returns the display color used for boxes of this category.
func (c Category) Color() RGB {
	switch c {
	case CategoryHeavy:
		return RGB{R: 244, G: 67, B: 54} // red
	case CategoryMedium:
		return RGB{R: 255, G: 152, B: 0} // orange
	default:
		return RGB{R: 76, G: 175, B: 80} // green
	}
}

// Classify returns the volume of a box and its weight category.
func Classify(width, height, depth float64) (float64, Category) {
	volume := width * height * depth
	switch {
	case volume > HeavyThreshold:
		return volume, CategoryHeavy
	case volume > MediumThreshold:
		return volume, CategoryMedium
	default:
		return volume, CategoryLight
	}
}

// Highlight is the presentation-only marker on a box.
type Highlight int

const (
	HighlightNone          Highlight = iota
	HighlightInvalid                 // pending box sits where it cannot be placed
	HighlightRemovalTarget           // committed box currently aimed at for removal
)

func (h Highlight) String() string {
	switch h {
	case HighlightInvalid:
		return "invalid"
	case HighlightRemovalTarget:
		return "removal-target"
	default:
		return "none"
	}
}

// Vec3 is a position in meters. Y is up.
type Vec3 struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
	Z float64 `json:"z" yaml:"z" toml:"z"`
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Point2D is a position on the horizontal (x, z) plane.
type Point2D struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Z float64 `json:"z" yaml:"z" toml:"z"`
}

// Item is a box. Dimensions, volume and category never change after creation.
type Item struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Width     float64   `json:"width"`  // along x, m
	Height    float64   `json:"height"` // along y, m
	Depth     float64   `json:"depth"`  // along z, m
	Volume    float64   `json:"volume"` // m³
	Category  Category  `json:"category"`
	Highlight Highlight `json:"-"`
}

// NewItem builds a classified box. Every dimension must be positive.
func NewItem(label string, w, h, d float64) (Item, error) {
	if !(w > 0) || !(h > 0) || !(d > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) || math.IsInf(d, 0) {
		return Item{}, fmt.Errorf("%w: %gx%gx%g", ErrInvalidDimension, w, h, d)
	}
	volume, category := Classify(w, h, d)
	return Item{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Depth:    d,
		Volume:   volume,
		Category: category,
	}, nil
}

// HalfWidth returns half the footprint extent along x.
func (it Item) HalfWidth() float64 { return it.Width / 2 }

// HalfDepth returns half the footprint extent along z.
func (it Item) HalfDepth() float64 { return it.Depth / 2 }

// HalfHeight returns half the vertical extent.
func (it Item) HalfHeight() float64 { return it.Height / 2 }

// Describe returns the one-line summary shown next to a box.
func (it Item) Describe() string {
	return fmt.Sprintf("%s: %.2f x %.2f x %.2f m, %.4f m³, %s",
		it.Label, it.Width, it.Height, it.Depth, it.Volume, it.Category)
}

// BoxSpec describes a box before it is classified.
// An empty Label lets the engine number the box.
type BoxSpec struct {
	Label  string  `json:"label" yaml:"label" toml:"label"`
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`
	Depth  float64 `json:"depth" yaml:"depth" toml:"depth"`
}

// NoColumn marks a placement on an open-footprint container.
const NoColumn = -1

// Placement is a box resting in a container, in the container's local frame.
// X and Z are the footprint center, Y the center elevation.
type Placement struct {
	Item   Item    `json:"item"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Column int     `json:"column"`
}

// Top returns the elevation of the box's upper face.
func (p Placement) Top() float64 {
	return p.Y + p.Item.HalfHeight()
}

// Bottom returns the elevation of the box's lower face.
func (p Placement) Bottom() float64 {
	return p.Y - p.Item.HalfHeight()
}

// Center returns the placement center as a vector.
func (p Placement) Center() Vec3 {
	return Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// Overlaps reports whether the two footprints overlap. Touching edges do not count.
func (p Placement) Overlaps(o Placement) bool {
	return FootprintsOverlap(p.X, p.Z, p.Item.HalfWidth(), p.Item.HalfDepth(),
		o.X, o.Z, o.Item.HalfWidth(), o.Item.HalfDepth())
}

// FootprintsOverlap is the axis-aligned overlap test on the horizontal plane:
// the distance between centers must be strictly below the sum of half-extents on both axes.
func FootprintsOverlap(ax, az, ahw, ahd, bx, bz, bhw, bhd float64) bool {
	return math.Abs(ax-bx) < ahw+bhw && math.Abs(az-bz) < ahd+bhd
}

// ContainerKind selects how boxes are positioned in a container.
type ContainerKind string

const (
	KindOpenFootprint ContainerKind = "open"
	KindFixedGrid     ContainerKind = "grid"
)

// ContainerSpec is the static geometry of a container variant.
type ContainerSpec struct {
	Name        string        `json:"name" yaml:"name" toml:"name"`
	Kind        ContainerKind `json:"kind" yaml:"kind" toml:"kind"`
	HalfWidth   float64       `json:"half_width" yaml:"half_width" toml:"half_width"`       // usable half-extent along x, m
	HalfDepth   float64       `json:"half_depth" yaml:"half_depth" toml:"half_depth"`       // usable half-extent along z, m
	FloorHeight float64       `json:"floor_height" yaml:"floor_height" toml:"floor_height"` // local elevation of the loading surface, m
	Columns     []Point2D     `json:"columns,omitempty" yaml:"columns,omitempty" toml:"columns,omitempty"`
	// MaxStackHeight bounds the top of any stack, measured from the floor. 0 = unbounded.
	MaxStackHeight float64 `json:"max_stack_height" yaml:"max_stack_height" toml:"max_stack_height"`
}

// Validate checks that the container geometry is usable.
func (s ContainerSpec) Validate() error {
	switch s.Kind {
	case KindOpenFootprint:
		if s.HalfWidth <= 0 || s.HalfDepth <= 0 {
			return fmt.Errorf("container %q: half-extents must be positive", s.Name)
		}
	case KindFixedGrid:
		if len(s.Columns) == 0 {
			return fmt.Errorf("container %q: grid container needs at least one column", s.Name)
		}
	default:
		return fmt.Errorf("container %q: unknown kind %q", s.Name, s.Kind)
	}
	if s.MaxStackHeight < 0 {
		return fmt.Errorf("container %q: max stack height cannot be negative", s.Name)
	}
	return nil
}

// FloorArea returns the usable loading surface in m².
func (s ContainerSpec) FloorArea() float64 {
	return 4 * s.HalfWidth * s.HalfDepth
}

func copyColumns(cols []Point2D) []Point2D {
	if cols == nil {
		return nil
	}
	cp := make([]Point2D, len(cols))
	copy(cp, cols)
	return cp
}

// Clone returns a deep copy with its own column slice.
func (s ContainerSpec) Clone() ContainerSpec {
	s.Columns = copyColumns(s.Columns)
	return s
}

// PalletSpec returns the default EUR pallet.
func PalletSpec() ContainerSpec {
	return ContainerSpec{
		Name:        "Pallet",
		Kind:        KindOpenFootprint,
		HalfWidth:   0.6,
		HalfDepth:   0.4,
		FloorHeight: 0.144,
	}
}

// TruckSpec returns the default three-lane truck bed.
func TruckSpec() ContainerSpec {
	return ContainerSpec{
		Name:        "Truck",
		Kind:        KindFixedGrid,
		HalfWidth:   1.0,
		HalfDepth:   0.4,
		FloorHeight: 0.05,
		Columns: []Point2D{
			{X: -0.6, Z: 0},
			{X: 0, Z: 0},
			{X: 0.6, Z: 0},
		},
		MaxStackHeight: 1.2,
	}
}

// Settings holds generation and container configuration.
type Settings struct {
	MinDimension float64       `json:"min_dimension"` // m
	MaxDimension float64       `json:"max_dimension"` // m
	Pallet       ContainerSpec `json:"pallet"`
	Truck        ContainerSpec `json:"truck"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		MinDimension: 0.1,
		MaxDimension: 0.5,
		Pallet:       PalletSpec(),
		Truck:        TruckSpec(),
	}
}

// Validate checks the dimension range and both container specs.
func (s Settings) Validate() error {
	if !(s.MinDimension > 0) || s.MaxDimension < s.MinDimension {
		return fmt.Errorf("invalid dimension range [%g, %g]", s.MinDimension, s.MaxDimension)
	}
	if err := s.Pallet.Validate(); err != nil {
		return err
	}
	return s.Truck.Validate()
}
