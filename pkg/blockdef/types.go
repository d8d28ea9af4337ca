package blockdef

// Block is one block definition file. Unset fields are inherited from Parent.
type Block struct {
	Name        string  `yaml:"name" json:"name"`
	Parent      string  `yaml:"parent" json:"parent"`
	Transparent *bool   `yaml:"transparent" json:"transparent"`
	Atlas       *[2]int `yaml:"atlas" json:"atlas"`
	Top         *[2]int `yaml:"top" json:"top"`
	Bottom      *[2]int `yaml:"bottom" json:"bottom"`
	Side        *[2]int `yaml:"side" json:"side"`
	North       *[2]int `yaml:"north" json:"north"`
	South       *[2]int `yaml:"south" json:"south"`
	East        *[2]int `yaml:"east" json:"east"`
	West        *[2]int `yaml:"west" json:"west"`
}

// Manifest lists the blocks of a catalog in ID order.
type Manifest struct {
	RowCapacity int      `yaml:"row_capacity" json:"row_capacity"`
	Atlas       string   `yaml:"atlas" json:"atlas"`
	Blocks      []string `yaml:"blocks" json:"blocks"`
}

// IsTransparent returns the resolved transparency flag.
func (b *Block) IsTransparent() bool {
	return b.Transparent != nil && *b.Transparent
}

func (b *Block) inherit(parent *Block) {
	if b.Transparent == nil && parent.Transparent != nil {
		v := *parent.Transparent
		b.Transparent = &v
	}
	b.Atlas = inheritCell(b.Atlas, parent.Atlas)
	b.Top = inheritCell(b.Top, parent.Top)
	b.Bottom = inheritCell(b.Bottom, parent.Bottom)
	b.Side = inheritCell(b.Side, parent.Side)
	b.North = inheritCell(b.North, parent.North)
	b.South = inheritCell(b.South, parent.South)
	b.East = inheritCell(b.East, parent.East)
	b.West = inheritCell(b.West, parent.West)
}

// inheritCell copies rather than aliases so children never share parent state.
func inheritCell(own, parent *[2]int) *[2]int {
	if own != nil || parent == nil {
		return own
	}
	v := *parent
	return &v
}
