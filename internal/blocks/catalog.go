// Package blocks implements the BlockCatalog: a fixed, ordered registry of
// block kinds indexed by BlockId, each carrying per-face texture indices and
// the three classification flags (solid, transparent, air).
package blocks

// Face identifies one of the six axis-aligned directions a block face can point.
type Face int

const (
	FaceNegX Face = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ
)

// ID is a small integer tag into the catalog. Air is always zero.
type ID uint16

// Default catalog IDs, registered in this order by Default().
const (
	Air ID = iota
	Grass
	Dirt
	Stone
	Bedrock
	Sand
	Water
	Log
	Leaves
	CoalOre
	IronOre
	GoldOre
	DiamondOre
)

// Kind is one catalog entry: name, per-face textures, and classification flags.
type Kind struct {
	ID           ID
	Name         string
	FaceTextures [6]string
	Solid        bool
	Transparent  bool
	Air          bool
	TintColor    uint32
	TintFaces    [6]bool
}

// Catalog is a read-only-after-init registry of block kinds.
type Catalog struct {
	kinds        []Kind
	byName       map[string]ID
	textureNames []string
	textureIndex map[string]int
}

// NewCatalog returns an empty catalog ready for Register calls.
func NewCatalog() *Catalog {
	return &Catalog{
		byName:       make(map[string]ID),
		textureIndex: make(map[string]int),
	}
}

// Register adds a kind to the catalog at its own ID, growing the backing
// slice as needed. Kind.ID must not collide with an existing entry.
func (c *Catalog) Register(k Kind) ID {
	for len(c.kinds) <= int(k.ID) {
		c.kinds = append(c.kinds, Kind{})
	}
	c.kinds[k.ID] = k
	c.byName[k.Name] = k.ID
	for _, tex := range k.FaceTextures {
		c.registerTexture(tex)
	}
	return k.ID
}

func (c *Catalog) registerTexture(name string) {
	if name == "" {
		return
	}
	if _, ok := c.textureIndex[name]; ok {
		return
	}
	c.textureIndex[name] = len(c.textureNames)
	c.textureNames = append(c.textureNames, name)
}

// Lookup resolves a block name to its ID.
func (c *Catalog) Lookup(name string) (ID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

func (c *Catalog) kind(id ID) Kind {
	if int(id) < 0 || int(id) >= len(c.kinds) {
		return Kind{}
	}
	return c.kinds[id]
}

// Solid reports whether id occludes neighbouring faces.
func (c *Catalog) Solid(id ID) bool { return c.kind(id).Solid }

// Transparent reports whether id participates in the transparent mesh stream.
func (c *Catalog) Transparent(id ID) bool { return c.kind(id).Transparent }

// IsAir reports whether id is the air block.
func (c *Catalog) IsAir(id ID) bool { return id == Air || c.kind(id).Air }

// Name returns the registered name for id, or "" if unregistered.
func (c *Catalog) Name(id ID) string { return c.kind(id).Name }

// TintColor returns the 0xRRGGBB tint for id, 0 if untinted.
func (c *Catalog) TintColor(id ID) uint32 { return c.kind(id).TintColor }

// TintsFace reports whether id's given face should receive TintColor.
func (c *Catalog) TintsFace(id ID, face Face) bool { return c.kind(id).TintFaces[face] }

// TextureOfFace returns the texture layer index for id's given face.
func (c *Catalog) TextureOfFace(id ID, face Face) int {
	name := c.kind(id).FaceTextures[face]
	if idx, ok := c.textureIndex[name]; ok {
		return idx
	}
	return 0
}

// Default builds the standard voxelcore catalog: the block kinds exercised
// by every generation pass (terrain, caves, ore lodes, trees) plus the
// optional water/sand shore dressing.
func Default() *Catalog {
	c := NewCatalog()

	c.Register(Kind{ID: Air, Name: "air", Air: true, Transparent: true})

	c.Register(Kind{
		ID:           Grass,
		Name:         "grass",
		FaceTextures: [6]string{"dirt.png", "dirt.png", "dirt.png", "grass_top.png", "dirt.png", "dirt.png"},
		Solid:        true,
		TintColor:    0x7DFF5C,
		TintFaces:    [6]bool{FacePosY: true},
	})

	c.Register(Kind{
		ID:           Dirt,
		Name:         "dirt",
		FaceTextures: [6]string{"dirt.png", "dirt.png", "dirt.png", "dirt.png", "dirt.png", "dirt.png"},
		Solid:        true,
	})

	c.Register(Kind{
		ID:           Stone,
		Name:         "stone",
		FaceTextures: [6]string{"stone.png", "stone.png", "stone.png", "stone.png", "stone.png", "stone.png"},
		Solid:        true,
	})

	c.Register(Kind{
		ID:           Bedrock,
		Name:         "bedrock",
		FaceTextures: [6]string{"bedrock.png", "bedrock.png", "bedrock.png", "bedrock.png", "bedrock.png", "bedrock.png"},
		Solid:        true,
	})

	c.Register(Kind{
		ID:           Sand,
		Name:         "sand",
		FaceTextures: [6]string{"sand.png", "sand.png", "sand.png", "sand.png", "sand.png", "sand.png"},
		Solid:        true,
	})

	c.Register(Kind{
		ID:           Water,
		Name:         "water",
		FaceTextures: [6]string{"water.png", "water.png", "water.png", "water.png", "water.png", "water.png"},
		Solid:        false,
		Transparent:  true,
	})

	c.Register(Kind{
		ID:           Log,
		Name:         "log_oak",
		FaceTextures: [6]string{"log_oak_side.png", "log_oak_side.png", "log_oak_top.png", "log_oak_top.png", "log_oak_side.png", "log_oak_side.png"},
		Solid:        true,
	})

	c.Register(Kind{
		ID:           Leaves,
		Name:         "leaves_oak",
		FaceTextures: [6]string{"leaves_oak.png", "leaves_oak.png", "leaves_oak.png", "leaves_oak.png", "leaves_oak.png", "leaves_oak.png"},
		Solid:        true,
		Transparent:  true,
	})

	c.Register(Kind{
		ID:           CoalOre,
		Name:         "coal_ore",
		FaceTextures: [6]string{"coal_ore.png", "coal_ore.png", "coal_ore.png", "coal_ore.png", "coal_ore.png", "coal_ore.png"},
		Solid:        true,
	})

	c.Register(Kind{
		ID:           IronOre,
		Name:         "iron_ore",
		FaceTextures: [6]string{"iron_ore.png", "iron_ore.png", "iron_ore.png", "iron_ore.png", "iron_ore.png", "iron_ore.png"},
		Solid:        true,
	})

	c.Register(Kind{
		ID:           GoldOre,
		Name:         "gold_ore",
		FaceTextures: [6]string{"gold_ore.png", "gold_ore.png", "gold_ore.png", "gold_ore.png", "gold_ore.png", "gold_ore.png"},
		Solid:        true,
	})

	c.Register(Kind{
		ID:           DiamondOre,
		Name:         "diamond_ore",
		FaceTextures: [6]string{"diamond_ore.png", "diamond_ore.png", "diamond_ore.png", "diamond_ore.png", "diamond_ore.png", "diamond_ore.png"},
		Solid:        true,
	})

	return c
}
