// Package meshing implements the Mesher: greedy face-culling meshing that
// converts a chunk's voxel occupancy into an opaque vertex stream and a
// transparent vertex stream, consulting the World for cross-chunk
// neighbour solidity.
package meshing

import (
	"voxelcore/internal/blocks"
	"voxelcore/internal/profiling"
	"voxelcore/internal/voxel"
)

// VertexStride is the number of packed uint32 words per emitted vertex.
const VertexStride = 2

type faceDir struct {
	nx, ny, nz int
	face       blocks.Face
}

var directions = [6]faceDir{
	{-1, 0, 0, blocks.FaceNegX},
	{1, 0, 0, blocks.FacePosX},
	{0, -1, 0, blocks.FaceNegY},
	{0, 1, 0, blocks.FacePosY},
	{0, 0, -1, blocks.FaceNegZ},
	{0, 0, 1, blocks.FacePosZ},
}

func encodeNormal(face blocks.Face) byte { return byte(face) }

func packColor(c uint32) uint16 {
	if c == 0 {
		return 0xFFFF
	}
	r := (c >> 16) & 0xFF
	g := (c >> 8) & 0xFF
	b := c & 0xFF
	return uint16(((r>>3)&0x1F)<<11 | ((g>>2)&0x3F)<<5 | (b>>3)&0x1F)
}

// packVertex packs one vertex into two uint32 words:
// V1: X bits 0-4, Y bits 5-13, Z bits 14-18, normal bits 19-21, brightness bits 22-29.
// V2: texture layer ID bits 0-15, tint (RGB565) bits 16-31.
func packVertex(x, y, z int, normal byte, texID int, brightness byte, tint uint16) (uint32, uint32) {
	v1 := uint32(x) | uint32(y)<<5 | uint32(z)<<14 | uint32(normal)<<19 | uint32(brightness)<<22
	v2 := uint32(texID) | uint32(tint)<<16
	return v1, v2
}

func faceBrightness(face blocks.Face) byte {
	switch face {
	case blocks.FacePosY:
		return 255
	case blocks.FaceNegY:
		return 128
	default:
		return 204
	}
}

// BuildChunkMesh runs greedy meshing for all six face directions and
// returns the split opaque/transparent vertex streams. Idempotent: calling
// it again without any intervening voxel mutation yields the same result.
func BuildChunkMesh(w *voxel.World, c *voxel.Chunk) voxel.MeshData {
	defer profiling.Track("meshing.BuildChunkMesh")()

	var data voxel.MeshData
	for _, dir := range directions {
		opaque, transparent := buildDirection(w, c, dir)
		data.Opaque = append(data.Opaque, opaque...)
		data.Transparent = append(data.Transparent, transparent...)
	}
	return data
}

// visible reports whether the face of curID looking toward (wx,wy,wz)'s
// neighbour should be emitted, per spec.md §4.7: a transparent block never
// draws a face against an identical transparent neighbour, solid or not
// (so two adjacent water cells, or two adjacent leaves, cull between
// themselves); otherwise visible if the neighbour is not solid, or is
// transparent and a different block than curID.
func visible(w *voxel.World, curID blocks.ID, nwx, nwy, nwz int) bool {
	catalog := w.Catalog()
	if catalog.Transparent(curID) && w.IsTransparentAt(nwx, nwy, nwz) {
		neighID := w.VoxelAt(nwx, nwy, nwz)
		if neighID == curID {
			return false
		}
	}
	if !w.IsSolidAt(nwx, nwy, nwz) {
		return true
	}
	if w.IsTransparentAt(nwx, nwy, nwz) {
		neighID := w.VoxelAt(nwx, nwy, nwz)
		return neighID != curID
	}
	return false
}

// buildDirection performs 2D greedy meshing for one face normal, returning
// the opaque and transparent vertex streams it produced.
func buildDirection(w *voxel.World, c *voxel.Chunk, dir faceDir) (opaque, transparent []uint32) {
	defer profiling.Track("meshing.buildDirection")()

	catalog := w.Catalog()
	cw, ch := c.Width(), c.Height()
	baseX := c.Coord.CX * cw
	baseZ := c.Coord.CZ * cw

	emit := func(quad [4][3]int, face blocks.Face, id blocks.ID) {
		texID := catalog.TextureOfFace(id, face)
		tint := uint16(0xFFFF)
		if catalog.TintColor(id) != 0 && catalog.TintsFace(id, face) {
			tint = packColor(catalog.TintColor(id))
		}
		normal := encodeNormal(face)
		brightness := faceBrightness(face)

		var v1a, v2a, v1b, v2b, v1c, v2c, v1d, v2d uint32
		v1a, v2a = packVertex(quad[0][0], quad[0][1], quad[0][2], normal, texID, brightness, tint)
		v1b, v2b = packVertex(quad[1][0], quad[1][1], quad[1][2], normal, texID, brightness, tint)
		v1c, v2c = packVertex(quad[2][0], quad[2][1], quad[2][2], normal, texID, brightness, tint)
		v1d, v2d = packVertex(quad[3][0], quad[3][1], quad[3][2], normal, texID, brightness, tint)

		verts := []uint32{v1a, v2a, v1b, v2b, v1c, v2c, v1c, v2c, v1d, v2d, v1a, v2a}
		if catalog.Transparent(id) {
			transparent = append(transparent, verts...)
		} else {
			opaque = append(opaque, verts...)
		}
	}

	// Each case slices the chunk along the normal axis; the mask ranges over
	// the other two axes. The mask stores blockID+1 (0 = hidden).
	switch {
	case dir.nx != 0:
		for x := 0; x < cw; x++ {
			mask := make([]int, ch*cw)
			for y := 0; y < ch; y++ {
				for z := 0; z < cw; z++ {
					id := c.GetLocal(x, y, z)
					if catalog.IsAir(id) {
						continue
					}
					wx, wy, wz := baseX+x, y, baseZ+z
					if visible(w, id, wx+dir.nx, wy, wz) {
						mask[y*cw+z] = int(id) + 1
					}
				}
			}
			sweepMask(mask, ch, cw, func(y0, z0, h, width int, id blocks.ID) {
				fx := x
				if dir.nx > 0 {
					fx = x + 1
				}
				face := dir.face
				var quad [4][3]int
				if dir.nx > 0 {
					quad = [4][3]int{{fx, y0, z0}, {fx, y0 + h, z0}, {fx, y0 + h, z0 + width}, {fx, y0, z0 + width}}
				} else {
					quad = [4][3]int{{fx, y0, z0}, {fx, y0, z0 + width}, {fx, y0 + h, z0 + width}, {fx, y0 + h, z0}}
				}
				emit(quad, face, id)
			})
		}

	case dir.ny != 0:
		for y := 0; y < ch; y++ {
			mask := make([]int, cw*cw)
			for x := 0; x < cw; x++ {
				for z := 0; z < cw; z++ {
					id := c.GetLocal(x, y, z)
					if catalog.IsAir(id) {
						continue
					}
					wx, wy, wz := baseX+x, y, baseZ+z
					if visible(w, id, wx, wy+dir.ny, wz) {
						mask[x*cw+z] = int(id) + 1
					}
				}
			}
			sweepMask(mask, cw, cw, func(x0, z0, h, width int, id blocks.ID) {
				fy := y
				if dir.ny > 0 {
					fy = y + 1
				}
				face := dir.face
				var quad [4][3]int
				if dir.ny > 0 {
					quad = [4][3]int{{x0, fy, z0}, {x0, fy, z0 + width}, {x0 + h, fy, z0 + width}, {x0 + h, fy, z0}}
				} else {
					quad = [4][3]int{{x0, fy, z0}, {x0 + h, fy, z0}, {x0 + h, fy, z0 + width}, {x0, fy, z0 + width}}
				}
				emit(quad, face, id)
			})
		}

	default: // dir.nz != 0
		for z := 0; z < cw; z++ {
			mask := make([]int, cw*ch)
			for x := 0; x < cw; x++ {
				for y := 0; y < ch; y++ {
					id := c.GetLocal(x, y, z)
					if catalog.IsAir(id) {
						continue
					}
					wx, wy, wz := baseX+x, y, baseZ+z
					if visible(w, id, wx, wy, wz+dir.nz) {
						mask[x*ch+y] = int(id) + 1
					}
				}
			}
			sweepMask(mask, cw, ch, func(x0, y0, h, width int, id blocks.ID) {
				fz := z
				if dir.nz > 0 {
					fz = z + 1
				}
				face := dir.face
				var quad [4][3]int
				if dir.nz > 0 {
					quad = [4][3]int{{x0, y0, fz}, {x0 + h, y0, fz}, {x0 + h, y0 + width, fz}, {x0, y0 + width, fz}}
				} else {
					quad = [4][3]int{{x0, y0, fz}, {x0, y0 + width, fz}, {x0 + h, y0 + width, fz}, {x0 + h, y0, fz}}
				}
				emit(quad, face, id)
			})
		}
	}

	return opaque, transparent
}

// sweepMask scans a rows×cols mask (indexed row-major [row][col] as
// row*cols+col) and greedily merges rectangles of equal non-zero value,
// invoking onQuad(rowStart, colStart, rowExtent, colExtent, blockID) for
// each maximal rectangle, zeroing it out of the mask as it goes.
func sweepMask(mask []int, rows, cols int, onQuad func(row0, col0, rowExtent, colExtent int, id blocks.ID)) {
	i := 0
	for i < rows*cols {
		if mask[i] == 0 {
			i++
			continue
		}
		val := mask[i]
		row0 := i / cols
		col0 := i % cols

		width := 1
		for c1 := col0 + 1; c1 < cols && mask[row0*cols+c1] == val; c1++ {
			width++
		}

		height := 1
	outer:
		for r1 := row0 + 1; r1 < rows; r1++ {
			for c1 := col0; c1 < col0+width; c1++ {
				if mask[r1*cols+c1] != val {
					break outer
				}
			}
			height++
		}

		for r := row0; r < row0+height; r++ {
			for c1 := col0; c1 < col0+width; c1++ {
				mask[r*cols+c1] = 0
			}
		}

		onQuad(row0, col0, height, width, blocks.ID(val-1))
	}
}
