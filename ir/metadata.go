package ir

// MetadataFlags records which cached per-function analyses are valid.
// A pass that finishes mutating a body calls Preserve with the set of
// analyses it did not disturb; everything else is invalidated.
type MetadataFlags uint8

const (
	// MetadataBlockIndex means Block.Index values reflect layout order.
	MetadataBlockIndex MetadataFlags = 1 << iota
	// MetadataDominance means the dominator tree is up to date.
	MetadataDominance
)

// Preserve marks the given analyses as still valid and drops all
// others.
func (impl *FunctionImpl) Preserve(flags MetadataFlags) {
	impl.Metadata &= flags
}

// RequireMetadata computes any of the requested analyses that are not
// currently valid.
func (impl *FunctionImpl) RequireMetadata(flags MetadataFlags) {
	missing := flags &^ impl.Metadata
	if missing&MetadataBlockIndex != 0 {
		impl.indexBlocks()
	}
	if missing&MetadataDominance != 0 {
		impl.computeDominance()
	}
	impl.Metadata |= flags
}

func (impl *FunctionImpl) indexBlocks() {
	for i, b := range impl.Blocks {
		b.Index = uint32(i)
	}
}

// Idom returns the block's immediate dominator, or nil for the entry
// block. Valid only while MetadataDominance is set.
func (b *Block) Idom() *Block { return b.idom }

// Dominates reports whether b dominates other. Both blocks must belong
// to a body with valid dominance metadata.
func (b *Block) Dominates(other *Block) bool {
	for cur := other; cur != nil; cur = cur.idom {
		if cur == b {
			return true
		}
	}
	return false
}

// postorder computes a DFS postorder of the reachable blocks.
func (impl *FunctionImpl) postorder() []*Block {
	seen := make(map[*Block]bool, len(impl.Blocks))
	order := make([]*Block, 0, len(impl.Blocks))

	type frame struct {
		b     *Block
		index int // successor edges already explored
	}
	stack := []frame{{b: impl.EntryBlock()}}
	seen[impl.EntryBlock()] = true
	for len(stack) > 0 {
		tos := len(stack) - 1
		x := stack[tos]
		if i := x.index; i < len(x.b.Succs) {
			stack[tos].index++
			succ := x.b.Succs[i]
			if !seen[succ] {
				seen[succ] = true
				stack = append(stack, frame{b: succ})
			}
			continue
		}
		stack = stack[:tos]
		order = append(order, x.b)
	}
	return order
}

// computeDominance fills in Block.idom using the iterative dataflow
// algorithm over reverse postorder.
func (impl *FunctionImpl) computeDominance() {
	for _, b := range impl.Blocks {
		b.idom = nil
	}

	post := impl.postorder()
	ponum := make(map[*Block]int, len(post))
	for i, b := range post {
		ponum[b] = i
	}

	entry := impl.EntryBlock()
	entry.idom = entry // sentinel during iteration

	intersect := func(x, y *Block) *Block {
		for x != y {
			for ponum[x] < ponum[y] {
				x = x.idom
			}
			for ponum[y] < ponum[x] {
				y = y.idom
			}
		}
		return x
	}

	for changed := true; changed; {
		changed = false
		// Reverse postorder, entry excluded.
		for i := len(post) - 2; i >= 0; i-- {
			b := post[i]
			var idom *Block
			for _, p := range b.Preds {
				if p.idom == nil {
					continue // unreachable or not yet processed
				}
				if idom == nil {
					idom = p
				} else {
					idom = intersect(idom, p)
				}
			}
			if idom != nil && b.idom != idom {
				b.idom = idom
				changed = true
			}
		}
	}

	entry.idom = nil
}
