package png

import (
	"github.com/tidwall/btree"
)

// InventoryEntry summarizes every chunk of one type within a png.
type InventoryEntry struct {
	Type       ChunkType
	Count      int
	DataBytes  uint64
	FirstIndex int
}

// Inventory groups a png's chunks by type, ordered by type code.
type Inventory struct {
	index *btree.BTreeG[*InventoryEntry]
}

func newInventoryIndex() *btree.BTreeG[*InventoryEntry] {
	compare := func(a, b *InventoryEntry) bool {
		return a.Type.String() < b.Type.String()
	}
	return btree.NewBTreeG(compare)
}

// NewInventory builds the inventory of p.
func NewInventory(p *Png) *Inventory {
	inv := &Inventory{index: newInventoryIndex()}
	for i, chunk := range p.chunks {
		entry, ok := inv.index.Get(&InventoryEntry{Type: chunk.Type()})
		if !ok {
			entry = &InventoryEntry{Type: chunk.Type(), FirstIndex: i}
			inv.index.Set(entry)
		}
		entry.Count++
		entry.DataBytes += uint64(chunk.Length())
	}
	return inv
}

// Len returns the number of distinct chunk types.
func (inv *Inventory) Len() int {
	return inv.index.Len()
}

// Get returns the entry for chunkType, if present.
func (inv *Inventory) Get(chunkType ChunkType) (InventoryEntry, bool) {
	entry, ok := inv.index.Get(&InventoryEntry{Type: chunkType})
	if !ok {
		return InventoryEntry{}, false
	}
	return *entry, true
}

// Entries returns all entries sorted by type code.
func (inv *Inventory) Entries() []InventoryEntry {
	entries := make([]InventoryEntry, 0, inv.index.Len())
	inv.index.Scan(func(entry *InventoryEntry) bool {
		entries = append(entries, *entry)
		return true
	})
	return entries
}
