package core

// NodeValue is a value stored in a graph. Index must be stable and unique for
// the lifetime of the structure holding the value.
type NodeValue interface {
	Index() uint64
}

// Item is the smallest NodeValue: an index with no payload.
type Item struct {
	ID uint64
}

// Index returns the item id.
func (i Item) Index() uint64 { return i.ID }

// Neighbor holds a neighbor's index and its weight relative to a query.
type Neighbor[W Weight] struct {
	Index  uint64
	Weight W
}
