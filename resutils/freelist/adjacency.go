package freelist

import "github.com/rpkitools/resalloc/resutils/interval"

// adjacency classifies a new free interval against its would-be neighbors in the list
type adjacency uint32

const (
	adjacencyNone adjacency = 0
	adjacencyNext adjacency = 1
	adjacencyPrev adjacency = 2
	adjacencyBoth           = adjacencyNext | adjacencyPrev
)

var adjacencyMapping = map[adjacency]string{
	adjacencyNone: "adjacencyNone",
	adjacencyNext: "adjacencyNext",
	adjacencyPrev: "adjacencyPrev",
	adjacencyBoth: "adjacencyBoth",
}

func (a adjacency) String() string {
	return adjacencyMapping[a]
}

// classifyAdjacency reports which of prev and next the interval touches. Either neighbor may
// be nil when the interval would become the first or last entry.
func classifyAdjacency(prev *interval.Interval, iv interval.Interval, next *interval.Interval) adjacency {
	result := adjacencyNone
	if next != nil && iv.AdjacentTo(*next) {
		result |= adjacencyNext
	}
	if prev != nil && prev.AdjacentTo(iv) {
		result |= adjacencyPrev
	}
	return result
}
