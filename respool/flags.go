package respool

import (
	"strings"
)

// CreateFlags indicate specific pool behaviors to activate or deactivate
type CreateFlags int32

const (
	// CreateExternallySynchronized ensures that this pool and every pool sub-allocated from it
	// will not be synchronized internally. The consumer must guarantee they are used from only
	// one goroutine at a time or are synchronized by some other mechanism.
	CreateExternallySynchronized CreateFlags = 1 << iota
	// CreateKeepPartialBatches makes Pool.Allocate keep the blocks carved by the earlier requests
	// of a batch when a later request fails, rather than leaving the pool unchanged. It does not
	// affect SubAllocate, which always commits every kind together or not at all.
	CreateKeepPartialBatches
)

var createFlagsMapping = []struct {
	flag CreateFlags
	name string
}{
	{CreateExternallySynchronized, "CreateExternallySynchronized"},
	{CreateKeepPartialBatches, "CreateKeepPartialBatches"},
}

func (f CreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for _, mapping := range createFlagsMapping {
		if f&mapping.flag != 0 {
			names = append(names, mapping.name)
			f &^= mapping.flag
		}
	}
	if f != 0 {
		names = append(names, "Unknown")
	}

	return strings.Join(names, "|")
}
