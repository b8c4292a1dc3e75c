package respool

import (
	"math/big"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/rpkitools/resalloc/resutils"
	"github.com/rpkitools/resalloc/resutils/interval"
)

// AddDetailedStatistics sums the free ranges and issued blocks of kind into stats
func (p *Pool) AddDetailedStatistics(kind interval.Kind, stats *resutils.DetailedStatistics) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	p.addDetailedStatistics(kind, stats)
}

func (p *Pool) addDetailedStatistics(kind interval.Kind, stats *resutils.DetailedStatistics) {
	store, err := p.store(kind)
	if err != nil {
		return
	}
	store.AddDetailedStatistics(stats)

	issued, _ := p.issued.Get(kind)
	for _, block := range issued {
		stats.AddAllocation(block.Size())
	}
}

// BuildStatsString returns a JSON document describing the pool's resources. With detailed set,
// every free entry and issued block is listed as well.
func (p *Pool) BuildStatsString(detailed bool) string {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	p.WriteJSON(obj, detailed)
	obj.End()

	return string(writer.Bytes())
}

// WriteJSON populates a json object with information about this pool
func (p *Pool) WriteJSON(json jwriter.ObjectState, detailed bool) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	json.Name("Name").String(p.name)
	if p.parent != nil {
		json.Name("Parent").String(p.parent.name)
	}

	kinds := json.Name("Kinds").Object()
	defer kinds.End()

	for _, kind := range interval.Kinds {
		kindObj := kinds.Name(kind.String()).Object()
		p.writeKindJSON(kindObj, kind, detailed)
		kindObj.End()
	}
}

func (p *Pool) writeKindJSON(json jwriter.ObjectState, kind interval.Kind, detailed bool) {
	var stats resutils.DetailedStatistics
	p.addDetailedStatistics(kind, &stats)

	json.Name("Inherited").Bool(p.inherits(kind))
	json.Name("FreeRanges").Int(stats.FreeRangeCount)
	json.Name("FreeSize").String(stats.FreeSize.String())
	json.Name("Allocations").Int(stats.AllocationCount)
	json.Name("AllocationSize").String(stats.AllocationSize.String())

	if !detailed {
		return
	}

	writeSize(json, "FreeRangeSizeMin", stats.FreeRangeSizeMin)
	writeSize(json, "FreeRangeSizeMax", stats.FreeRangeSizeMax)
	writeSize(json, "AllocationSizeMin", stats.AllocationSizeMin)
	writeSize(json, "AllocationSizeMax", stats.AllocationSizeMax)

	store, err := p.store(kind)
	if err == nil {
		freeList := json.Name("FreeList").Object()
		store.WriteJSON(freeList)
		freeList.End()
	}

	issued, _ := p.issued.Get(kind)
	issuedArray := json.Name("Issued").Array()
	for _, block := range issued {
		issuedArray.String(block.String())
	}
	issuedArray.End()
}

func writeSize(json jwriter.ObjectState, name string, size *big.Int) {
	if size == nil {
		return
	}
	json.Name(name).String(size.String())
}
