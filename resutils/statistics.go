package resutils

import "math/big"

// Statistics sums the free and allocated space of one or more free lists. Sizes are counted
// in resource numbers (addresses or AS numbers).
type Statistics struct {
	StoreCount      int
	FreeRangeCount  int
	AllocationCount int
	FreeSize        big.Int
	AllocationSize  big.Int
}

func (s *Statistics) Clear() {
	s.StoreCount = 0
	s.FreeRangeCount = 0
	s.AllocationCount = 0
	s.FreeSize.SetInt64(0)
	s.AllocationSize.SetInt64(0)
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.StoreCount += other.StoreCount
	s.FreeRangeCount += other.FreeRangeCount
	s.AllocationCount += other.AllocationCount
	s.FreeSize.Add(&s.FreeSize, &other.FreeSize)
	s.AllocationSize.Add(&s.AllocationSize, &other.AllocationSize)
}

// DetailedStatistics extends Statistics with size extremes. A nil extreme means nothing
// has been counted yet.
type DetailedStatistics struct {
	Statistics
	FreeRangeSizeMin  *big.Int
	FreeRangeSizeMax  *big.Int
	AllocationSizeMin *big.Int
	AllocationSizeMax *big.Int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRangeSizeMin = nil
	s.FreeRangeSizeMax = nil
	s.AllocationSizeMin = nil
	s.AllocationSizeMax = nil
}

func (s *DetailedStatistics) AddFreeRange(size *big.Int) {
	s.FreeRangeCount++
	s.FreeSize.Add(&s.FreeSize, size)
	s.FreeRangeSizeMin = minOf(s.FreeRangeSizeMin, size)
	s.FreeRangeSizeMax = maxOf(s.FreeRangeSizeMax, size)
}

func (s *DetailedStatistics) AddAllocation(size *big.Int) {
	s.AllocationCount++
	s.AllocationSize.Add(&s.AllocationSize, size)
	s.AllocationSizeMin = minOf(s.AllocationSizeMin, size)
	s.AllocationSizeMax = maxOf(s.AllocationSizeMax, size)
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)

	if other.FreeRangeSizeMin != nil {
		s.FreeRangeSizeMin = minOf(s.FreeRangeSizeMin, other.FreeRangeSizeMin)
	}
	if other.FreeRangeSizeMax != nil {
		s.FreeRangeSizeMax = maxOf(s.FreeRangeSizeMax, other.FreeRangeSizeMax)
	}
	if other.AllocationSizeMin != nil {
		s.AllocationSizeMin = minOf(s.AllocationSizeMin, other.AllocationSizeMin)
	}
	if other.AllocationSizeMax != nil {
		s.AllocationSizeMax = maxOf(s.AllocationSizeMax, other.AllocationSizeMax)
	}
}

func minOf(current, candidate *big.Int) *big.Int {
	if current == nil || candidate.Cmp(current) < 0 {
		return new(big.Int).Set(candidate)
	}
	return current
}

func maxOf(current, candidate *big.Int) *big.Int {
	if current == nil || candidate.Cmp(current) > 0 {
		return new(big.Int).Set(candidate)
	}
	return current
}
