// Package combination finds the best set of tables for a party.
//
// A single table of any kind fits when its capacity covers the party.
// Two or more tables may be joined only when every one of them is combinable.
// Candidates are ranked by excess seats, then by number of tables, then by
// the sorted list of table ids (smallest first).
package combination

import (
	"cmp"
	"slices"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// capacityClass groups combinable tables of equal capacity.
// ids are ascending, so taking k tables of a class always means its first k ids.
type capacityClass struct {
	capacity int
	ids      []int64
}

// frame is one node of the branch-and-bound search
type frame struct {
	class  int   // next class to decide on
	sum    int   // seats collected so far
	size   int   // tables collected so far
	counts []int // tables taken per class
}

// Search returns the best combination of the given tables for partySize.
// Tables are assumed to be free and active. The result has RoomID unset.
func Search(partySize int, tables []*domain.Table) (domain.Combination, bool) {
	if partySize <= 0 || len(tables) == 0 {
		return domain.Combination{}, false
	}

	var (
		best  domain.Combination
		found bool
	)
	offer := func(c domain.Combination) {
		if !found || Compare(c, best) < 0 {
			best = c
			found = true
		}
	}

	// Одиночный стол подходит независимо от флага combinable
	for _, t := range tables {
		if t.Capacity >= partySize {
			offer(newCombination([]int64{t.ID}, t.Capacity, partySize))
		}
	}

	classes := buildClasses(tables)
	if len(classes) == 0 {
		return best, found
	}

	// suffix[i] = сколько мест дают все классы начиная с i
	suffix := make([]int, len(classes)+1)
	for i := len(classes) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + classes[i].capacity*len(classes[i].ids)
	}
	if suffix[0] < partySize {
		return best, found
	}

	stack := []frame{{counts: make([]int, len(classes))}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.sum >= partySize {
			// Дальше расширять бессмысленно: излишек и число столов только растут
			if top.size >= 2 {
				offer(materialize(classes, top.counts, top.sum, partySize))
			}
			continue
		}
		if top.class == len(classes) {
			continue
		}
		if top.sum+suffix[top.class] < partySize {
			continue
		}
		// Любое продолжение добавит хотя бы один стол при излишке >= 0
		if found && best.Excess == 0 && top.size+1 > best.Size() {
			continue
		}

		class := classes[top.class]
		need := partySize - top.sum
		maxTake := min(len(class.ids), (need+class.capacity-1)/class.capacity)

		// take=0 кладём первым, чтобы сначала раскрывались ветки с большими столами
		for take := 0; take <= maxTake; take++ {
			counts := slices.Clone(top.counts)
			counts[top.class] = take
			stack = append(stack, frame{
				class:  top.class + 1,
				sum:    top.sum + take*class.capacity,
				size:   top.size + take,
				counts: counts,
			})
		}
	}

	return best, found
}

// Compare orders combinations: excess, then table count, then sorted ids.
// RoomID is not part of the order.
func Compare(a, b domain.Combination) int {
	if c := cmp.Compare(a.Excess, b.Excess); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.TableIDs), len(b.TableIDs)); c != 0 {
		return c
	}
	return slices.Compare(a.TableIDs, b.TableIDs)
}

func buildClasses(tables []*domain.Table) []capacityClass {
	byCapacity := make(map[int][]int64)
	for _, t := range tables {
		if !t.Combinable || t.Capacity <= 0 {
			continue
		}
		byCapacity[t.Capacity] = append(byCapacity[t.Capacity], t.ID)
	}

	classes := make([]capacityClass, 0, len(byCapacity))
	for capacity, ids := range byCapacity {
		slices.Sort(ids)
		classes = append(classes, capacityClass{capacity: capacity, ids: ids})
	}
	// Большие столы первыми
	slices.SortFunc(classes, func(a, b capacityClass) int {
		return cmp.Compare(b.capacity, a.capacity)
	})
	return classes
}

func materialize(classes []capacityClass, counts []int, sum, partySize int) domain.Combination {
	ids := make([]int64, 0)
	for i, n := range counts {
		ids = append(ids, classes[i].ids[:n]...)
	}
	return newCombination(ids, sum, partySize)
}

func newCombination(ids []int64, total, partySize int) domain.Combination {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return domain.Combination{
		TableIDs:      sorted,
		TotalCapacity: total,
		Excess:        total - partySize,
	}
}
