package sim

// ProductionRequest records one line's demand for a single item in the
// current step: how many producers the line wants to start and how much
// of the item those producers need.
type ProductionRequest[I comparable] struct {
	Line               *ProductionLine[I]
	RequestedAmount    int64
	RequestedProducers int64
}

// ItemRequest tabulates which lines want how much of one item. Entries
// preserve line iteration order.
type ItemRequest[I comparable] struct {
	Productions          []ProductionRequest[I]
	TotalRequestedAmount int64
}

// RequestSet is an item -> ItemRequest mapping with insertion-ordered
// iteration. Partitioning and withdrawal order follow iteration order, so
// it must be deterministic across runs with identical inputs.
type RequestSet[I comparable] struct {
	order  []I
	byItem map[I]*ItemRequest[I]
}

// NewRequestSet returns an empty request set.
func NewRequestSet[I comparable]() *RequestSet[I] {
	return &RequestSet[I]{byItem: make(map[I]*ItemRequest[I])}
}

// Len returns the number of item requests in the set.
func (s *RequestSet[I]) Len() int {
	return len(s.order)
}

// Items returns the item keys in insertion order. The returned slice is
// the set's internal storage; callers MUST NOT mutate it.
func (s *RequestSet[I]) Items() []I {
	return s.order
}

// Get returns the request for item, if present.
func (s *RequestSet[I]) Get(item I) (*ItemRequest[I], bool) {
	req, ok := s.byItem[item]
	return req, ok
}

// Has reports whether the set contains a request for item.
func (s *RequestSet[I]) Has(item I) bool {
	_, ok := s.byItem[item]
	return ok
}

// put inserts an existing request under item, keeping insertion order.
func (s *RequestSet[I]) put(item I, req *ItemRequest[I]) {
	if _, ok := s.byItem[item]; !ok {
		s.order = append(s.order, item)
	}
	s.byItem[item] = req
}

// appendEntry adds a production entry to item's request, creating the
// request on first use.
func (s *RequestSet[I]) appendEntry(item I, entry ProductionRequest[I]) {
	req, ok := s.byItem[item]
	if !ok {
		req = &ItemRequest[I]{}
		s.order = append(s.order, item)
		s.byItem[item] = req
	}
	req.Productions = append(req.Productions, entry)
	req.TotalRequestedAmount += entry.RequestedAmount
}

// remove deletes item's request, keeping the order of the rest.
func (s *RequestSet[I]) remove(item I) {
	if _, ok := s.byItem[item]; !ok {
		return
	}
	delete(s.byItem, item)
	for i, key := range s.order {
		if key == item {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// CollectItemRequests builds the per-item demand of all idle lines
// against the current store state. For each line at progress 0 with a
// non-empty ingredient list, the number of producers worth requesting is
// capped three ways: by the line's configured pool, by what storage can
// sustain in ingredients, and by what free capacity can absorb in
// results. Lines capped to zero contribute nothing. Raw lines (empty
// ingredients) contribute nothing either; the scheduler activates them
// directly.
func CollectItemRequests[I comparable](lines []*ProductionLine[I], store Store[I]) *RequestSet[I] {
	requests := NewRequestSet[I]()
	for _, line := range lines {
		if line.ProductionProgress != 0 || len(line.Recipe.Ingredients) == 0 {
			continue
		}
		maxSafe := line.TotalProducers
		for _, ing := range line.Recipe.Ingredients {
			maxSafe = min(maxSafe, store.GetStoredAmount(ing.Item)/ing.Amount)
		}
		for _, res := range line.Recipe.Results {
			maxSafe = min(maxSafe, store.GetFreeCapacity(res.Item)/res.Amount)
		}
		if maxSafe == 0 {
			continue
		}
		for _, ing := range line.Recipe.Ingredients {
			requests.appendEntry(ing.Item, ProductionRequest[I]{
				Line:               line,
				RequestedAmount:    ing.Amount * maxSafe,
				RequestedProducers: maxSafe,
			})
		}
	}
	return requests
}

// GetSimpleItemRequests extracts the requests that form a connected
// component of exactly one line: the item has a single requesting line,
// and every ingredient of that line is requested by nobody else. Simple
// requests can be granted in full without looking at any other line.
func GetSimpleItemRequests[I comparable](all *RequestSet[I]) *RequestSet[I] {
	simple := NewRequestSet[I]()
	for _, item := range all.Items() {
		req, _ := all.Get(item)
		if len(req.Productions) != 1 {
			continue
		}
		line := req.Productions[0].Line
		exclusive := true
		for _, ing := range line.Recipe.Ingredients {
			other, ok := all.Get(ing.Item)
			if !ok || len(other.Productions) != 1 || other.Productions[0].Line != line {
				exclusive = false
				break
			}
		}
		if exclusive {
			simple.put(item, req)
		}
	}
	return simple
}

// GetSatisfiableMixedItemRequests extracts the non-simple requests whose
// demand fits: every line touching the item could receive all of its
// ingredients in full from current storage, as could every line sharing
// any of those ingredients (checked through each ingredient request's
// total demand).
func GetSatisfiableMixedItemRequests[I comparable](all, simple *RequestSet[I], store Store[I]) *RequestSet[I] {
	satisfiable := NewRequestSet[I]()
	for _, item := range all.Items() {
		if simple.Has(item) {
			continue
		}
		req, _ := all.Get(item)
		fits := true
		for _, p := range req.Productions {
			for _, ing := range p.Line.Recipe.Ingredients {
				ingReq, ok := all.Get(ing.Item)
				if !ok || store.GetStoredAmount(ing.Item) < ingReq.TotalRequestedAmount {
					fits = false
					break
				}
			}
			if !fits {
				break
			}
		}
		if fits {
			satisfiable.put(item, req)
		}
	}
	return satisfiable
}

// GetGroupedUnsatisfiableMixedItemRequests partitions the remaining
// requests into connected components: starting from any leftover item,
// the component grows by the ingredient items of every line mentioned in
// it, to a fixpoint. Each component is a self-contained group that the
// scheduler rations proportionally.
func GetGroupedUnsatisfiableMixedItemRequests[I comparable](all, simple, satisfiable *RequestSet[I]) []*RequestSet[I] {
	remaining := NewRequestSet[I]()
	for _, item := range all.Items() {
		if simple.Has(item) || satisfiable.Has(item) {
			continue
		}
		req, _ := all.Get(item)
		remaining.put(item, req)
	}

	var groups []*RequestSet[I]
	for remaining.Len() > 0 {
		seed := []I{remaining.Items()[0]}
		member := map[I]bool{seed[0]: true}
		for i := 0; i < len(seed); i++ {
			req, _ := remaining.Get(seed[i])
			for _, p := range req.Productions {
				for _, ing := range p.Line.Recipe.Ingredients {
					if !member[ing.Item] && remaining.Has(ing.Item) {
						member[ing.Item] = true
						seed = append(seed, ing.Item)
					}
				}
			}
		}
		group := NewRequestSet[I]()
		for _, item := range remaining.Items() {
			if member[item] {
				req, _ := remaining.Get(item)
				group.put(item, req)
			}
		}
		for _, item := range group.Items() {
			remaining.remove(item)
		}
		groups = append(groups, group)
	}
	return groups
}
