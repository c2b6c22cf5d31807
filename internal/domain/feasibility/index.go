package feasibility

import "github.com/okian/qsched/internal/domain/model"

// Index maps each active host to a dense integer handle and flattens its
// non-blocked availability into an ordered slot list. It is rebuilt per run
// and never cached across runs with different host data.
type Index struct {
	hosts []model.Host
	slots [][]model.TimeSlot
	total int
}

// BuildIndex constructs the index from the input host list. Inactive hosts
// are ignored; blocked days contribute no slots. Host order and, within a
// host, availability-day and slot order follow the input ordering exactly so
// that iteration over the index is deterministic.
func BuildIndex(hosts []model.Host) *Index {
	idx := &Index{}
	for _, h := range hosts {
		if !h.Active {
			continue
		}
		var flat []model.TimeSlot
		for _, day := range h.Availability {
			if day.Blocked {
				continue
			}
			for _, s := range day.Slots {
				if s.Date == "" {
					s.Date = day.Date
				}
				s.HostID = h.ID
				flat = append(flat, s)
			}
		}
		idx.hosts = append(idx.hosts, h)
		idx.slots = append(idx.slots, flat)
		idx.total += len(flat)
	}
	return idx
}

// HostCount returns the number of indexed (active) hosts.
func (x *Index) HostCount() int { return len(x.hosts) }

// Host returns the host for a dense handle.
func (x *Index) Host(h int) model.Host { return x.hosts[h] }

// Slots returns the ordered slot list for a dense handle. The returned
// slice must not be mutated.
func (x *Index) Slots(h int) []model.TimeSlot { return x.slots[h] }

// TotalSlots returns the number of slots across all indexed hosts.
func (x *Index) TotalSlots() int { return x.total }
