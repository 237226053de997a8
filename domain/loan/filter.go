package loan

// FilterByCondition returns the records with condition c in their original order.
// The receiver is left untouched, so repeated or alternating selections always
// start from the full table.
func (d *Dataset) FilterByCondition(c Condition) *Dataset {
	return d.filter("condition", c.String(), func(r Record) bool { return r.Condition == c })
}

func (d *Dataset) filter(key, value string, keep func(Record) bool) *Dataset {
	subset := make([]Record, 0, len(d.records))
	for _, r := range d.records {
		if keep(r) {
			subset = append(subset, r)
		}
	}
	filters := make(map[string]string, len(d.filters)+1)
	for k, v := range d.filters {
		filters[k] = v
	}
	filters[key] = value

	return &Dataset{
		id:       d.id,
		source:   d.source,
		loadedAt: d.loadedAt,
		filters:  filters,
		records:  subset,
	}
}
