package collector

// aggregate groups per-host records into one collection per kind, keeping
// the fetch order. Field-set uniformity holds because records are always
// created from the kind's schema with placeholders prefilled.
func aggregate(results []hostResult, kinds []ReportKind) *Result {
	res := &Result{
		Collections: make(map[ReportKind]*ReportCollection, len(kinds)),
	}
	for _, kind := range kinds {
		res.Collections[kind] = &ReportCollection{
			Kind:   kind,
			Fields: kind.Fields(),
		}
	}
	for _, hr := range results {
		if hr.skip != nil {
			res.Skipped = append(res.Skipped, *hr.skip)
			continue
		}
		for _, rec := range hr.records {
			col := res.Collections[rec.Kind()]
			if col == nil {
				continue
			}
			col.Records = append(col.Records, rec)
		}
	}
	return res
}
