package ruleta

// Merge appends to each catalog category the custom questions filed under its
// name, in the order given. Custom questions naming a category the catalog
// does not have are dropped. The result always has the catalog's length and
// order, and never shares question slices with the catalog.
func Merge(catalog []Category, custom []CustomQuestion) []Category {
	merged := make([]Category, len(catalog))
	for i, c := range catalog {
		questions := make([]string, 0, len(c.Questions))
		questions = append(questions, c.Questions...)
		for _, cq := range custom {
			if cq.Category == c.Name {
				questions = append(questions, cq.Question)
			}
		}
		c.Questions = questions
		merged[i] = c
	}
	return merged
}

// Orphans returns the custom questions Merge would drop.
func Orphans(catalog []Category, custom []CustomQuestion) []CustomQuestion {
	names := make(map[string]struct{}, len(catalog))
	for _, c := range catalog {
		names[c.Name] = struct{}{}
	}
	var out []CustomQuestion
	for _, cq := range custom {
		if _, ok := names[cq.Category]; !ok {
			out = append(out, cq)
		}
	}
	return out
}
