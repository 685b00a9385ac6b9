package model

const Uncategorized = "Uncategorized"

// Bucket is one display group of fields.
type Bucket struct {
	Category string  `json:"category"`
	Fields   []Field `json:"fields"`
}

func (b Bucket) Empty() bool {
	return len(b.Fields) == 0
}

// Group partitions the fields of a form by category. The Uncategorized bucket
// always comes first, followed by one bucket per declared category in order.
// A field whose category is empty or undeclared lands in Uncategorized.
func Group(form Form) []Bucket {
	buckets := make([]Bucket, 1, len(form.Categories)+1)
	buckets[0] = Bucket{Category: Uncategorized}

	index := map[string]int{Uncategorized: 0}
	for _, c := range form.Categories {
		if _, ok := index[c]; ok {
			continue
		}
		index[c] = len(buckets)
		buckets = append(buckets, Bucket{Category: c})
	}

	for _, f := range form.Fields {
		i := index[f.Category] // zero for unknown
		buckets[i].Fields = append(buckets[i].Fields, f)
	}
	return buckets
}
