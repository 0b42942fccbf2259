package main

// setTypeAdd inserts members not already present, returning the count
// actually added — saddCommand's return value (spec.md §4.5) is exactly
// this count, not the input size.
func setTypeAdd(set *Gobj, members []*Gobj) int64 {
	dict := set.Dict()
	var added int64
	for _, m := range members {
		if dict.Add(m, nil) == nil {
			added++
		}
	}
	return added
}

func setTypeRemove(set *Gobj, members []*Gobj) int64 {
	dict := set.Dict()
	var removed int64
	for _, m := range members {
		if dict.Delete(m) == nil {
			removed++
		}
	}
	return removed
}

func setTypeSize(set *Gobj) int64 {
	return set.Dict().Size()
}

func setTypeIsMember(set, member *Gobj) bool {
	return set.Dict().Find(member) != nil
}
