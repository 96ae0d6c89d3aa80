package args

// Parse scans argv left to right, skipping argv[0], and returns the options.
//
// The scanner remembers at most one pending flag. A flag token replaces it, a
// non-flag token is stored as its value and clears it. With nothing pending,
// a bare identifier becomes a flag and everything else is dropped.
func Parse(argv []string) *Store {
	store := NewStore()
	if len(argv) < 2 {
		return store
	}

	current := ""
	for _, raw := range argv[1:] {
		tok := Classify(raw)
		switch {
		case tok.IsFlag():
			current = tok.Name
			store.set(current, Flag())
		case current != "":
			store.set(current, Literal(tok.Raw))
			current = ""
		case tok.Kind == BareWord:
			store.set(tok.Name, Flag())
		}
	}
	return store
}
