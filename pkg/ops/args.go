package ops

// Args is the validated, defaulted argument mapping a handler receives.
// Values are already coerced to their declared types, so the getters can
// fall back to zero values without re-checking.
type Args map[string]any

func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

func (a Args) Int(key string) int {
	switch n := a[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func (a Args) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

func (a Args) StringList(key string) []string {
	switch list := a[key].(type) {
	case []string:
		return list
	default:
		return nil
	}
}

// Has reports whether the argument was supplied or defaulted.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}
