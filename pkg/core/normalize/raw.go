package normalize

// Guarded accessors over untyped records. Producer files are duck-typed, so
// every field read goes through one of these; nothing in the adapters ever
// assumes a key exists or has the expected type.

// rawRecord is a decoded JSON object before any schema is imposed on it.
type rawRecord = map[string]interface{}

func getString(m rawRecord, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func getInt(m rawRecord, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case string:
			if parsed, ok := parseIntString(n); ok {
				return parsed
			}
		}
	}
	return 0
}

func getFloat(m rawRecord, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case int:
			return float64(n), true
		}
	}
	return 0, false
}

func getMap(m rawRecord, keys ...string) rawRecord {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if sub, ok := v.(map[string]interface{}); ok {
				return sub
			}
		}
	}
	return nil
}

func getList(m rawRecord, keys ...string) []interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if list, ok := v.([]interface{}); ok {
				return list
			}
		}
	}
	return nil
}

func asRecord(v interface{}) rawRecord {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

func parseIntString(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
