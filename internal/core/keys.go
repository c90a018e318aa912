package core

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// keySeparator is the one encoding used when a key is rendered into a link or form value.
const keySeparator = ","

// Key identifies one row: a single id, or two ids for join entities, in KeyFields order.
type Key []int64

// String encodes the key as "3" or "3,12".
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, id := range k {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, keySeparator)
}

// Args returns the key as positional procedure arguments.
func (k Key) Args() []any {
	args := make([]any, len(k))
	for i, id := range k {
		args[i] = id
	}
	return args
}

// ParseKeyString decodes "3" or a two-part "3,12" / "3-12" value.
// It fails unless the value splits into exactly arity positive integers.
func ParseKeyString(s string, arity int) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}

	parts := []string{s}
	if arity > 1 {
		sep := keySeparator
		if !strings.Contains(s, sep) {
			sep = "-"
		}
		parts = strings.Split(s, sep)
	}

	if len(parts) != arity {
		return nil, fmt.Errorf("%w: %q has %d components, want %d", ErrInvalidKey, s, len(parts), arity)
	}

	key := make(Key, arity)
	for i, p := range parts {
		id, err := parseID(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidKey, s, err)
		}
		key[i] = id
	}
	return key, nil
}

// KeyFromForm reads the key for def from prefixed per-column fields
// (delete_lineID, delete_stationID). When none of them is present and
// legacyField is set, the single delimited legacy field is decoded instead.
func KeyFromForm(def EntityDefinition, form url.Values, prefix, legacyField string) (Key, error) {
	raw := make([]string, len(def.KeyFields))
	present := false
	for i, f := range def.KeyFields {
		raw[i] = strings.TrimSpace(form.Get(prefix + f))
		if raw[i] != "" {
			present = true
		}
	}

	if !present {
		if legacyField != "" {
			if v := form.Get(legacyField); v != "" {
				return ParseKeyString(v, len(def.KeyFields))
			}
		}
		return nil, fmt.Errorf("%w: missing %s%s", ErrInvalidKey, prefix, strings.Join(def.KeyFields, "/"+prefix))
	}

	key := make(Key, len(raw))
	for i, v := range raw {
		id, err := parseID(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s%s: %v", ErrInvalidKey, prefix, def.KeyFields[i], err)
		}
		key[i] = id
	}
	return key, nil
}

func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing component")
	}
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("not a positive id: %d", id)
	}
	return id, nil
}
