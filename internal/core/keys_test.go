package core

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseKeyString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		arity   int
		want    Key
		wantErr bool
	}{
		{name: "single id", input: "7", arity: 1, want: Key{7}},
		{name: "single id with spaces", input: " 7 ", arity: 1, want: Key{7}},
		{name: "comma pair", input: "3,12", arity: 2, want: Key{3, 12}},
		{name: "hyphen pair", input: "4-9", arity: 2, want: Key{4, 9}},
		{name: "spaces around components", input: "3, 12", arity: 2, want: Key{3, 12}},

		{name: "empty", input: "", arity: 1, wantErr: true},
		{name: "pair for single key", input: "3,12", arity: 1, wantErr: true},
		{name: "single for pair", input: "3", arity: 2, wantErr: true},
		{name: "three components", input: "1,2,3", arity: 2, wantErr: true},
		{name: "missing second", input: "3,", arity: 2, wantErr: true},
		{name: "letters", input: "a,b", arity: 2, wantErr: true},
		{name: "zero id", input: "0", arity: 1, wantErr: true},
		{name: "negative id via hyphen", input: "-3", arity: 1, wantErr: true},
		{name: "overflow", input: "99999999999", arity: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyString(tt.input, tt.arity)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKeyString(%q, %d) = %v, want error", tt.input, tt.arity, got)
				}
				if !errors.Is(err, ErrInvalidKey) {
					t.Errorf("error %v does not wrap ErrInvalidKey", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKeyString(%q, %d) error: %v", tt.input, tt.arity, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseKeyString(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestKeyString(t *testing.T) {
	if got := (Key{3, 12}).String(); got != "3,12" {
		t.Errorf("Key{3,12}.String() = %q, want %q", got, "3,12")
	}
	if got := (Key{5}).String(); got != "5" {
		t.Errorf("Key{5}.String() = %q, want %q", got, "5")
	}

	// Encoding round-trips through the parser.
	k := Key{41, 2}
	back, err := ParseKeyString(k.String(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(k, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyFromForm(t *testing.T) {
	def := EntityDefinition{
		Info:      EntityInfo{Key: "lineStations"},
		KeyFields: []string{"lineID", "stationID"},
	}

	tests := []struct {
		name    string
		form    url.Values
		legacy  string
		want    Key
		wantErr bool
	}{
		{
			name: "per-column fields",
			form: url.Values{"delete_lineID": {"3"}, "delete_stationID": {"12"}},
			want: Key{3, 12},
		},
		{
			name:   "legacy comma field",
			form:   url.Values{"mapping": {"3,12"}},
			legacy: "mapping",
			want:   Key{3, 12},
		},
		{
			name:   "per-column fields win over legacy",
			form:   url.Values{"delete_lineID": {"5"}, "delete_stationID": {"6"}, "mapping": {"3,12"}},
			legacy: "mapping",
			want:   Key{5, 6},
		},
		{
			name:    "one per-column field missing",
			form:    url.Values{"delete_lineID": {"3"}},
			wantErr: true,
		},
		{
			name:    "legacy field malformed",
			form:    url.Values{"mapping": {"3"}},
			legacy:  "mapping",
			wantErr: true,
		},
		{
			name:    "nothing submitted",
			form:    url.Values{},
			legacy:  "mapping",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyFromForm(def, tt.form, "delete_", tt.legacy)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("KeyFromForm() error = %v, want ErrInvalidKey", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("KeyFromForm() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("KeyFromForm() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
