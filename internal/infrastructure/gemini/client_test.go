package gemini

import "testing"

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"intent":"sale"}`, `{"intent":"sale"}`},
		{"```json\n{\"intent\":\"sale\"}\n```", `{"intent":"sale"}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripJSONFences(tt.in); got != tt.want {
			t.Errorf("stripJSONFences(%q) = %q, esperava %q", tt.in, got, tt.want)
		}
	}
}
