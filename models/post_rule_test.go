package models

import (
	"reflect"
	"testing"
)

func TestPostRuleKeywords(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   []string
	}{
		{"empty storage", "", nil},
		{"whitespace", "   ", nil},
		{"list", `["price","ship"]`, []string{"price", "ship"}},
		{"malformed json degrades to match-all", `{"price"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PostRule{KeywordTriggers: tt.stored}
			if got := r.Keywords(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keywords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostRuleSetKeywords(t *testing.T) {
	var r PostRule
	r.SetKeywords([]string{"buy", "sale"})
	if got := r.Keywords(); !reflect.DeepEqual(got, []string{"buy", "sale"}) {
		t.Errorf("round trip = %v", got)
	}

	r.SetKeywords(nil)
	if r.KeywordTriggers != "" {
		t.Errorf("empty list stored as %q, want empty string", r.KeywordTriggers)
	}
}
