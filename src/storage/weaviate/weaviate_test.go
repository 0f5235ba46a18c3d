package weaviate

import "testing"

func TestClassName(t *testing.T) {
	tests := []struct {
		collection string
		want       string
	}{
		{"hr_faq", "FAQChunk_Hr_faq"},
		{"HR_FAQ", "FAQChunk_HR_FAQ"},
		{"hr-faq.v2", "FAQChunk_Hr_faq_v2"},
		{"", "FAQChunk_Default"},
		{"2025", "FAQChunk_2025"},
	}

	for _, tt := range tests {
		if got := ClassName(tt.collection); got != tt.want {
			t.Errorf("ClassName(%q) = %q, want %q", tt.collection, got, tt.want)
		}
	}
}
