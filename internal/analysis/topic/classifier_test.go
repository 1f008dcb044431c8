package topic

import (
	"testing"

	"github.com/guardianlink/backend/internal/model/support"
)

func TestClassifyAnxiousMessage(t *testing.T) {
	tags := Classify("I'm feeling anxious")
	if !Contains(tags, support.TopicAnxiety) {
		t.Fatalf("expected anxiety tag, got %v", tags)
	}
}

func TestClassifyNoMatchIsGeneral(t *testing.T) {
	for _, input := range []string{"", "the weather is nice", "12345"} {
		tags := Classify(input)
		if len(tags) != 1 || tags[0] != support.TopicGeneral {
			t.Fatalf("Classify(%q) = %v, want [general]", input, tags)
		}
	}
}

func TestClassifyMultipleTopics(t *testing.T) {
	tags := Classify("I feel SAD and Nervous, any tips?")
	want := []Tag{support.TopicAnxiety, support.TopicDepression, support.TopicGeneral}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, tags)
		}
	}
}

func TestClassifySubstringMatch(t *testing.T) {
	// "down" matches inside "downtown": trigger words are plain substrings.
	tags := Classify("walking downtown")
	if !Contains(tags, support.TopicDepression) {
		t.Fatalf("expected depression tag from substring match, got %v", tags)
	}
}
