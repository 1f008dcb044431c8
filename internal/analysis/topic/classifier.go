package topic

import (
	"strings"

	"github.com/guardianlink/backend/internal/model/support"
)

// Tag is a topical label attached to a user message.
type Tag = support.Topic

// order fixes the iteration and output order of the buckets.
var order = []Tag{support.TopicAnxiety, support.TopicDepression, support.TopicGeneral}

var keywordBuckets = map[Tag][]string{
	support.TopicAnxiety:    {"anxiety", "anxious", "worry", "nervous", "stress", "panic"},
	support.TopicDepression: {"depression", "depressed", "sad", "unhappy", "hopeless", "down"},
	support.TopicGeneral:    {"help", "support", "advice", "guidance", "tips"},
}

// Classify returns every topic whose trigger words occur in text as a substring.
// The result is never empty: unmatched text is tagged general.
func Classify(text string) []Tag {
	normalized := strings.ToLower(text)

	var tags []Tag
	if normalized != "" {
		for _, tag := range order {
			for _, word := range keywordBuckets[tag] {
				if strings.Contains(normalized, word) {
					tags = append(tags, tag)
					break
				}
			}
		}
	}

	if len(tags) == 0 {
		return []Tag{support.TopicGeneral}
	}
	return tags
}

// Contains reports whether tag is among tags.
func Contains(tags []Tag, tag Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
