package support

// Topic is a coarse category used to select support content.
type Topic string

const (
	TopicAnxiety    Topic = "anxiety"
	TopicDepression Topic = "depression"
	TopicGeneral    Topic = "general"
)

// DefaultLanguage is used whenever a requested language has no content.
const DefaultLanguage = "en"

// Document is a static piece of support content.
type Document struct {
	Text     string `json:"text"`
	Topic    Topic  `json:"topic"`
	Language string `json:"language"`
}

// Seed provides the built-in support library.
func Seed() []Document {
	return []Document{
		{
			Text:     "Anxiety can be managed through deep breathing exercises, regular physical activity, and maintaining a healthy sleep schedule.",
			Topic:    TopicAnxiety,
			Language: "en",
		},
		{
			Text:     "Depression symptoms can be alleviated through therapy, medication, and establishing a routine.",
			Topic:    TopicDepression,
			Language: "en",
		},
		{
			Text:     "Reaching out is a sign of strength. Talking with someone you trust, keeping a simple daily routine, and contacting a local helpline can all make hard moments more manageable.",
			Topic:    TopicGeneral,
			Language: "en",
		},
		{
			Text:     "Wasiwasi inaweza kudhibitiwa kupitia mazoezi ya kupumua kwa kina, shughuli za kimwili za kawaida, na kudumisha ratiba nzuri ya usingizi.",
			Topic:    TopicAnxiety,
			Language: "sw",
		},
		{
			Text:     "चिंता को गहरी सांस लेने के व्यायाम, नियमित शारीरिक गतिविधि और स्वस्थ नींद का कार्यक्रम बनाए रखने के माध्यम से प्रबंधित किया जा सकता है।",
			Topic:    TopicAnxiety,
			Language: "hi",
		},
	}
}
