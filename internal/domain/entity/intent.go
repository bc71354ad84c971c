package entity

// ParsedIntent is the AI pre-parser's best-effort guess for an utterance.
// Every field is a hint, never ground truth: the bot must keep working when
// all of them are empty.
type ParsedIntent struct {
	Intent      string  `json:"intent"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ProductName string  `json:"product_name"`
	BuyerName   string  `json:"buyer_name"`
}

// ImageRecognition is what the vision model extracted from a product photo.
type ImageRecognition struct {
	ProductName string  `json:"product_name"`
	ProductID   string  `json:"product_id,omitempty"`
	Confidence  float64 `json:"confidence"`
}
