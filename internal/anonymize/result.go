package anonymize

// Statistics summarizes how many unique identifiers a session has replaced.
type Statistics struct {
	TotalEntities int            `json:"total_entities"`
	ByCategory    map[string]int `json:"by_category"`
}

// Result is the immutable output bundle of one Anonymize call. It holds
// defensive copies and shares no mutable state with the session's registry,
// so it stays valid when the session is reused.
type Result struct {
	AnonymizedText string            `json:"anonymized_text"`
	Statistics     Statistics        `json:"statistics"`
	EntityMapping  map[string]string `json:"entity_mapping"`
}
