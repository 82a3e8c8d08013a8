// Package documents defines the document-domain models: classification
// taxonomies, detected page-range segments, and folder groupings of
// documents awaiting processing.
package documents

// Classification is one detected sub-document segment: a label and the
// inclusive, 1-indexed page image range it spans. All fields are optional
// because the model may decline to commit to any of them.
type Classification struct {
	Classification  *string `json:"classification"`
	ImageRangeStart *int    `json:"image_range_start"`
	ImageRangeEnd   *int    `json:"image_range_end"`
}

// Label returns the classification label, or empty when unset.
func (c *Classification) Label() string {
	if c.Classification == nil {
		return ""
	}
	return *c.Classification
}

// PageRange returns the segment's page bounds. ok is false when either
// bound is missing, below 1, or the bounds are inverted.
func (c *Classification) PageRange() (start, end int, ok bool) {
	if c.ImageRangeStart == nil || c.ImageRangeEnd == nil {
		return 0, 0, false
	}
	start, end = *c.ImageRangeStart, *c.ImageRangeEnd
	if start < 1 || end < 1 || start > end {
		return 0, 0, false
	}
	return start, end, true
}

// Classifications is the model's segmentation of a document into labeled
// page ranges. It may be empty when no segments were detected.
type Classifications struct {
	PageClassifications []Classification `json:"page_classifications"`
}

// ClassificationDefinition names one category the model may assign,
// with a description that becomes part of the prompt.
type ClassificationDefinition struct {
	Classification string `json:"classification"`
	Description    string `json:"description"`
}

// ClassificationDefinitions is an ordered taxonomy of categories.
// Insertion order is preserved into the model prompt.
type ClassificationDefinitions struct {
	Classifications []ClassificationDefinition `json:"classifications"`
}
