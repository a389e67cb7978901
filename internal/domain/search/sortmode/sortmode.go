package sortmode

// Mode is the result ordering strategy.
type Mode string

// Sort mode constants.
const (
	// Relevance orders by text score, then rating, then id. Default when a
	// text query is present.
	Relevance Mode = "relevance"
	// Rating orders by rating aggregate descending. Default without a query.
	Rating Mode = "rating"
	Name   Mode = "name"
	// Distance orders by ascending distance; requires a geo point.
	Distance Mode = "distance"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Relevance || m == Rating || m == Name || m == Distance
}
