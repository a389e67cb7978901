package place

// Searchable text field names.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldAddress     = "address"
	FieldDistrict    = "district"
)

// TextField is one weighted searchable field of a place.
type TextField struct {
	Name    string
	Weight  float64
	Content string
}

// Field importance weights. Name matches dominate, district labels barely count.
var fieldWeights = map[string]float64{
	FieldName:        1.0,
	FieldDescription: 0.6,
	FieldAddress:     0.4,
	FieldDistrict:    0.2,
}

// FieldWeight returns the importance weight of a searchable field, 0 for unknown names.
func FieldWeight(name string) float64 {
	return fieldWeights[name]
}

// KnownField reports whether the name is a searchable text field.
func KnownField(name string) bool {
	_, ok := fieldWeights[name]
	return ok
}

// TextFields returns the weighted text fields in importance order.
func (p *Place) TextFields() []TextField {
	return []TextField{
		{Name: FieldName, Weight: fieldWeights[FieldName], Content: p.name},
		{Name: FieldDescription, Weight: fieldWeights[FieldDescription], Content: p.description},
		{Name: FieldAddress, Weight: fieldWeights[FieldAddress], Content: p.address},
		{Name: FieldDistrict, Weight: fieldWeights[FieldDistrict], Content: DistrictLabel(p.district)},
	}
}
