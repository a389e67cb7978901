package place

// Type is the venue category. Single-valued, strictly validated at the API edge.
type Type string

// Known venue types.
const (
	TypeRestaurant Type = "restaurant"
	TypeCafe       Type = "cafe"
	TypeBar        Type = "bar"
	TypeBakery     Type = "bakery"
	TypeShop       Type = "shop"
	TypeAttraction Type = "attraction"
)

// IsValid checks if the type is one of the known values.
func (t Type) IsValid() bool {
	switch t {
	case TypeRestaurant, TypeCafe, TypeBar, TypeBakery, TypeShop, TypeAttraction:
		return true
	}
	return false
}
