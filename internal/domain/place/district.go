package place

// districts maps known district codes to display labels.
// District codes arrive as multi-value filter parameters; unknown codes are
// dropped by the facet builder rather than rejected.
var districts = map[string]string{
	"xinyi":      "Xinyi",
	"daan":       "Da'an",
	"zhongshan":  "Zhongshan",
	"zhongzheng": "Zhongzheng",
	"songshan":   "Songshan",
	"wanhua":     "Wanhua",
	"datong":     "Datong",
	"neihu":      "Neihu",
	"shilin":     "Shilin",
	"beitou":     "Beitou",
	"nangang":    "Nangang",
	"wenshan":    "Wenshan",
}

// KnownDistrict reports whether the code is a recognized district.
func KnownDistrict(code string) bool {
	_, ok := districts[code]
	return ok
}

// DistrictLabel returns the display label for a district code, "" for unknown codes.
func DistrictLabel(code string) string {
	return districts[code]
}
