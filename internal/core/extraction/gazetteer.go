package extraction

import (
	"regexp"
	"strings"
)

// Place is a gazetteer entry with approximate town-centre coordinates.
type Place struct {
	Name string
	Lat  float64
	Lon  float64
}

// places is searched in order; districts come first, then towns.
var places = []Place{
	{"Colombo", 6.9271, 79.8612},
	{"Gampaha", 7.0873, 80.0144},
	{"Kalutara", 6.5854, 79.9607},
	{"Kandy", 7.2906, 80.6337},
	{"Matale", 7.4675, 80.6234},
	{"Nuwara Eliya", 6.9497, 80.7891},
	{"Galle", 6.0535, 80.2210},
	{"Matara", 5.9549, 80.5550},
	{"Hambantota", 6.1241, 81.1185},
	{"Jaffna", 9.6615, 80.0255},
	{"Kilinochchi", 9.3803, 80.3770},
	{"Mannar", 8.9810, 79.9044},
	{"Vavuniya", 8.7514, 80.4971},
	{"Mullaitivu", 9.2671, 80.8142},
	{"Batticaloa", 7.7310, 81.6747},
	{"Ampara", 7.2912, 81.6724},
	{"Trincomalee", 8.5874, 81.2152},
	{"Kurunegala", 7.4863, 80.3647},
	{"Puttalam", 8.0362, 79.8283},
	{"Anuradhapura", 8.3114, 80.4037},
	{"Polonnaruwa", 7.9403, 81.0188},
	{"Badulla", 6.9934, 81.0550},
	{"Monaragala", 6.8728, 81.3507},
	{"Ratnapura", 6.6828, 80.3992},
	{"Kegalle", 7.2513, 80.3464},
	{"Negombo", 7.2083, 79.8358},
	{"Maharagama", 6.8480, 79.9265},
	{"Dehiwala", 6.8511, 79.8659},
	{"Mount Lavinia", 6.8390, 79.8653},
	{"Moratuwa", 6.7730, 79.8816},
	{"Kotte", 6.8905, 79.9020},
	{"Katunayake", 7.1647, 79.8734},
	{"Kadawatha", 7.0016, 79.9530},
	{"Kotikawatta", 6.9269, 79.9062},
	{"Homagama", 6.8441, 80.0024},
	{"Avissawella", 6.9543, 80.2046},
	{"Gampola", 7.1643, 80.5696},
	{"Panadura", 6.7132, 79.9026},
	{"Beruwala", 6.4788, 79.9828},
	{"Matugama", 6.5223, 80.1140},
	{"Wadduwa", 6.6670, 79.9290},
	{"Weligama", 5.9748, 80.4297},
	{"Tangalle", 6.0243, 80.7941},
	{"Embilipitiya", 6.3439, 80.8491},
	{"Hikkaduwa", 6.1395, 80.1063},
	{"Peradeniya", 7.2690, 80.5940},
	{"Katugastota", 7.3167, 80.6211},
	{"Gelioya", 7.2131, 80.6019},
	{"Hatton", 6.8916, 80.5955},
	{"Bandarawela", 6.8259, 80.9982},
	{"Kuliyapitiya", 7.4688, 80.0401},
	{"Chilaw", 7.5758, 79.7953},
	{"Kalmunai", 7.4167, 81.8167},
	{"Trinco", 8.5874, 81.2152},
}

type placeMatcher struct {
	place Place
	re    *regexp.Regexp
}

var placeMatchers = func() []placeMatcher {
	out := make([]placeMatcher, 0, len(places))
	for _, p := range places {
		words := strings.Fields(strings.ToLower(p.Name))
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		out = append(out, placeMatcher{
			place: p,
			re:    regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s*`) + `\b`),
		})
	}
	return out
}()

// ExtractLocation returns the first gazetteer place named in text.
// "Nuwara   Eliya" and "NuwaraEliya" both resolve to "Nuwara Eliya".
func ExtractLocation(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, m := range placeMatchers {
		if m.re.MatchString(text) {
			return m.place.Name
		}
	}
	return ""
}

// LookupPlace finds the gazetteer entry mentioned in a free-text location
// such as "Kandy town" or "near Galle fort".
func LookupPlace(location string) (Place, bool) {
	for _, m := range placeMatchers {
		if m.re.MatchString(location) {
			return m.place, true
		}
	}
	return Place{}, false
}
