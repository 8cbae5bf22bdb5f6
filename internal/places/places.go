// Package places resolves place names found in transaction descriptions to
// counties and coordinates.
package places

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Place is a named location inside a county.
type Place struct {
	Name   string
	County string
	Point  Point
}

// Gazetteer indexes places by name and counties by reference point.
type Gazetteer struct {
	byName   map[string]Place
	counties map[string]Place
	// names sorted longest first so FindInText prefers "Carrick-on-Shannon" over "Shannon".
	names []string
}

// New builds a gazetteer from county reference points and other places.
func New(counties, towns []Place) *Gazetteer {
	g := &Gazetteer{
		byName:   make(map[string]Place),
		counties: make(map[string]Place),
	}
	for _, c := range counties {
		g.counties[key(c.County)] = c
		g.Add(c)
	}
	for _, t := range towns {
		g.Add(t)
	}
	return g
}

// Default returns the built-in gazetteer of Irish counties and towns.
func Default() *Gazetteer {
	return New(irishCounties, irishTowns)
}

// Add registers or replaces a place.
func (g *Gazetteer) Add(p Place) {
	k := key(p.Name)
	if _, ok := g.byName[k]; !ok {
		g.names = append(g.names, k)
		sort.SliceStable(g.names, func(i, j int) bool { return len(g.names[i]) > len(g.names[j]) })
	}
	g.byName[k] = p
}

// Lookup finds a place by exact (case-insensitive) name.
func (g *Gazetteer) Lookup(name string) (Place, bool) {
	p, ok := g.byName[key(name)]
	return p, ok
}

// County returns the reference point of a county.
func (g *Gazetteer) County(name string) (Place, bool) {
	p, ok := g.counties[key(strings.TrimPrefix(key(name), "co "))]
	return p, ok
}

// FindInText returns the place named in free text. Matches must sit on word
// boundaries. The longest name wins; between equal lengths the later
// occurrence wins, since banks append the merchant's town.
func (g *Gazetteer) FindInText(text string) (Place, bool) {
	lower := key(text)
	bestLen, bestPos := 0, -1
	var best Place
	for _, n := range g.names {
		if len(n) < bestLen {
			break
		}
		pos := lastWordIndex(lower, n)
		if pos < 0 {
			continue
		}
		if len(n) > bestLen || pos > bestPos {
			best, bestLen, bestPos = g.byName[n], len(n), pos
		}
	}
	return best, bestPos >= 0
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(a, b Point) float64 {
	const earthRadiusKm = 6371.0
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// lastWordIndex returns the last index of needle in s that is not part of a
// longer word, or -1.
func lastWordIndex(s, needle string) int {
	for end := len(s); end > 0; {
		i := strings.LastIndex(s[:end], needle)
		if i < 0 {
			return -1
		}
		if boundary(s, i-1) && boundary(s, i+len(needle)) {
			return i
		}
		end = i + len(needle) - 1
	}
	return -1
}

func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// HasWord reports whether word occurs in text on word boundaries,
// ignoring case.
func HasWord(text, word string) bool {
	return lastWordIndex(key(text), key(word)) >= 0
}
