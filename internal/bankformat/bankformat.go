// Package bankformat recognizes bank export layouts from their headers and
// derives a column mapping.
package bankformat

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/bankfeed/internal/model"
)

// Signature recognizes one export layout.
type Signature interface {
	// ID names the signature, e.g. "aib".
	ID() string
	// Match returns a mapping when every required field resolves.
	Match(headers Headers) (model.ColumnMapping, bool)
}

// Detection is the outcome of a successful Detect.
type Detection struct {
	SignatureID string
	Mapping     model.ColumnMapping
}

// Detector evaluates signatures in registration order.
type Detector struct {
	sigs []Signature
	ids  map[string]bool
}

// NewDetector creates an empty detector.
func NewDetector() *Detector {
	return &Detector{ids: make(map[string]bool)}
}

// Register appends a signature. Panics on duplicate ID.
func (d *Detector) Register(s Signature) {
	key := strings.ToLower(s.ID())
	if d.ids[key] {
		panic("duplicate bank signature: " + key)
	}
	d.ids[key] = true
	d.sigs = append(d.sigs, s)
}

// Signatures returns the registered IDs in evaluation order.
func (d *Detector) Signatures() []string {
	ids := make([]string, len(d.sigs))
	for i, s := range d.sigs {
		ids[i] = s.ID()
	}
	return ids
}

// Detect returns the mapping of the first signature that matches.
func (d *Detector) Detect(headers []string) (Detection, bool) {
	h := NewHeaders(headers)
	for _, s := range d.sigs {
		if m, ok := s.Match(h); ok {
			return Detection{SignatureID: s.ID(), Mapping: m}, true
		}
	}
	return Detection{}, false
}

// DefaultDetector returns named bank signatures ahead of the generic fallback.
func DefaultDetector() *Detector {
	d := NewDetector()
	d.Register(AIB{})
	d.Register(Revolut{})
	d.Register(Generic{})
	return d
}

// Pin returns a detector that tries only the named signature, then the
// generic fallback.
func (d *Detector) Pin(id string) (*Detector, error) {
	key := strings.ToLower(id)
	for _, s := range d.sigs {
		if strings.ToLower(s.ID()) != key {
			continue
		}
		pinned := NewDetector()
		pinned.Register(s)
		if _, isGeneric := s.(Generic); !isGeneric {
			pinned.Register(Generic{})
		}
		return pinned, nil
	}
	return nil, fmt.Errorf("unknown bank signature %q (known: %s)", id, strings.Join(d.Signatures(), ", "))
}

// Headers pairs original header names with their lowercased forms.
type Headers struct {
	orig  []string
	lower []string
}

// NewHeaders builds a Headers lookup.
func NewHeaders(names []string) Headers {
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(strings.TrimSpace(n))
	}
	return Headers{orig: names, lower: lower}
}

// Find returns the original name of the first header satisfying pred.
func (h Headers) Find(pred func(lower string) bool) string {
	for i, l := range h.lower {
		if pred(l) {
			return h.orig[i]
		}
	}
	return ""
}

// Exact finds a header equal to name (case-insensitive).
func (h Headers) Exact(name string) string {
	return h.Find(func(l string) bool { return l == name })
}

// Containing finds a header containing every part.
func (h Headers) Containing(parts ...string) string {
	return h.Find(func(l string) bool {
		for _, p := range parts {
			if !strings.Contains(l, p) {
				return false
			}
		}
		return true
	})
}

func firstOf(names ...string) string {
	for _, n := range names {
		if n != "" {
			return n
		}
	}
	return ""
}

func reference(h Headers) string {
	return firstOf(h.Containing("reference"), h.Exact("ref"))
}
