package validation

import (
	"fmt"
	"strings"
)

// Granularity is the structural level a validator operates on.
type Granularity int

const (
	// GranularityUnknown means the factory leaves resolution to the validator.
	GranularityUnknown Granularity = iota
	GranularityDocument
	GranularitySection
	GranularitySentence
)

// String returns the lower-case name of the granularity.
func (g Granularity) String() string {
	switch g {
	case GranularityDocument:
		return "document"
	case GranularitySection:
		return "section"
	case GranularitySentence:
		return "sentence"
	default:
		return "unknown"
	}
}

// GranularityProperty is the validator property that selects the bucket of
// a validator implementing several capabilities.
const GranularityProperty = "granularity"

// ParseGranularity converts a name produced by String back to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "document":
		return GranularityDocument, nil
	case "section":
		return GranularitySection, nil
	case "sentence":
		return GranularitySentence, nil
	default:
		return GranularityUnknown, fmt.Errorf("unknown granularity %q", s)
	}
}

// GranularityDeclarer is implemented by validators that carry their own
// granularity tag, such as the per-plugin faces of the script validator.
type GranularityDeclarer interface {
	Granularity() Granularity
}

// ResolveGranularity determines the bucket v belongs to.
//
// A declared granularity (from the factory) wins over one the validator
// declares itself; the validator must implement the matching capability
// interface. Without any declaration the validator must implement exactly one
// capability interface.
func ResolveGranularity(v Validator, declared Granularity) (Granularity, error) {
	if v == nil {
		return GranularityUnknown, &RegistrationError{Message: "validator is nil"}
	}

	g := declared
	if d, ok := v.(GranularityDeclarer); ok {
		own := d.Granularity()
		if g != GranularityUnknown && own != GranularityUnknown && own != g {
			return GranularityUnknown, &RegistrationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("declares %s granularity but is registered as %s", own, g),
			}
		}
		if g == GranularityUnknown {
			g = own
		}
	}

	if g == GranularityUnknown {
		var found []Granularity
		if _, ok := v.(DocumentValidator); ok {
			found = append(found, GranularityDocument)
		}
		if _, ok := v.(SectionValidator); ok {
			found = append(found, GranularitySection)
		}
		if _, ok := v.(SentenceValidator); ok {
			found = append(found, GranularitySentence)
		}
		switch len(found) {
		case 0:
			return GranularityUnknown, &RegistrationError{
				Validator: v.Name(),
				Message:   "implements no document, section or sentence validation",
			}
		case 1:
			return found[0], nil
		default:
			return GranularityUnknown, &RegistrationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("granularity is ambiguous (%d capabilities) and none was declared", len(found)),
			}
		}
	}

	if !implements(v, g) {
		return GranularityUnknown, &RegistrationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("is declared as %s granularity but does not implement it", g),
		}
	}
	return g, nil
}

func implements(v Validator, g Granularity) bool {
	switch g {
	case GranularityDocument:
		_, ok := v.(DocumentValidator)
		return ok
	case GranularitySection:
		_, ok := v.(SectionValidator)
		return ok
	case GranularitySentence:
		_, ok := v.(SentenceValidator)
		return ok
	default:
		return false
	}
}
