package modal

// Variant selects the width, overflow and vertical placement of a modal.
type Variant string

const (
	VariantDefault    Variant = "default"
	VariantLarge      Variant = "large"
	VariantScrollable Variant = "scrollable"
	VariantCentered   Variant = "centered"
)

// ParseVariant maps s to a Variant, falling back to VariantDefault for
// anything it does not recognize.
func ParseVariant(s string) Variant {
	v := Variant(s)
	if v.IsValid() {
		return v
	}
	return VariantDefault
}

// IsValid reports whether v is one of the known variants.
func (v Variant) IsValid() bool {
	switch v {
	case VariantDefault, VariantLarge, VariantScrollable, VariantCentered:
		return true
	default:
		return false
	}
}

// Classes returns the variant's width/overflow/position class group.
func (v Variant) Classes() []string {
	switch v {
	case VariantLarge:
		return []string{"w-full", "max-w-4xl"}
	case VariantScrollable:
		return []string{"w-full", "max-w-2xl", "overflow-y-auto"}
	case VariantCentered:
		return []string{"w-full", "max-w-md", "top-1/2", "-translate-y-1/2"}
	default:
		return []string{"w-full", "max-w-md"}
	}
}

// Variants lists every variant.
func Variants() []Variant {
	return []Variant{VariantDefault, VariantLarge, VariantScrollable, VariantCentered}
}
