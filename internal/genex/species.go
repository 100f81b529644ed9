package genex

import "strings"

// ReservedPrefix marks species names owned by the simulation machinery.
// Consumers may not declare species with this prefix; the core uses it for
// the ribosome template and shared RNase degradation sites.
const ReservedPrefix = "__"

// Names of the internal species the core itself declares.
const (
	RibosomeName     = "__ribosome"
	RnaseName        = "__rnase"
	RnaseSiteName    = "__rnase_site"
	RnaseSiteExtName = "__rnase_site_ext"
)

// Suffixes appended to anticodon names for the charged/uncharged tRNA pool
// species generated by AddTRNA.
const (
	ChargedSuffix   = "_charged"
	UnchargedSuffix = "_uncharged"
)

// IsInternal reports whether name belongs to the simulation machinery rather
// than to the consumer-declared model.
func IsInternal(name string) bool {
	return strings.HasPrefix(name, ReservedPrefix)
}

// PolymeraseTemplate describes a mobile agent type that can bind a polymer
// site and translocate along it. Ribosomes and RNases are represented as
// specially named templates.
type PolymeraseTemplate struct {
	Name      string
	Footprint int
	Speed     float64
}

// NewRnaseTemplate returns the RNase template used by auto-generated
// degradation bind reactions.
func NewRnaseTemplate(footprint int, speed float64) PolymeraseTemplate {
	return PolymeraseTemplate{Name: RnaseName, Footprint: footprint, Speed: speed}
}
