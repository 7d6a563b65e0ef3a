package domain

// Chemical identifies one measured compound in the catalogue.
type Chemical int

// The catalogue order is the column order of the source table.
const (
	DEHPEquivalents Chemical = iota
	DEHP
	DBP
	BBP
	DINP
	BPA
	BPS
	BPF
	DEP
	DMP
	DEHT

	chemicalCount
)

var chemicalNames = [chemicalCount]string{
	DEHPEquivalents: "DEHP_equivalents",
	DEHP:            "DEHP",
	DBP:             "DBP",
	BBP:             "BBP",
	DINP:            "DINP",
	BPA:             "BPA",
	BPS:             "BPS",
	BPF:             "BPF",
	DEP:             "DEP",
	DMP:             "DMP",
	DEHT:            "DEHT",
}

// Chemicals returns the full catalogue in source order.
func Chemicals() []Chemical {
	all := make([]Chemical, 0, chemicalCount)
	for c := Chemical(0); c < chemicalCount; c++ {
		all = append(all, c)
	}
	return all
}

// Name returns the short name, e.g. "DEHP_equivalents".
func (c Chemical) Name() string {
	if c < 0 || c >= chemicalCount {
		return "unknown"
	}
	return chemicalNames[c]
}

// Column is the source column holding the measurement in ng/g.
func (c Chemical) Column() string {
	return c.Name() + "_ng_g"
}

// PercentileColumn is the source column holding the percentile rank.
func (c Chemical) PercentileColumn() string {
	return c.Name() + "_percentile"
}

func (c Chemical) String() string {
	return c.Name()
}

// Projection sets used by the query operations.
var (
	// HeadlineChemicals are reported by product search.
	HeadlineChemicals = []Chemical{DEHPEquivalents, DEHP, DBP, BBP, BPA, BPS}

	// ComparedChemicals are reported by product comparison.
	ComparedChemicals = []Chemical{DEHPEquivalents, DEHP, DBP, BBP, DINP, BPA, BPS, BPF}

	// ReportedPercentiles are the percentile ranks shown in product details.
	// DINP has no published percentile.
	ReportedPercentiles = []Chemical{DEHPEquivalents, DEHP, DBP, BBP, BPA, BPS, BPF, DEHT}
)
