package riskmodel

// UsedGenotype records how one model SNP entered an individual's linear
// predictor: the alleles actually consumed (possibly the missing markers)
// and the score they contributed.
type UsedGenotype struct {
	RsID     string
	Allele1  string
	Allele2  string
	OrientRs Orientation
	Missing  bool
	Score    float64
}

// RiskPrediction is the result of applying a model to one individual.
// Times and CumRisk are parallel; UsedGenotypes follows model SNP order.
type RiskPrediction struct {
	IndividualID  string
	ModelID       string
	Eta           float64
	Percentile    float64
	Times         []float64
	CumRisk       []float64
	UsedGenotypes []UsedGenotype
}
