package modelfile

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/statgen/prism/riskmodel"
)

// ModelFileSuffix is the conventional suffix for persisted models,
// prefixed by the model ID.
const ModelFileSuffix = ".prism.gz"

const formatVersion = 1

// baseSurvTolerance bounds how far a freshly recomputed baseline
// survivor function may drift from the persisted one before a load is
// refused.
const baseSurvTolerance = 1e-8

type modelEnvelope struct {
	FormatVersion int              `json:"formatVersion"`
	ModelID       string           `json:"modelID"`
	SNPs          []riskmodel.SNP  `json:"snps"`
	Times         []float64        `json:"times"`
	MargSurv      []float64        `json:"margSurv"`
	BaseSurv      []float64        `json:"baseSurv"`
	Sampled       bool             `json:"sampled"`
	Config        riskmodel.Config `json:"config"`
}

// ModelFileName returns the conventional file name for a persisted
// model.
func ModelFileName(modelID string) string {
	return modelID + ModelFileSuffix
}

// Save writes the model as gzipped, versioned JSON. The genotype
// distribution itself is not persisted: it is rebuilt deterministically
// on load from the SNPs and configuration.
func Save(m *riskmodel.RiskModel, w io.Writer) error {
	gz := gzip.NewWriter(w)

	env := modelEnvelope{
		FormatVersion: formatVersion,
		ModelID:       m.ModelID(),
		SNPs:          m.SNPs(),
		Times:         m.Times(),
		MargSurv:      m.MargSurv(),
		BaseSurv:      m.BaseSurv(),
		Sampled:       m.Sampled(),
		Config:        m.Config(),
	}

	enc := json.NewEncoder(gz)
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encoding model %s: %w", env.ModelID, err)
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("compressing model %s: %w", env.ModelID, err)
	}

	return nil
}

// Load reads a persisted model, rebuilds it from its inputs, and
// verifies that the recomputed baseline survivor function matches the
// persisted one. A mismatch means the file was produced by incompatible
// code or was altered, and the load is refused.
func Load(r io.Reader) (*riskmodel.RiskModel, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %v: %w", err, riskmodel.ErrInvalidInput)
	}
	defer gz.Close()

	var env modelEnvelope
	if err := json.NewDecoder(gz).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding model file: %v: %w", err, riskmodel.ErrInvalidInput)
	}

	if env.FormatVersion != formatVersion {
		return nil, fmt.Errorf("model file format version %d, want %d: %w",
			env.FormatVersion, formatVersion, riskmodel.ErrInvalidInput)
	}

	m, err := riskmodel.NewWithConfig(env.ModelID, env.SNPs, env.Times, env.MargSurv, env.Config)
	if err != nil {
		return nil, fmt.Errorf("rebuilding model %s: %w", env.ModelID, err)
	}

	rebuilt := m.BaseSurv()
	if len(rebuilt) != len(env.BaseSurv) {
		return nil, fmt.Errorf("model %s: rebuilt %d baseline values, file has %d: %w",
			env.ModelID, len(rebuilt), len(env.BaseSurv), riskmodel.ErrNumericInvariant)
	}

	for i, b := range rebuilt {
		if math.Abs(b-env.BaseSurv[i]) > baseSurvTolerance {
			return nil, fmt.Errorf("model %s: rebuilt baseline survivor %.12g differs from persisted %.12g at index %d: %w",
				env.ModelID, b, env.BaseSurv[i], i, riskmodel.ErrNumericInvariant)
		}
	}

	return m, nil
}
