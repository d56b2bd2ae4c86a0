package domain

// FeatureVector is the fixed set of signal statistics computed from one
// recording. Every field is always populated; sub-features that cannot be
// estimated (tempo on non-rhythmic speech, pitch on unvoiced audio)
// degrade to zero instead of failing extraction.
type FeatureVector struct {
	Duration   float64 `json:"duration"`
	SampleRate int     `json:"sample_rate"`

	SpectralCentroidMean  float64 `json:"spectral_centroid_mean"`
	SpectralCentroidStd   float64 `json:"spectral_centroid_std"`
	SpectralRolloffMean   float64 `json:"spectral_rolloff_mean"`
	SpectralBandwidthMean float64 `json:"spectral_bandwidth_mean"`

	ZCRMean float64 `json:"zcr_mean"`
	ZCRStd  float64 `json:"zcr_std"`

	MFCCMean []float64 `json:"mfcc_mean"`
	MFCCStd  []float64 `json:"mfcc_std"`

	ChromaMean           []float64 `json:"chroma_mean"`
	SpectralContrastMean []float64 `json:"spectral_contrast_mean"`

	// AudioEnergy is the mean of the power spectrogram; AudioEnergyStd
	// its standard deviation across all time-frequency cells.
	AudioEnergy    float64 `json:"audio_energy"`
	AudioEnergyStd float64 `json:"audio_energy_std"`

	RMSMean float64 `json:"rms_mean"`
	RMSStd  float64 `json:"rms_std"`

	Tempo         float64 `json:"tempo"`
	HarmonicRatio float64 `json:"harmonic_ratio"`
	PitchMean     float64 `json:"pitch_mean"`
}
