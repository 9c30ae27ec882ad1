package config

const (
	defaultCorpusDir          = "~/.local/share/captioncorpus/corpus"
	defaultLogDir             = "~/.local/share/captioncorpus/logs"
	defaultWorkDir            = "~/.cache/captioncorpus/work"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultOverlapWidth       = 3
	defaultMinWords           = 5
	defaultMergeMinGapSeconds = 1.0
	defaultMergeMaxSeconds    = 10.0
	defaultMinDurationSeconds = 1.0
	defaultMaxDurationSeconds = 20.0
	defaultMinIntervals       = 0
	defaultSampleSize         = 3
	defaultThreshold          = 0.3
	defaultCallTimeoutSeconds = 300
	defaultWhisperXModel      = "large-v3"
	defaultWhisperXVADMethod  = "silero"
	defaultWhisperXLanguage   = "en"
	defaultSampleRate         = 16000
	defaultMinAudioBytes      = 4 * 1024
)

// DefaultAllowedPattern admits the Latin letters, digits, and punctuation that
// survive normalization of clean English captions.
const DefaultAllowedPattern = `(?i)^[A-Za-z0-9,.\-?"'’!“”;:–‘/\\\s]+$`

// DefaultBlacklist lists music notation symbols marking non-speech cues.
var DefaultBlacklist = []string{"♪", "♬", "♫"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CorpusDir: defaultCorpusDir,
			LogDir:    defaultLogDir,
			WorkDir:   defaultWorkDir,
		},
		Pipeline: Pipeline{
			OverlapWidth:       defaultOverlapWidth,
			Blacklist:          append([]string(nil), DefaultBlacklist...),
			AllowedPattern:     DefaultAllowedPattern,
			MinWords:           defaultMinWords,
			MergeMinGapSeconds: defaultMergeMinGapSeconds,
			MergeMaxSeconds:    defaultMergeMaxSeconds,
			MinDurationSeconds: defaultMinDurationSeconds,
			MaxDurationSeconds: defaultMaxDurationSeconds,
			MinIntervals:       defaultMinIntervals,
		},
		Validation: Validation{
			Enabled:            false,
			SampleSize:         defaultSampleSize,
			Threshold:          defaultThreshold,
			CallTimeoutSeconds: defaultCallTimeoutSeconds,
		},
		WhisperX: WhisperX{
			Model:     defaultWhisperXModel,
			VADMethod: defaultWhisperXVADMethod,
			Language:  defaultWhisperXLanguage,
		},
		Export: Export{
			SampleRate:    defaultSampleRate,
			MinAudioBytes: defaultMinAudioBytes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
