package whisperx

// Config captures runtime settings for WhisperX transcription.
type Config struct {
	// Model is the WhisperX model; empty means DefaultModel.
	Model       string
	CUDAEnabled bool
	// VADMethod is VADMethodSilero (default) or VADMethodPyannote.
	VADMethod string
	// HFToken authorizes the gated pyannote models.
	HFToken string
	// Language is the spoken language hint; empty lets WhisperX detect it.
	Language string
	// WorkDir receives WhisperX output before it is parsed. Defaults to the
	// system temp directory.
	WorkDir string
}

const (
	DefaultModel      = "large-v3"
	UVXCommand        = "uvx"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

const (
	cudaIndexURL   = "https://download.pytorch.org/whl/cu128"
	pypiIndexURL   = "https://pypi.org/simple"
	cpuDevice      = "cpu"
	cudaDevice     = "cuda"
	cpuComputeType = "float32"
)

// decodeFlags tune WhisperX for subtitle-sized, sentence-level segments
// written as a single JSON transcript.
var decodeFlags = []string{
	"--output_format", "json",
	"--segment_resolution", "sentence",
	"--batch_size", "4",
	"--chunk_size", "15",
	"--vad_onset", "0.08",
	"--vad_offset", "0.07",
	"--beam_size", "10",
	"--best_of", "10",
	"--temperature", "0.0",
	"--patience", "1.0",
}
