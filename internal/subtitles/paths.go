package subtitles

import (
	"path/filepath"
	"strings"
)

// AudioPath returns the intermediate WAV location for a video,
// <outputDir>/<videobase>.subforge.wav. The infix keeps it distinct from the
// input even when the input is itself a WAV in outputDir.
func AudioPath(outputDir, videoPath string) string {
	return filepath.Join(outputDir, videoBase(videoPath)+".subforge.wav")
}

// OriginalPath returns <outputDir>/<videobase>_<lang>.srt.
func OriginalPath(outputDir, videoPath, language string) string {
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = "und"
	}
	return filepath.Join(outputDir, videoBase(videoPath)+"_"+lang+".srt")
}

// TranslatedPath derives the translated subtitle location from the original
// one: the file name loses its extension and everything from the first
// underscore onward. The directory is kept.
func TranslatedPath(originalPath string) string {
	dir := filepath.Dir(originalPath)
	name := strings.TrimSuffix(filepath.Base(originalPath), filepath.Ext(originalPath))
	if prefix, _, found := strings.Cut(name, "_"); found {
		name = prefix
	}
	return filepath.Join(dir, name+".srt")
}

func videoBase(videoPath string) string {
	base := filepath.Base(videoPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
