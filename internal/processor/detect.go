package processor

import (
	"codeberg.org/snonux/vocabdeck/internal/console"
	"codeberg.org/snonux/vocabdeck/internal/media"
)

// Detect prints where the resolver looks for Anki, the profiles it found
// and the media directory a run would use. It returns that directory, or
// the resolver error when nothing was found.
func Detect(resolver *media.Resolver, customPath string, log *console.Logger) (string, error) {
	log.Header("ANKI DETECTION")

	for _, base := range resolver.Bases() {
		log.Field("🔎 Candidate:", base)
	}

	profiles := resolver.Profiles()
	if len(profiles) == 0 {
		log.Info("No Anki profiles with a collection.media folder found")
	}
	for _, profile := range profiles {
		log.Field("👤 Profile "+profile.Name+":", profile.MediaDir)
	}

	dir, err := resolver.Resolve(customPath)
	if err != nil {
		log.Warn("%v", err)
		return "", err
	}
	log.Success("Media folder: %s", dir)
	return dir, nil
}
