package narrator

// Catalog of narration voices offered to callers. Any other id is replaced
// with the default.
var voiceCatalog = []string{
	"en-US-Neural2-A",
	"en-US-Neural2-C",
	"en-US-Neural2-D",
	"en-US-Neural2-E",
	"en-US-Neural2-F",
	"en-US-Neural2-G",
	"en-US-Neural2-H",
	"en-US-Neural2-J",
}

// Voices lists the selectable voice ids.
func Voices() []string {
	out := make([]string, len(voiceCatalog))
	copy(out, voiceCatalog)
	return out
}

func validVoice(id string) bool {
	for _, v := range voiceCatalog {
		if v == id {
			return true
		}
	}
	return false
}

func voiceOrDefault(id, fallback string) string {
	if validVoice(id) {
		return id
	}
	if validVoice(fallback) {
		return fallback
	}
	return voiceCatalog[0]
}
