package narrator

import "context"

// Narrator converts narration text into audio bytes. It never fails a run:
// when narration is unavailable (no client, credentials, quota, or service
// errors) it reports ok=false and callers skip audio for that episode.
type Narrator interface {
	Narrate(ctx context.Context, text, voiceID string) (audio []byte, ok bool)
}
