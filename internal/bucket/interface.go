package bucket

import "context"

// Store is the object-store boundary for narration audio. Put writes one
// object and returns its public URL.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// AudioKey builds the canonical object key for an episode's narration audio.
func AudioKey(courseID, name string) string {
	return "courses/" + courseID + "/audio/" + name + ".mp3"
}
