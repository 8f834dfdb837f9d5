package narrator

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// Narrate synthesizes narration audio for one script. The text is truncated
// to the speech service's per-call budget before the request.
func (n *implNarrator) Narrate(ctx context.Context, text, voiceID string) ([]byte, bool) {
	if n.client == nil {
		n.logger.Warn(ctx, "Speech client not configured, skipping narration")
		return nil, false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		n.logger.Debug(ctx, "Empty narration text, skipping")
		return nil, false
	}
	if n.cfg.MaxChars > 0 && len(text) > n.cfg.MaxChars {
		text = text[:n.cfg.MaxChars]
	}

	voice := voiceOrDefault(voiceID, n.cfg.Voice)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(n.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	req := texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: n.cfg.LanguageCode,
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := n.client.SynthesizeSpeech(ctx, &req)
	if err != nil {
		n.logger.Warn(ctx, "Speech synthesis failed (voice %s): %v", voice, err)
		return nil, false
	}
	if len(resp.AudioContent) == 0 {
		n.logger.Warn(ctx, "Speech synthesis returned no audio (voice %s)", voice)
		return nil, false
	}

	n.logger.Debug(ctx, "Synthesized %d bytes of audio (voice %s)", len(resp.AudioContent), voice)
	return resp.AudioContent, true
}
