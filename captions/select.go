package captions

import (
	"github.com/nijaru/yt-summary/errors"
)

const (
	msgNoCaptions  = "No captions available for this video"
	msgNoSubtitles = "Could not find subtitle URL"
)

// Selection is the track chosen for a video.
type Selection struct {
	Language  string
	Automatic bool
	Track     Track
}

// SelectTrack picks exactly one track. Precedence: manual lang, first manual
// language, automatic lang, and, only when autoFallback is set, the first
// automatic language.
func SelectTrack(info *VideoInfo, lang string, autoFallback bool) (*Selection, error) {
	const op = "captions.SelectTrack"

	if info == nil || (info.Subtitles.Len() == 0 && info.AutomaticCaptions.Len() == 0) {
		return nil, errors.CaptionUnavailable(op, msgNoCaptions)
	}

	var (
		chosen    string
		tracks    []Track
		automatic bool
	)

	switch {
	case info.Subtitles.Len() > 0:
		if t, ok := info.Subtitles.Get(lang); ok {
			chosen, tracks = lang, t
		} else {
			chosen, tracks, _ = info.Subtitles.First()
		}
	default:
		automatic = true
		if t, ok := info.AutomaticCaptions.Get(lang); ok {
			chosen, tracks = lang, t
		} else if autoFallback {
			chosen, tracks, _ = info.AutomaticCaptions.First()
		}
	}

	if len(tracks) == 0 || tracks[0].URL == "" {
		return nil, errors.CaptionUnavailable(op, msgNoSubtitles)
	}

	return &Selection{
		Language:  chosen,
		Automatic: automatic,
		Track:     tracks[0],
	}, nil
}
