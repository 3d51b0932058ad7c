package captions

import (
	"encoding/json"
	"testing"

	"github.com/nijaru/yt-summary/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeInfo(t *testing.T, raw string) *VideoInfo {
	t.Helper()
	var info VideoInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &info))
	return &info
}

func TestTrackMapKeepsProviderOrder(t *testing.T) {
	info := decodeInfo(t, `{
		"subtitles": {
			"zz": [{"ext":"json3","url":"u-zz"}],
			"de": [{"ext":"json3","url":"u-de"}],
			"aa": [{"ext":"json3","url":"u-aa"}]
		}
	}`)

	assert.Equal(t, []string{"zz", "de", "aa"}, info.Subtitles.Languages())
	lang, tracks, ok := info.Subtitles.First()
	require.True(t, ok)
	assert.Equal(t, "zz", lang)
	assert.Equal(t, "u-zz", tracks[0].URL)
}

func TestTrackMapNullAndMissing(t *testing.T) {
	info := decodeInfo(t, `{"subtitles": null}`)
	assert.Equal(t, 0, info.Subtitles.Len())
	assert.Equal(t, 0, info.AutomaticCaptions.Len())

	var bad VideoInfo
	assert.Error(t, json.Unmarshal([]byte(`{"subtitles": []}`), &bad))
}

func TestSelectTrack(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		autoFallback bool
		wantLang     string
		wantURL      string
		wantAuto     bool
		wantMsg      string
	}{
		{
			name: "manual english beats automatic english",
			raw: `{
				"subtitles": {"fr": [{"url":"manual-fr"}], "en": [{"url":"manual-en"}]},
				"automatic_captions": {"en": [{"url":"auto-en"}]}
			}`,
			wantLang: "en",
			wantURL:  "manual-en",
		},
		{
			name: "first manual language when no manual english",
			raw: `{
				"subtitles": {"fr": [{"url":"manual-fr"}], "de": [{"url":"manual-de"}]},
				"automatic_captions": {"en": [{"url":"auto-en"}]}
			}`,
			wantLang: "fr",
			wantURL:  "manual-fr",
		},
		{
			name:     "automatic english when no manual tracks",
			raw:      `{"subtitles": {}, "automatic_captions": {"es": [{"url":"auto-es"}], "en": [{"url":"auto-en"},{"url":"auto-en-2"}]}}`,
			wantLang: "en",
			wantURL:  "auto-en",
			wantAuto: true,
		},
		{
			name:    "no automatic fallback beyond english by default",
			raw:     `{"automatic_captions": {"es": [{"url":"auto-es"}]}}`,
			wantMsg: msgNoSubtitles,
		},
		{
			name:         "automatic fallback when enabled",
			raw:          `{"automatic_captions": {"es": [{"url":"auto-es"}], "pt": [{"url":"auto-pt"}]}}`,
			autoFallback: true,
			wantLang:     "es",
			wantURL:      "auto-es",
			wantAuto:     true,
		},
		{
			name:    "no captions at all",
			raw:     `{"title": "silent"}`,
			wantMsg: msgNoCaptions,
		},
		{
			name:    "chosen language without tracks",
			raw:     `{"subtitles": {"en": []}}`,
			wantMsg: msgNoSubtitles,
		},
		{
			name:    "chosen track without url",
			raw:     `{"subtitles": {"en": [{"ext":"json3"}]}}`,
			wantMsg: msgNoSubtitles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := decodeInfo(t, tt.raw)
			sel, err := SelectTrack(info, "en", tt.autoFallback)

			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.True(t, errors.IsKind(err, errors.KindCaptionUnavailable))
				appErr, _ := errors.As(err)
				assert.Equal(t, tt.wantMsg, appErr.Message)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLang, sel.Language)
			assert.Equal(t, tt.wantURL, sel.Track.URL)
			assert.Equal(t, tt.wantAuto, sel.Automatic)
		})
	}
}

func TestSelectTrackNilInfo(t *testing.T) {
	_, err := SelectTrack(nil, "en", false)
	assert.True(t, errors.IsKind(err, errors.KindCaptionUnavailable))
}
