package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/repairpos/backend/internal/domain/integration"
)

type spotifyPlayback struct {
	IsPlaying  bool `json:"is_playing"`
	ProgressMS int  `json:"progress_ms"`
	Item       *struct {
		Name       string `json:"name"`
		DurationMS int    `json:"duration_ms"`
		Artists    []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Album struct {
			Name   string `json:"name"`
			Images []struct {
				URL string `json:"url"`
			} `json:"images"`
		} `json:"album"`
	} `json:"item"`
}

// NowPlaying reads the track on the shop's Spotify player. Nothing playing is not an error.
func (c *Client) NowPlaying(ctx context.Context, cfg *integration.Config) (*integration.Track, error) {
	resp, err := c.do(ctx, cfg, http.MethodGet, "me/player/currently-playing", nil, "")
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusNoContent || len(resp.Body) == 0 {
		return &integration.Track{}, nil
	}
	if resp.Status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", integration.ErrProviderRequestFailed, resp.Status, snippet(resp.Body))
	}
	var pb spotifyPlayback
	if err := json.Unmarshal(resp.Body, &pb); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", integration.ErrProviderRequestFailed, err)
	}
	if pb.Item == nil {
		return &integration.Track{Playing: pb.IsPlaying}, nil
	}
	artists := make([]string, len(pb.Item.Artists))
	for i, a := range pb.Item.Artists {
		artists[i] = a.Name
	}
	track := &integration.Track{
		Playing:    pb.IsPlaying,
		Name:       pb.Item.Name,
		Artists:    strings.Join(artists, ", "),
		Album:      pb.Item.Album.Name,
		ProgressMS: pb.ProgressMS,
		DurationMS: pb.Item.DurationMS,
	}
	if len(pb.Item.Album.Images) > 0 {
		track.ImageURL = pb.Item.Album.Images[0].URL
	}
	return track, nil
}
