package protocol

import (
	"encoding/json"

	"github.com/dkeye/rtcroom/internal/domain"
)

// Command is an outbound action before it is stamped with a sequence id.
// Builders are pure; the connection assigns the id at send time.
type Command struct {
	Tag    string
	Fields map[string]any
}

// Marshal renders the envelope {tc, req, fields...}.
func (c Command) Marshal(seq int) ([]byte, error) {
	out := make(map[string]any, len(c.Fields)+2)
	for k, v := range c.Fields {
		out[k] = v
	}
	out[FieldTag] = c.Tag
	out[FieldSeq] = seq
	return json.Marshal(out)
}

func command(tag string, fields map[string]any) Command {
	return Command{Tag: tag, Fields: fields}
}

func JoinRoom(userAgent, token, room, nick string) Command {
	return command(TagJoin, map[string]any{
		"useragent": userAgent,
		"token":     token,
		"room":      room,
		"nick":      nick,
	})
}

func Pong() Command { return command(TagPong, nil) }

func SetNick(nick string) Command {
	return command(TagNick, map[string]any{"nick": nick})
}

func Chat(text string) Command {
	return command(TagMsg, map[string]any{"text": text})
}

func Private(to domain.Handle, text string) Command {
	return command(TagPvtMsg, map[string]any{"text": text, "handle": to})
}

func Kick(h domain.Handle) Command {
	return command(TagKick, map[string]any{"handle": h})
}

func BanUser(h domain.Handle) Command {
	return command(TagBan, map[string]any{"handle": h})
}

func UnbanUser(banID int) Command {
	return command(TagUnban, map[string]any{"id": banID})
}

func RequestBanList() Command { return command(TagBanList, nil) }

func RequestPlaylist() Command { return command(TagPlaylist, nil) }

func PlaylistAdd(videoID string, duration float64, title, image string) Command {
	return command(TagPlaylistAdd, map[string]any{"item": playlistItem(videoID, duration, title, image)})
}

func PlaylistRemove(videoID string, duration float64, title, image string) Command {
	return command(TagPlaylistRemove, map[string]any{"item": playlistItem(videoID, duration, title, image)})
}

func playlistItem(videoID string, duration float64, title, image string) map[string]any {
	return map[string]any{
		"id":       videoID,
		"duration": duration,
		"title":    title,
		"image":    image,
	}
}

func PlaylistMode(random, repeat bool) Command {
	return command(TagPlaylistMode, map[string]any{
		"mode": map[string]any{"random": random, "repeat": repeat},
	})
}

// Play starts a video, or seeks a playing one when offset > 0.
func Play(videoID string, duration, offset float64) Command {
	return playback(TagPlay, videoID, duration, offset)
}

// Pause pauses a video, or seeks a paused one when offset > 0.
func Pause(videoID string, duration, offset float64) Command {
	return playback(TagPause, videoID, duration, offset)
}

func Stop(videoID string, duration, offset float64) Command {
	return playback(TagStop, videoID, duration, offset)
}

// Seek moves to offset keeping the current play state.
func Seek(videoID string, duration, offset float64, paused bool) Command {
	if paused {
		return Pause(videoID, duration, offset)
	}
	return Play(videoID, duration, offset)
}

func playback(tag, videoID string, duration, offset float64) Command {
	return command(tag, map[string]any{
		"item": map[string]any{
			"id":       videoID,
			"duration": duration,
			"offset":   offset,
		},
	})
}

// GetICE asks the service for its ICE servers; the reply arrives as iceservers.
func GetICE() Command { return command(TagGetICE, nil) }
