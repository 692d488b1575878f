package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingTag = errors.New("frame has no tag")
	ErrBadPayload = errors.New("bad payload")
)

var validate = validator.New()

// Decode turns one text frame into an Event. Unrecognized tags decode to Unknown
// without error; malformed payloads return ErrBadPayload.
func Decode(data []byte) (Event, error) {
	var env struct {
		Tag string `json:"tc"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if env.Tag == "" {
		return nil, ErrMissingTag
	}

	switch env.Tag {
	case TagPing:
		return Ping{}, nil
	case TagClosed:
		return decodeEvent[Closed](data)
	case TagJoined:
		return decodeEvent[Joined](data)
	case TagUserList:
		return decodeEvent[UserList](data)
	case TagJoin:
		return decodeEvent[Join](data)
	case TagNick:
		return decodeEvent[Nick](data)
	case TagQuit:
		return decodeEvent[Quit](data)
	case TagBan:
		return decodeEvent[Ban](data)
	case TagUnban:
		return decodeEvent[Unban](data)
	case TagBanList:
		return decodeEvent[BanList](data)
	case TagMsg, TagPvtMsg:
		m, err := decodeInto[Message](data)
		if err != nil {
			return nil, err
		}
		m.Private = env.Tag == TagPvtMsg
		return m, nil
	case TagPublish, TagUnpublish:
		p, err := decodeInto[Publish](data)
		if err != nil {
			return nil, err
		}
		p.On = env.Tag == TagPublish
		return p, nil
	case TagSysMsg:
		return decodeEvent[SysMsg](data)
	case TagPlaylist:
		return decodeEvent[Playlist](data)
	case TagPlay, TagPause, TagStop:
		p, err := decodeInto[Playback](data)
		if err != nil {
			return nil, err
		}
		switch env.Tag {
		case TagPause:
			p.Action = ActionPause
		case TagStop:
			p.Action = ActionStop
		}
		return p, nil
	case TagICEServers:
		return decodeEvent[ICEServers](data)
	default:
		return Unknown{Type: env.Tag, Raw: data}, nil
	}
}

func decodeEvent[T Event](data []byte) (Event, error) {
	v, err := decodeInto[T](data)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeInto[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if err := validate.Struct(v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return v, nil
}
