package protocol

import (
	"testing"

	"github.com/dkeye/rtcroom/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestDecode_Events(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		expected Event
	}{
		{
			name:     "ping",
			frame:    `{"tc":"ping"}`,
			expected: Ping{},
		},
		{
			name:     "closed",
			frame:    `{"tc":"closed","error":12}`,
			expected: Closed{Code: 12},
		},
		{
			name:  "joined",
			frame: `{"tc":"joined","self":{"handle":5,"nick":"me","username":"","mod":true,"owner":false},"room":{"name":"lobby"}}`,
			expected: Joined{
				Self: UserInfo{Handle: 5, Nick: "me", Mod: true},
				Room: map[string]any{"name": "lobby"},
			},
		},
		{
			name:  "userlist",
			frame: `{"tc":"userlist","users":[{"handle":1,"nick":"a"},{"handle":2,"nick":"b","username":"b_acc","owner":true}]}`,
			expected: UserList{Users: []UserInfo{
				{Handle: 1, Nick: "a"},
				{Handle: 2, Nick: "b", Account: "b_acc", Owner: true},
			}},
		},
		{
			name:     "join",
			frame:    `{"tc":"join","handle":9,"nick":"new","username":"acc"}`,
			expected: Join{UserInfo{Handle: 9, Nick: "new", Account: "acc"}},
		},
		{
			name:     "private message",
			frame:    `{"tc":"pvtmsg","handle":3,"text":"psst"}`,
			expected: Message{Private: true, Handle: 3, Text: "psst"},
		},
		{
			name:     "unpublish",
			frame:    `{"tc":"unpublish","handle":3}`,
			expected: Publish{On: false, Handle: 3},
		},
		{
			name:  "ban success",
			frame: `{"tc":"ban","success":true,"id":44,"nick":"troll","username":"troll_acc","handle":8}`,
			expected: Ban{Success: true, BanEntry: BanEntry{
				ID: 44, Nick: "troll", Account: "troll_acc", Handle: 8,
			}},
		},
		{
			name:  "banlist",
			frame: `{"tc":"banlist","success":true,"items":[{"id":1,"nick":"x"},{"id":2,"nick":"y"}]}`,
			expected: BanList{Success: true, Items: []BanEntry{
				{ID: 1, Nick: "x"}, {ID: 2, Nick: "y"},
			}},
		},
		{
			name:  "pause seek",
			frame: `{"tc":"yut_pause","handle":4,"item":{"id":"abc","duration":200,"offset":31.5}}`,
			expected: Playback{Action: ActionPause, Handle: 4, Item: PlaybackItem{
				ID: "abc", Duration: 200, Offset: 31.5,
			}},
		},
		{
			name:     "stop",
			frame:    `{"tc":"yut_stop","item":{"id":"abc","duration":200,"offset":200}}`,
			expected: Playback{Action: ActionStop, Item: PlaybackItem{ID: "abc", Duration: 200, Offset: 200}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ev, err := Decode([]byte(tt.frame))
			req.NoError(err)
			req.Equal(tt.expected, ev)
		})
	}
}

func TestDecode_Unknown_Tag_Is_Not_An_Error(t *testing.T) {
	req := require.New(t)
	frame := []byte(`{"tc":"gift","handle":1}`)

	ev, err := Decode(frame)

	req.NoError(err)
	req.Equal(Unknown{Type: "gift", Raw: frame}, ev)
	req.Equal("gift", ev.Tag())
}

func TestDecode_Rejects_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		err   error
	}{
		{name: "not json", frame: `hello`, err: ErrBadPayload},
		{name: "no tag", frame: `{"handle":1}`, err: ErrMissingTag},
		{name: "wrong field type", frame: `{"tc":"quit","handle":"abc"}`, err: ErrBadPayload},
		{name: "missing handle", frame: `{"tc":"nick","nick":"x"}`, err: ErrBadPayload},
		{name: "userlist entry without handle", frame: `{"tc":"userlist","users":[{"nick":"x"}]}`, err: ErrBadPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ev, err := Decode([]byte(tt.frame))
			req.ErrorIs(err, tt.err)
			req.Nil(ev)
		})
	}
}

func TestDecode_ICEServers(t *testing.T) {
	req := require.New(t)

	ev, err := Decode([]byte(`{"tc":"iceservers","iceservers":[{"urls":["stun:stun.example.org:3478"]}]}`))

	req.NoError(err)
	ice, ok := ev.(ICEServers)
	req.True(ok)
	req.Len(ice.Servers, 1)
	req.Equal([]string{"stun:stun.example.org:3478"}, ice.Servers[0].URLs)
}

func TestUserInfo_Participant(t *testing.T) {
	req := require.New(t)
	p := UserInfo{Handle: 2, Nick: "n", Account: "a", Owner: true}.Participant()

	req.Equal(domain.Handle(2), p.Handle)
	req.Equal(domain.RoleOwner, p.Role())
}

func TestPlayback_IsSeek(t *testing.T) {
	req := require.New(t)
	req.False(Playback{Item: PlaybackItem{Offset: 0}}.IsSeek())
	req.True(Playback{Item: PlaybackItem{Offset: 12}}.IsSeek())
}
