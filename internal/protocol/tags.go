// Package protocol holds the wire format of the room service: the tagged JSON
// envelope, inbound events and outbound commands.
package protocol

// Envelope field names.
const (
	FieldTag = "tc"
	FieldSeq = "req"
)

// Inbound tags.
const (
	TagPing       = "ping"
	TagClosed     = "closed"
	TagJoined     = "joined"
	TagUserList   = "userlist"
	TagJoin       = "join"
	TagNick       = "nick"
	TagQuit       = "quit"
	TagBan        = "ban"
	TagUnban      = "unban"
	TagBanList    = "banlist"
	TagMsg        = "msg"
	TagPvtMsg     = "pvtmsg"
	TagPublish    = "publish"
	TagUnpublish  = "unpublish"
	TagSysMsg     = "sysmsg"
	TagPlaylist   = "yut_playlist"
	TagPlay       = "yut_play"
	TagPause      = "yut_pause"
	TagStop       = "yut_stop"
	TagICEServers = "iceservers"
)

// Outbound-only tags.
const (
	TagPong           = "pong"
	TagKick           = "kick"
	TagPlaylistAdd    = "yut_playlist_add"
	TagPlaylistRemove = "yut_playlist_remove"
	TagPlaylistMode   = "yut_playlist_mode"
	TagGetICE         = "getice"
)
