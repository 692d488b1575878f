package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dkeye/rtcroom/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ChatLog appends every line to <dir>/<room>/logs/<YYYY-MM-DD>.log, switching
// files when the date of the line changes.
type ChatLog struct {
	dir       string
	room      string
	use24Hour bool

	mu   sync.Mutex
	day  string
	file *os.File
}

func NewChatLog(dir, room string, use24Hour bool) *ChatLog {
	return &ChatLog{dir: dir, room: room, use24Hour: use24Hour}
}

// Path is the file a line written at day goes to.
func (c *ChatLog) Path(day string) string {
	return filepath.Join(c.dir, c.room, "logs", day+".log")
}

func (c *ChatLog) Write(l core.Line) {
	if l.Level < zerolog.InfoLevel {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	day := l.Time.Format("2006-01-02")
	if err := c.open(day); err != nil {
		log.Error().Err(err).Str("module", "sink.chatlog").Str("room", c.room).Msg("open chat log")
		return
	}
	if _, err := fmt.Fprintf(c.file, "[%s] %s\n", Stamp(l, c.use24Hour), l.Text); err != nil {
		log.Error().Err(err).Str("module", "sink.chatlog").Str("room", c.room).Msg("write chat log")
	}
}

func (c *ChatLog) open(day string) error {
	if c.file != nil && c.day == day {
		return nil
	}
	if c.file != nil {
		_ = c.file.Close()
		c.file = nil
	}
	path := c.Path(day)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	c.file, c.day = f, day
	return nil
}

func (c *ChatLog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}
