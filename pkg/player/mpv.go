package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/scheduler"
)

// Reporter receives playback outcomes, the scheduler in practice.
type Reporter interface {
	VideoEnded(token scheduler.Token)
	VideoError(token scheduler.Token, err error)
}

// MPV drives a single idle mpv process over its JSON IPC socket. Media URLs are resolved against
// baseURL, the local caching proxy, so every byte mpv reads goes through the coordinator.
type MPV struct {
	command string
	args    []string
	socket  string
	baseURL string

	mu       sync.Mutex
	conn     net.Conn
	reqID    int
	reporter Reporter
	token    scheduler.Token
	video    bool

	// started is set by the start-file event of the current load, end-file before it belongs to
	// the previous file
	started bool
}

func NewMPV(cfg PlayerConfig, baseURL string) *MPV {
	return &MPV{
		command: cfg.Command,
		args:    cfg.Args,
		socket:  cfg.Socket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Attach sets where end and error reports go. Call before Start.
func (m *MPV) Attach(r Reporter) {
	m.mu.Lock()
	m.reporter = r
	m.mu.Unlock()
}

// Start launches mpv and connects to its IPC socket. The process is killed when ctx ends.
func (m *MPV) Start(ctx context.Context) error {
	if _, err := exec.LookPath(m.command); err != nil {
		return fmt.Errorf("player command %q not found: %w", m.command, err)
	}
	_ = os.Remove(m.socket)

	args := append([]string{}, m.args...)
	args = append(args,
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=no",
		"--image-display-duration=inf",
		"--input-ipc-server="+m.socket,
	)

	cmd := exec.CommandContext(ctx, m.command, args...)
	log.Info().Str("command", m.command).Strs("args", args).Msg("Launching player")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch player: %w", err)
	}
	go func() {
		err := cmd.Wait()
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("Player process exited")
		}
	}()

	return m.connect(ctx, 10*time.Second)
}

func (m *MPV) connect(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var dialer net.Dialer
	for {
		conn, err := dialer.DialContext(ctx, "unix", m.socket)
		if err == nil {
			m.mu.Lock()
			m.conn = conn
			m.mu.Unlock()
			go m.readEvents(conn)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("connect to player ipc %s: %w", m.socket, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (m *MPV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int           `json:"request_id"`
}

type ipcMessage struct {
	Event     string `json:"event"`
	Reason    string `json:"reason"`
	FileError string `json:"file_error"`
	Error     string `json:"error"`
	RequestID int    `json:"request_id"`
}

// send writes one command line. Failures are logged, a stuck player must not stall the scheduler.
func (m *MPV) send(command ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		log.Warn().Interface("command", command).Msg("Player not connected, dropping command")
		return
	}

	m.reqID++
	data, err := json.Marshal(ipcCommand{Command: command, RequestID: m.reqID})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode player command")
		return
	}
	_ = m.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err = m.conn.Write(append(data, '\n')); err != nil {
		log.Warn().Err(err).Interface("command", command).Msg("Failed to send player command")
	}
}

func (m *MPV) readEvents(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			log.Debug().Err(err).Msg("Ignoring undecodable player message")
			continue
		}
		if msg.Error != "" && msg.Error != "success" {
			log.Warn().Int("request_id", msg.RequestID).Str("error", msg.Error).Msg("Player rejected command")
			continue
		}
		switch msg.Event {
		case "start-file":
			m.mu.Lock()
			m.started = true
			m.mu.Unlock()
		case "end-file":
			m.endFile(msg)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warn().Err(err).Msg("Player ipc connection failed")
	}
}

// endFile maps mpv's end-file reasons. "stop" is a replaced file and is not reported.
func (m *MPV) endFile(msg ipcMessage) {
	m.mu.Lock()
	reporter, token, video, started := m.reporter, m.token, m.video, m.started
	m.mu.Unlock()

	if !started {
		return
	}
	if !video || reporter == nil {
		if msg.Reason == "error" {
			log.Warn().Str("error", msg.FileError).Msg("Player failed to show image")
		}
		return
	}

	switch msg.Reason {
	case "eof":
		reporter.VideoEnded(token)
	case "error":
		reporter.VideoError(token, errors.New(msg.FileError))
	}
}

func (m *MPV) url(item s.DisplayItem) string {
	if strings.HasPrefix(item.URL, "http://") || strings.HasPrefix(item.URL, "https://") {
		return item.URL
	}
	return m.baseURL + item.URL
}

func (m *MPV) ShowPlaceholder(message string) {
	m.setCurrent(0, false)
	m.send("stop")
	m.send("show-text", message, 86400000)
}

func (m *MPV) ShowImage(item s.DisplayItem) {
	m.setCurrent(0, false)
	m.send("set_property", "pause", false)
	m.send("loadfile", m.url(item), "replace")
}

func (m *MPV) PlayVideo(token scheduler.Token, item s.DisplayItem, muted bool) {
	m.setCurrent(token, true)
	m.send("set_property", "mute", muted)
	m.send("set_property", "pause", false)
	m.send("loadfile", m.url(item), "replace")
}

func (m *MPV) PauseVideo()  { m.send("set_property", "pause", true) }
func (m *MPV) ResumeVideo() { m.send("set_property", "pause", false) }
func (m *MPV) Unmute()      { m.send("set_property", "mute", false) }

func (m *MPV) setCurrent(token scheduler.Token, video bool) {
	m.mu.Lock()
	m.token = token
	m.video = video
	m.started = false
	m.mu.Unlock()
}
