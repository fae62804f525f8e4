package player

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/terrycain/station-tv-server/pkg/s"
	"github.com/terrycain/station-tv-server/pkg/scheduler"
)

type report struct {
	ended bool
	token scheduler.Token
	err   error
}

type recordingReporter chan report

func (r recordingReporter) VideoEnded(token scheduler.Token) {
	r <- report{ended: true, token: token}
}

func (r recordingReporter) VideoError(token scheduler.Token, err error) {
	r <- report{token: token, err: err}
}

// fakeMPV accepts one IPC connection and exposes received commands.
type fakeMPV struct {
	commands chan []interface{}
	conn     chan net.Conn
}

func startFakeMPV(t *testing.T, socket string) *fakeMPV {
	t.Helper()
	listener, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	f := &fakeMPV{commands: make(chan []interface{}, 32), conn: make(chan net.Conn, 1)}
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		f.conn <- conn
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			var cmd ipcCommand
			if json.Unmarshal(scanner.Bytes(), &cmd) == nil {
				f.commands <- cmd.Command
			}
		}
	}()
	return f
}

func (f *fakeMPV) expect(t *testing.T, want ...interface{}) {
	t.Helper()
	select {
	case got := <-f.commands:
		require.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatalf("Timed out waiting for %v", want)
	}
}

func (f *fakeMPV) emit(t *testing.T, conn net.Conn, msg string) {
	t.Helper()
	_, err := conn.Write([]byte(msg + "\n"))
	require.NoError(t, err)
}

func connectedMPV(t *testing.T) (*MPV, *fakeMPV, net.Conn, recordingReporter) {
	t.Helper()
	dir, err := os.MkdirTemp("", "mpv")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socket := filepath.Join(dir, "ipc.sock")

	fake := startFakeMPV(t, socket)
	m := NewMPV(PlayerConfig{Command: "mpv", Socket: socket}, "http://127.0.0.1:8090/")
	reporter := make(recordingReporter, 8)
	m.Attach(reporter)
	require.NoError(t, m.connect(context.Background(), 5*time.Second))
	t.Cleanup(func() { _ = m.Close() })

	var conn net.Conn
	select {
	case conn = <-fake.conn:
	case <-time.After(5 * time.Second):
		t.Fatal("Fake mpv never saw a connection")
	}
	return m, fake, conn, reporter
}

func TestMPVCommands(t *testing.T) {
	m, fake, _, _ := connectedMPV(t)

	m.ShowImage(s.DisplayItem{URL: "/media/a.png", Kind: s.KindImage})
	fake.expect(t, "set_property", "pause", false)
	fake.expect(t, "loadfile", "http://127.0.0.1:8090/media/a.png", "replace")

	m.PlayVideo(3, s.DisplayItem{URL: "/media/b.mp4", Kind: s.KindVideo}, true)
	fake.expect(t, "set_property", "mute", true)
	fake.expect(t, "set_property", "pause", false)
	fake.expect(t, "loadfile", "http://127.0.0.1:8090/media/b.mp4", "replace")

	m.PauseVideo()
	fake.expect(t, "set_property", "pause", true)
	m.ResumeVideo()
	fake.expect(t, "set_property", "pause", false)
	m.Unmute()
	fake.expect(t, "set_property", "mute", false)
}

func TestMPVReportsVideoEnd(t *testing.T) {
	m, fake, conn, reporter := connectedMPV(t)

	m.PlayVideo(7, s.DisplayItem{URL: "/media/b.mp4", Kind: s.KindVideo}, false)
	for i := 0; i < 3; i++ {
		<-fake.commands
	}

	// End of the previous file before the new one starts is not ours
	fake.emit(t, conn, `{"event":"end-file","reason":"eof"}`)
	fake.emit(t, conn, `{"event":"start-file"}`)
	fake.emit(t, conn, `{"event":"end-file","reason":"stop"}`)
	fake.emit(t, conn, `{"event":"end-file","reason":"eof"}`)

	select {
	case got := <-reporter:
		require.Equal(t, report{ended: true, token: 7}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for video end")
	}
	select {
	case got := <-reporter:
		t.Fatalf("Unexpected report %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMPVReportsVideoError(t *testing.T) {
	m, fake, conn, reporter := connectedMPV(t)

	m.PlayVideo(9, s.DisplayItem{URL: "/media/b.mp4", Kind: s.KindVideo}, false)
	for i := 0; i < 3; i++ {
		<-fake.commands
	}
	fake.emit(t, conn, `{"event":"start-file"}`)
	fake.emit(t, conn, `{"event":"end-file","reason":"error","file_error":"loading failed"}`)

	select {
	case got := <-reporter:
		require.Equal(t, scheduler.Token(9), got.token)
		require.False(t, got.ended)
		require.EqualError(t, got.err, "loading failed")
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for video error")
	}
}

func TestMPVImagesAreNotReported(t *testing.T) {
	m, fake, conn, reporter := connectedMPV(t)

	m.ShowImage(s.DisplayItem{URL: "/media/a.png", Kind: s.KindImage})
	<-fake.commands
	<-fake.commands
	fake.emit(t, conn, `{"event":"start-file"}`)
	fake.emit(t, conn, `{"event":"end-file","reason":"eof"}`)

	select {
	case got := <-reporter:
		t.Fatalf("Unexpected report %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}
