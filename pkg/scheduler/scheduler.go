// Package scheduler cycles a display's playlist. All state is owned by the goroutine in Run, every
// input (timers, player reports, gestures) arrives as an event on one channel.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/e"
	"github.com/terrycain/station-tv-server/pkg/metrics"
	"github.com/terrycain/station-tv-server/pkg/s"
)

const (
	DefaultTransition = 5 * time.Second
	ErrorSkipDelay    = 1 * time.Second
	AudioUnlockedKey  = "audio_unlocked"
	NoMediaMessage    = "No media assigned to this TV"
)

// Token identifies one video playback. Reports carrying an old token are ignored.
type Token uint64

// Display renders whatever the scheduler decides is current.
type Display interface {
	ShowPlaceholder(message string)
	ShowImage(item s.DisplayItem)
	PlayVideo(token Token, item s.DisplayItem, muted bool)
	PauseVideo()
	ResumeVideo()
	Unmute()
}

// Preferences is the durable per device key/value slot.
type Preferences interface {
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
}

type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhasePlaceholder Phase = "placeholder"
	PhaseWaiting     Phase = "waiting"
	PhasePlaying     Phase = "playing"
	PhasePaused      Phase = "paused"
)

type State struct {
	Index         int            `json:"index"`
	Item          *s.DisplayItem `json:"item,omitempty"`
	Phase         Phase          `json:"phase"`
	Items         int            `json:"items"`
	AudioUnlocked bool           `json:"audioUnlocked"`
	Hidden        bool           `json:"hidden"`
}

type Options struct {
	Items      []s.DisplayItem
	Transition time.Duration
	// Clock defaults to the real clock.
	Clock       clockwork.Clock
	Preferences Preferences
}

type eventKind int

const (
	evTimer eventKind = iota
	evVideoEnded
	evVideoError
	evNext
	evHidden
	evGesture
	evState
)

type event struct {
	kind    eventKind
	seq     uint64
	token   Token
	trigger string
	hidden  bool
	err     error
	reply   chan State
}

type Scheduler struct {
	display    Display
	items      []s.DisplayItem
	transition time.Duration
	clock      clockwork.Clock
	prefs      Preferences

	events chan event
	done   chan struct{}

	// Owned by the Run goroutine
	index         int
	phase         Phase
	token         Token
	timer         clockwork.Timer
	timerSeq      uint64
	audioUnlocked bool
	hidden        bool
}

func New(display Display, opts Options) *Scheduler {
	if opts.Transition <= 0 {
		opts.Transition = DefaultTransition
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	items := make([]s.DisplayItem, len(opts.Items))
	copy(items, opts.Items)

	return &Scheduler{
		display:    display,
		items:      items,
		transition: opts.Transition,
		clock:      opts.Clock,
		prefs:      opts.Preferences,
		events:     make(chan event, 16),
		done:       make(chan struct{}),
		phase:      PhaseIdle,
	}
}

// Run shows the first item and processes events until ctx is cancelled.
func (sc *Scheduler) Run(ctx context.Context) error {
	defer close(sc.done)
	defer sc.stopTimer()

	sc.audioUnlocked = sc.loadAudioUnlocked(ctx)

	if len(sc.items) == 0 {
		sc.phase = PhasePlaceholder
		sc.display.ShowPlaceholder(NoMediaMessage)
	} else {
		sc.show(0)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-sc.events:
			sc.handle(ctx, ev)
		}
	}
}

func (sc *Scheduler) post(ev event) bool {
	select {
	case sc.events <- ev:
		return true
	case <-sc.done:
		return false
	}
}

// VideoEnded reports the natural end of the playback identified by token.
func (sc *Scheduler) VideoEnded(token Token) {
	sc.post(event{kind: evVideoEnded, token: token})
}

// VideoError reports a load or decode failure, the item is skipped after ErrorSkipDelay.
func (sc *Scheduler) VideoError(token Token, err error) {
	sc.post(event{kind: evVideoError, token: token, err: err})
}

// Next forces an advance, cancelling any pending timer.
func (sc *Scheduler) Next() {
	sc.post(event{kind: evNext})
}

func (sc *Scheduler) SetHidden(hidden bool) {
	sc.post(event{kind: evHidden, hidden: hidden})
}

// UserGesture unlocks audio for this and every later session on the device.
func (sc *Scheduler) UserGesture() {
	sc.post(event{kind: evGesture})
}

func (sc *Scheduler) State() (State, error) {
	reply := make(chan State, 1)
	if !sc.post(event{kind: evState, reply: reply}) {
		return State{}, errors.New("scheduler stopped")
	}
	select {
	case st := <-reply:
		return st, nil
	case <-sc.done:
		return State{}, errors.New("scheduler stopped")
	}
}

func (sc *Scheduler) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case evTimer:
		if ev.seq != sc.timerSeq {
			return
		}
		sc.timer = nil
		sc.advance(ev.trigger)
	case evVideoEnded:
		if !sc.isCurrentVideo(ev.token) {
			return
		}
		sc.advance("ended")
	case evVideoError:
		if !sc.isCurrentVideo(ev.token) {
			return
		}
		log.Warn().Err(ev.err).Str("url", sc.items[sc.index].URL).Msg("Video failed, skipping")
		sc.armTimer(ErrorSkipDelay, "error")
	case evNext:
		if len(sc.items) > 0 {
			sc.advance("manual")
		}
	case evHidden:
		sc.setHidden(ev.hidden)
	case evGesture:
		sc.unlockAudio(ctx)
	case evState:
		ev.reply <- sc.snapshot()
	}
}

func (sc *Scheduler) isCurrentVideo(token Token) bool {
	return token == sc.token && (sc.phase == PhasePlaying || sc.phase == PhasePaused)
}

func (sc *Scheduler) advance(trigger string) {
	metrics.PlaybackAdvance(trigger)
	sc.show((sc.index + 1) % len(sc.items))
}

func (sc *Scheduler) show(index int) {
	sc.stopTimer()
	sc.index = index
	sc.token++
	item := sc.items[index]

	if item.Kind == s.KindVideo {
		sc.phase = PhasePlaying
		sc.display.PlayVideo(sc.token, item, !sc.audioUnlocked)
		if sc.hidden {
			sc.phase = PhasePaused
			sc.display.PauseVideo()
		}
		return
	}

	sc.phase = PhaseWaiting
	sc.display.ShowImage(item)
	// A lone image just stays up
	if len(sc.items) > 1 {
		sc.armTimer(sc.transition, "timer")
	}
}

func (sc *Scheduler) armTimer(d time.Duration, trigger string) {
	sc.stopTimer()
	seq := sc.timerSeq
	sc.timer = sc.clock.AfterFunc(d, func() {
		sc.post(event{kind: evTimer, seq: seq, trigger: trigger})
	})
}

// stopTimer cancels the pending timer and invalidates a callback that may already be queued.
func (sc *Scheduler) stopTimer() {
	if sc.timer != nil {
		sc.timer.Stop()
		sc.timer = nil
	}
	sc.timerSeq++
}

func (sc *Scheduler) setHidden(hidden bool) {
	if hidden == sc.hidden {
		return
	}
	sc.hidden = hidden

	switch {
	case hidden && sc.phase == PhasePlaying:
		sc.phase = PhasePaused
		sc.display.PauseVideo()
	case !hidden && sc.phase == PhasePaused:
		sc.phase = PhasePlaying
		sc.display.ResumeVideo()
	}
}

func (sc *Scheduler) unlockAudio(ctx context.Context) {
	if sc.audioUnlocked {
		return
	}
	sc.audioUnlocked = true
	if sc.phase == PhasePlaying || sc.phase == PhasePaused {
		sc.display.Unmute()
	}

	if sc.prefs == nil {
		return
	}
	if err := sc.prefs.SetPreference(ctx, AudioUnlockedKey, "true"); err != nil {
		log.Warn().Err(err).Msg("Failed to persist audio unlock")
	}
}

func (sc *Scheduler) loadAudioUnlocked(ctx context.Context) bool {
	if sc.prefs == nil {
		return false
	}
	value, err := sc.prefs.GetPreference(ctx, AudioUnlockedKey)
	if err != nil {
		if !errors.Is(err, e.ErrNotFound) {
			log.Warn().Err(err).Msg("Failed to read audio unlock preference")
		}
		return false
	}
	return value == "true"
}

func (sc *Scheduler) snapshot() State {
	st := State{
		Index:         sc.index,
		Phase:         sc.phase,
		Items:         len(sc.items),
		AudioUnlocked: sc.audioUnlocked,
		Hidden:        sc.hidden,
	}
	if len(sc.items) > 0 {
		item := sc.items[sc.index]
		st.Item = &item
	}
	return st
}
