// Package voicesync keeps word highlighting in step with a speech engine.
//
// Engines differ in what they report: some fire a boundary event per word,
// some fire none at all. The synchronizer blends both sources, preferring
// recent boundary events and falling back to a rate-based estimate on a
// periodic tick, and guarantees the highlighted word index never moves
// backwards within a verse.
package voicesync

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var ErrAlreadySpeaking = errors.New("speech already in progress")

// Engine is the text-to-speech backend. Speak must not block; completion and
// failure are reported through the utterance callbacks. Cancel silences the
// engine and suppresses further callbacks for the cancelled utterance.
// Pause and Resume hold and release playback of the current utterance.
type Engine interface {
	Speak(u *Utterance)
	Pause()
	Resume()
	Cancel()
}

// Utterance is one unit of speech handed to the engine.
type Utterance struct {
	Text   string
	Rate   float64
	Volume float64

	OnStart    func()
	OnBoundary func(charIndex int)
	OnEnd      func()
	OnError    func(err error)
}

// Verse pairs a verse number with its text.
type Verse struct {
	Number int
	Text   string
}

type Options struct {
	Rate   float64 // speech rate multiplier, 1.0 = normal
	Volume float64 // 0.0 to 1.0

	OnVerseStart func(verse int)
	OnHighlight  func(verse, word int)
	OnDone       func(err error)
}

const (
	// baseWordsPerSecond is the estimator's speaking pace at rate 1.0.
	baseWordsPerSecond = 2.5

	defaultTick           = 100 * time.Millisecond
	defaultBoundaryWindow = 200 * time.Millisecond
	defaultVerseGap       = 300 * time.Millisecond
)

type Synchronizer struct {
	engine Engine
	now    func() time.Time

	tick           time.Duration
	boundaryWindow time.Duration
	verseGap       time.Duration

	mu       sync.Mutex
	gen      int
	speaking bool
	paused   bool
	pausedAt time.Time
	stop     chan struct{}

	// state of the utterance currently being spoken
	opts         Options
	verse        int
	wordStarts   []int
	wordIndex    int
	startedAt    time.Time
	lastBoundary time.Time
}

func New(engine Engine) *Synchronizer {
	return &Synchronizer{
		engine:         engine,
		now:            time.Now,
		tick:           defaultTick,
		boundaryWindow: defaultBoundaryWindow,
		verseGap:       defaultVerseGap,
	}
}

// Start speaks the verses in order, one utterance per verse with a short
// pause between them. It returns ErrAlreadySpeaking while a previous session
// runs. Highlights and completion arrive on the Options callbacks from a
// separate goroutine.
func (s *Synchronizer) Start(verses []Verse, opts Options) error {
	if opts.Rate <= 0 {
		opts.Rate = 1.0
	}

	s.mu.Lock()
	if s.speaking {
		s.mu.Unlock()
		return ErrAlreadySpeaking
	}
	s.speaking = true
	s.gen++
	gen := s.gen
	stop := make(chan struct{})
	s.stop = stop
	s.opts = opts
	s.mu.Unlock()

	go s.run(gen, stop, verses, opts)
	return nil
}

// Pause holds playback. Estimation stops advancing until Resume.
func (s *Synchronizer) Pause() {
	s.mu.Lock()
	if !s.speaking || s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = true
	s.pausedAt = s.now()
	s.mu.Unlock()

	s.engine.Pause()
}

// Resume releases a paused session. The estimator's clock is re-based so the
// time spent paused does not count as spoken words.
func (s *Synchronizer) Resume() {
	s.mu.Lock()
	if !s.speaking || !s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = false
	s.startedAt = s.startedAt.Add(s.now().Sub(s.pausedAt))
	s.mu.Unlock()

	s.engine.Resume()
}

// Stop cancels the current session. Safe to call at any time; callbacks from
// the cancelled session are suppressed.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if !s.speaking {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.speaking = false
	s.paused = false
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	close(stop)
	s.engine.Cancel()
}

func (s *Synchronizer) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

func (s *Synchronizer) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Synchronizer) run(gen int, stop chan struct{}, verses []Verse, opts Options) {
	var err error
	for i, verse := range verses {
		if i > 0 {
			select {
			case <-stop:
				return
			case <-time.After(s.verseGap):
			}
		}

		err = s.speakVerse(gen, stop, verse, opts)
		if err != nil {
			break
		}

		select {
		case <-stop:
			return
		default:
		}
	}

	s.mu.Lock()
	if s.gen == gen {
		s.speaking = false
		s.stop = nil
	}
	s.mu.Unlock()

	if opts.OnDone != nil {
		opts.OnDone(err)
	}
}

func (s *Synchronizer) speakVerse(gen int, stop chan struct{}, verse Verse, opts Options) error {
	end := make(chan struct{})
	fail := make(chan error, 1)

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	s.verse = verse.Number
	s.wordStarts = wordStarts(verse.Text)
	s.wordIndex = -1
	s.startedAt = s.now()
	s.lastBoundary = time.Time{}
	s.mu.Unlock()

	if opts.OnVerseStart != nil {
		opts.OnVerseStart(verse.Number)
	}

	var endOnce sync.Once
	s.engine.Speak(&Utterance{
		Text:   verse.Text,
		Rate:   opts.Rate,
		Volume: opts.Volume,
		OnStart: func() {
			s.mu.Lock()
			if s.gen == gen {
				s.startedAt = s.now()
			}
			s.mu.Unlock()
		},
		OnBoundary: func(charIndex int) {
			s.handleBoundary(gen, charIndex)
		},
		OnEnd: func() {
			endOnce.Do(func() { close(end) })
		},
		OnError: func(err error) {
			select {
			case fail <- err:
			default:
			}
		},
	})

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return nil
		case <-end:
			return nil
		case err := <-fail:
			s.engine.Cancel()
			return err
		case <-ticker.C:
			s.handleTick(gen)
		}
	}
}

// handleBoundary maps an engine boundary event to a word index and advances
// the highlight. Boundary positions are authoritative; the estimator defers
// to them for a short window afterwards.
func (s *Synchronizer) handleBoundary(gen, charIndex int) {
	s.mu.Lock()
	if s.gen != gen || s.paused || len(s.wordStarts) == 0 {
		s.mu.Unlock()
		return
	}

	word := sort.Search(len(s.wordStarts), func(i int) bool {
		return s.wordStarts[i] > charIndex
	}) - 1
	if word < 0 {
		word = 0
	}

	s.lastBoundary = s.now()
	emit := s.advance(word)
	verse := s.verse
	onHighlight := s.opts.OnHighlight
	s.mu.Unlock()

	if emit >= 0 && onHighlight != nil {
		onHighlight(verse, emit)
	}
}

// handleTick advances the highlight from elapsed time when the engine has
// been silent on boundaries for longer than the boundary window.
func (s *Synchronizer) handleTick(gen int) {
	s.mu.Lock()
	if s.gen != gen || s.paused || len(s.wordStarts) == 0 {
		s.mu.Unlock()
		return
	}

	now := s.now()
	if !s.lastBoundary.IsZero() && now.Sub(s.lastBoundary) < s.boundaryWindow {
		s.mu.Unlock()
		return
	}

	elapsed := now.Sub(s.startedAt).Seconds()
	estimated := int(elapsed * baseWordsPerSecond * s.opts.Rate)

	emit := s.advance(estimated)
	verse := s.verse
	onHighlight := s.opts.OnHighlight
	s.mu.Unlock()

	if emit >= 0 && onHighlight != nil {
		onHighlight(verse, emit)
	}
}

// advance moves the word index forward, never back, capped at the last word.
// It returns the new index, or -1 when nothing changed. Callers hold s.mu.
func (s *Synchronizer) advance(word int) int {
	if word > len(s.wordStarts)-1 {
		word = len(s.wordStarts) - 1
	}
	if word <= s.wordIndex {
		return -1
	}
	s.wordIndex = word
	return word
}

// wordStarts returns the starting character offset of each word.
func wordStarts(text string) []int {
	var starts []int
	inWord := false
	for i, r := range text {
		space := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if !space && !inWord {
			starts = append(starts, i)
		}
		inWord = !space
	}
	if len(starts) == 0 && strings.TrimSpace(text) != "" {
		starts = append(starts, 0)
	}
	return starts
}
