package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shametoflame/ministry/internal/bible"
	"github.com/shametoflame/ministry/internal/config"
	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/repository"
)

var (
	ErrDownloadInProgress = errors.New("bulk download already in progress")
	ErrScriptureOffline   = errors.New("scripture provider unreachable and chapter not cached")
)

// minCachedChapters is the threshold above which the local cache is treated
// as a completed bulk download.
const minCachedChapters = 10

// ScriptureService serves scripture text cache-first. A chapter is fetched
// from the provider once, stored verse-by-verse, and never re-fetched.
type ScriptureService struct {
	repo     repository.ScriptureRepository
	client   *http.Client
	baseURL  string
	apiKey   string
	bibleID  string
	throttle time.Duration
	online   func() bool

	mu          sync.Mutex
	downloading bool
}

func NewScriptureService(repo repository.ScriptureRepository, cfg *config.Config) *ScriptureService {
	return &ScriptureService{
		repo:     repo,
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  cfg.ScriptureAPIURL,
		apiKey:   cfg.ScriptureAPIKey,
		bibleID:  cfg.ScriptureBibleID,
		throttle: cfg.DownloadThrottle,
		online:   func() bool { return true },
	}
}

// Text returns the text for a reference: a single verse, a verse range, or a
// whole chapter. The cache is consulted first; a miss triggers a provider
// fetch. When the provider is unreachable and the chapter is not cached, the
// error is ErrScriptureOffline.
func (s *ScriptureService) Text(ctx context.Context, ref model.ScriptureReference) (string, error) {
	cached, err := s.Chapter(ctx, ref.Book, ref.Chapter)
	if err != nil {
		return "", err
	}

	start, end, ranged := ref.Bounds()
	if !ranged {
		var parts []string
		for _, n := range cached.Verses.Numbers() {
			parts = append(parts, fmt.Sprintf("%d %s", n, cached.Verses[n]))
		}
		return strings.Join(parts, " "), nil
	}

	var parts []string
	for n := start; n <= end; n++ {
		if text, ok := cached.Verses[n]; ok {
			parts = append(parts, fmt.Sprintf("%d %s", n, text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%s %d:%d-%d not found in cached chapter", ref.Book, ref.Chapter, start, end)
	}
	return strings.Join(parts, " "), nil
}

// Chapter returns a cached chapter, fetching and caching it on a miss.
func (s *ScriptureService) Chapter(ctx context.Context, book string, chapter int) (*model.CachedChapter, error) {
	cached, err := s.repo.ByChapter(book, chapter)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repository.ErrChapterNotCached) {
		return nil, err
	}

	if !s.online() {
		return nil, ErrScriptureOffline
	}
	return s.DownloadChapter(ctx, book, chapter)
}

// DownloadChapter fetches one chapter from the provider and stores it. The
// reference may use any accepted format ("JHN.3", "John 3"). An already
// cached chapter is returned without touching the network.
func (s *ScriptureService) DownloadChapter(ctx context.Context, book string, chapter int) (*model.CachedChapter, error) {
	b, ok := bible.ByID(book)
	if !ok {
		var err error
		b, chapter, err = bible.ParseChapterRef(fmt.Sprintf("%s %d", book, chapter))
		if err != nil {
			return nil, err
		}
	}

	cached, err := s.repo.ByChapter(b.ID, chapter)
	if err == nil {
		return cached, nil
	}

	content, err := s.fetchChapter(ctx, b, chapter)
	if err != nil {
		return nil, err
	}

	cached = &model.CachedChapter{
		Book:    b.ID,
		Chapter: chapter,
		Verses:  parseVerses(content),
	}

	err = s.repo.Put(cached)
	if err != nil {
		slog.Warn("scripture cache write failed", "book", b.ID, "chapter", chapter, "error", err)
	}

	return cached, nil
}

// DownloadProgress reports bulk-download advancement after each chapter
// attempt.
type DownloadProgress struct {
	Book       string `json:"book"`
	Chapter    int    `json:"chapter"`
	Downloaded int    `json:"downloaded"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// DownloadAll fetches every chapter of the canon not yet cached. Only one
// bulk download runs at a time; a second call returns ErrDownloadInProgress
// immediately. Per-chapter failures are logged and skipped so a flaky
// connection still makes forward progress.
func (s *ScriptureService) DownloadAll(ctx context.Context, progress func(DownloadProgress)) error {
	s.mu.Lock()
	if s.downloading {
		s.mu.Unlock()
		return ErrDownloadInProgress
	}
	s.downloading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.downloading = false
		s.mu.Unlock()
	}()

	total := bible.TotalChapters()
	done := 0
	failed := 0

	report := func(book bible.Book, chapter int) {
		if progress == nil {
			return
		}
		progress(DownloadProgress{
			Book:       book.Name,
			Chapter:    chapter,
			Downloaded: done,
			Total:      total,
			Percentage: int(math.Round(float64(done) * 100 / float64(total))),
		})
	}

	for _, book := range bible.Books {
		for chapter := 1; chapter <= book.Chapters; chapter++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			_, err := s.repo.ByChapter(book.ID, chapter)
			if err == nil {
				done++
				report(book, chapter)
				continue
			}

			_, err = s.DownloadChapter(ctx, book.ID, chapter)
			if err != nil {
				failed++
				slog.Warn("chapter download failed", "book", book.ID, "chapter", chapter, "error", err)
			} else {
				done++
			}
			report(book, chapter)

			if s.throttle > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(s.throttle):
				}
			}
		}
	}

	slog.Info("bulk download finished", "done", done, "failed", failed, "total", total)
	if failed > 0 {
		return fmt.Errorf("bulk download incomplete: %d of %d chapters failed", failed, total)
	}
	return nil
}

// InProgress reports whether a bulk download is running.
func (s *ScriptureService) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloading
}

// Downloaded reports whether the local cache holds enough chapters to be
// considered a completed bulk download.
func (s *ScriptureService) Downloaded() (bool, error) {
	count, err := s.repo.Count()
	if err != nil {
		return false, err
	}
	return count >= minCachedChapters, nil
}

type chapterResponse struct {
	Data struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	} `json:"data"`
}

// fetchChapter requests a chapter from the provider, retrying with the
// alternate reference formats the provider is known to accept before giving
// up.
func (s *ScriptureService) fetchChapter(ctx context.Context, b bible.Book, chapter int) (string, error) {
	references := []string{
		fmt.Sprintf("%s.%d", b.ID, chapter),
		fmt.Sprintf("%s %d", b.ID, chapter),
		fmt.Sprintf("%s %d", b.Name, chapter),
		fmt.Sprintf("%s.%d", b.Name, chapter),
	}

	var lastErr error
	for _, ref := range references {
		content, err := s.fetchPassage(ctx, ref)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("fetch %s.%d: no reference format accepted: %w", b.ID, chapter, lastErr)
}

func (s *ScriptureService) fetchPassage(ctx context.Context, reference string) (string, error) {
	requestURL := fmt.Sprintf("%s/bibles/%s/passages/%s?content-type=text&include-verse-numbers=true&include-notes=false&include-titles=false&include-chapter-numbers=false",
		s.baseURL, s.bibleID, url.PathEscape(reference))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", reference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: provider returned %s", reference, resp.Status)
	}

	var body chapterResponse
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", reference, err)
	}
	if strings.TrimSpace(body.Data.Content) == "" {
		return "", fmt.Errorf("fetch %s: empty chapter content", reference)
	}

	return body.Data.Content, nil
}

var (
	verseMarker = regexp.MustCompile(`(\d+)\s+`)
	htmlTag     = regexp.MustCompile(`<[^>]*>`)
)

// parseVerses splits chapter text on leading verse-number markers, after
// stripping any HTML markup the provider slipped in. Text with no
// recognizable markers is stored whole as verse 1 so a chapter is never lost
// to a formatting quirk.
func parseVerses(content string) model.VerseMap {
	content = htmlTag.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	verses := model.VerseMap{}

	markers := verseMarker.FindAllStringSubmatchIndex(content, -1)
	for i, m := range markers {
		num, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(content)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		text := strings.TrimSpace(content[m[1]:end])
		if text != "" {
			verses[num] = text
		}
	}

	if len(verses) == 0 && content != "" {
		verses[1] = content
	}
	return verses
}
