package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
)

var ErrChapterNotCached = errors.New("chapter not cached")

type ScriptureRepository interface {
	Put(chapter *model.CachedChapter) error
	ByChapter(book string, chapter int) (*model.CachedChapter, error)
	Count() (int, error)
}

type scriptureRepository struct {
	store *db.Store
}

func NewScriptureRepository(store *db.Store) ScriptureRepository {
	return &scriptureRepository{store: store}
}

func (r *scriptureRepository) Put(chapter *model.CachedChapter) error {
	if chapter.CachedAt.IsZero() {
		chapter.CachedAt = time.Now()
	}

	query := `INSERT INTO scripture_cache (book, chapter, verses, cached_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (book, chapter) DO UPDATE SET
	            verses = excluded.verses,
	            cached_at = excluded.cached_at`

	return r.store.Exec(query, chapter.Book, chapter.Chapter, chapter.Verses, chapter.CachedAt)
}

func (r *scriptureRepository) ByChapter(book string, chapter int) (*model.CachedChapter, error) {
	cached := &model.CachedChapter{}
	query := `SELECT * FROM scripture_cache WHERE book = $1 AND chapter = $2`

	err := r.store.Get(cached, query, book, chapter)
	if err == sql.ErrNoRows {
		return nil, ErrChapterNotCached
	}
	if err != nil {
		return nil, err
	}

	return cached, nil
}

func (r *scriptureRepository) Count() (int, error) {
	return r.store.Count(`SELECT COUNT(*) FROM scripture_cache`)
}
