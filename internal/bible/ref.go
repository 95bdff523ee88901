package bible

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseChapterRef resolves a chapter reference in any of the accepted
// formats: "JHN.3", "JHN 3", "John 3", "John.3". The separator is the last
// dot or space so names like "Song of Solomon 2" parse correctly.
func ParseChapterRef(ref string) (Book, int, error) {
	ref = strings.TrimSpace(ref)

	sep := strings.LastIndexAny(ref, ". ")
	if sep < 0 {
		return Book{}, 0, fmt.Errorf("invalid chapter reference %q", ref)
	}

	name := strings.TrimSpace(ref[:sep])
	chapter, err := strconv.Atoi(strings.TrimSpace(ref[sep+1:]))
	if err != nil || chapter < 1 {
		return Book{}, 0, fmt.Errorf("invalid chapter reference %q", ref)
	}

	book, ok := Resolve(name)
	if !ok {
		return Book{}, 0, fmt.Errorf("unknown book %q", name)
	}
	if chapter > book.Chapters {
		return Book{}, 0, fmt.Errorf("%s has %d chapters, got %d", book.Name, book.Chapters, chapter)
	}

	return book, chapter, nil
}
