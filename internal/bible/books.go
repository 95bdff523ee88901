package bible

import "strings"

// Book identifies one book of the canon. IDs follow the scripture.api.bible
// book codes (GEN, PSA, 1JN, ...).
type Book struct {
	ID       string
	Name     string
	Chapters int
}

// Books lists the 66 books in canonical order; 1,189 chapters in total.
var Books = []Book{
	{"GEN", "Genesis", 50},
	{"EXO", "Exodus", 40},
	{"LEV", "Leviticus", 27},
	{"NUM", "Numbers", 36},
	{"DEU", "Deuteronomy", 34},
	{"JOS", "Joshua", 24},
	{"JDG", "Judges", 21},
	{"RUT", "Ruth", 4},
	{"1SA", "1 Samuel", 31},
	{"2SA", "2 Samuel", 24},
	{"1KI", "1 Kings", 22},
	{"2KI", "2 Kings", 25},
	{"1CH", "1 Chronicles", 29},
	{"2CH", "2 Chronicles", 36},
	{"EZR", "Ezra", 10},
	{"NEH", "Nehemiah", 13},
	{"EST", "Esther", 10},
	{"JOB", "Job", 42},
	{"PSA", "Psalms", 150},
	{"PRO", "Proverbs", 31},
	{"ECC", "Ecclesiastes", 12},
	{"SNG", "Song of Solomon", 8},
	{"ISA", "Isaiah", 66},
	{"JER", "Jeremiah", 52},
	{"LAM", "Lamentations", 5},
	{"EZK", "Ezekiel", 48},
	{"DAN", "Daniel", 12},
	{"HOS", "Hosea", 14},
	{"JOL", "Joel", 3},
	{"AMO", "Amos", 9},
	{"OBA", "Obadiah", 1},
	{"JON", "Jonah", 4},
	{"MIC", "Micah", 7},
	{"NAM", "Nahum", 3},
	{"HAB", "Habakkuk", 3},
	{"ZEP", "Zephaniah", 3},
	{"HAG", "Haggai", 2},
	{"ZEC", "Zechariah", 14},
	{"MAL", "Malachi", 4},
	{"MAT", "Matthew", 28},
	{"MRK", "Mark", 16},
	{"LUK", "Luke", 24},
	{"JHN", "John", 21},
	{"ACT", "Acts", 28},
	{"ROM", "Romans", 16},
	{"1CO", "1 Corinthians", 16},
	{"2CO", "2 Corinthians", 13},
	{"GAL", "Galatians", 6},
	{"EPH", "Ephesians", 6},
	{"PHP", "Philippians", 4},
	{"COL", "Colossians", 4},
	{"1TH", "1 Thessalonians", 5},
	{"2TH", "2 Thessalonians", 3},
	{"1TI", "1 Timothy", 6},
	{"2TI", "2 Timothy", 4},
	{"TIT", "Titus", 3},
	{"PHM", "Philemon", 1},
	{"HEB", "Hebrews", 13},
	{"JAS", "James", 5},
	{"1PE", "1 Peter", 5},
	{"2PE", "2 Peter", 3},
	{"1JN", "1 John", 5},
	{"2JN", "2 John", 1},
	{"3JN", "3 John", 1},
	{"JUD", "Jude", 1},
	{"REV", "Revelation", 22},
}

var byID = func() map[string]Book {
	m := make(map[string]Book, len(Books))
	for _, b := range Books {
		m[b.ID] = b
	}
	return m
}()

// ByID looks up a book by its code.
func ByID(id string) (Book, bool) {
	b, ok := byID[id]
	return b, ok
}

// Name returns the display name for a book code, or the code itself if
// unknown.
func Name(id string) string {
	if b, ok := byID[id]; ok {
		return b.Name
	}
	return id
}

// Resolve looks up a book by code or display name, case-insensitively.
func Resolve(s string) (Book, bool) {
	if b, ok := byID[strings.ToUpper(s)]; ok {
		return b, true
	}
	for _, b := range Books {
		if strings.EqualFold(b.Name, s) {
			return b, true
		}
	}
	return Book{}, false
}

// TotalChapters is the chapter count across the whole canon.
func TotalChapters() int {
	total := 0
	for _, b := range Books {
		total += b.Chapters
	}
	return total
}
