package bible

import "testing"

func TestParseChapterRef(t *testing.T) {
	tests := []struct {
		ref         string
		wantBook    string
		wantChapter int
		wantErr     bool
	}{
		{"JHN.3", "JHN", 3, false},
		{"JHN 3", "JHN", 3, false},
		{"John 3", "JHN", 3, false},
		{"John.3", "JHN", 3, false},
		{"jhn 3", "JHN", 3, false},
		{"1 Samuel 2", "1SA", 2, false},
		{"Song of Solomon 2", "SNG", 2, false},
		{"PSA.150", "PSA", 150, false},
		{"PSA.151", "", 0, true},
		{"Genesis", "", 0, true},
		{"Nowhere 3", "", 0, true},
		{"JHN.0", "", 0, true},
		{"JHN.x", "", 0, true},
		{"", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			book, chapter, err := ParseChapterRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s %d", book.ID, chapter)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if book.ID != tt.wantBook || chapter != tt.wantChapter {
				t.Errorf("got %s %d, want %s %d", book.ID, chapter, tt.wantBook, tt.wantChapter)
			}
		})
	}
}

func TestCanonShape(t *testing.T) {
	if len(Books) != 66 {
		t.Errorf("canon has %d books, want 66", len(Books))
	}
	if total := TotalChapters(); total != 1189 {
		t.Errorf("canon has %d chapters, want 1189", total)
	}

	psa, ok := ByID("PSA")
	if !ok || psa.Chapters != 150 {
		t.Errorf("Psalms lookup: %+v, %v", psa, ok)
	}

	if Name("JHN") != "John" {
		t.Errorf("Name(JHN) = %q", Name("JHN"))
	}
	if Name("ZZZ") != "ZZZ" {
		t.Errorf("unknown code should echo: %q", Name("ZZZ"))
	}
}
