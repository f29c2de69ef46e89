package titles_test

import (
	"testing"

	"github.com/aaaronmiller/ripit/internal/titles"
)

func assertTitles(t *testing.T, description string, want []string) {
	t.Helper()
	got := titles.Extract(description)
	if len(got) != len(want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("plain title lines", func(t *testing.T) {
		t.Parallel()
		assertTitles(t, "First Light\nSecond Wind\nThird Rail",
			[]string{"First Light", "Second Wind", "Third Rail"})
	})

	t.Run("tracklist header dropped", func(t *testing.T) {
		t.Parallel()
		assertTitles(t, "Tracklist:\nFirst Light\nSecond Wind",
			[]string{"First Light", "Second Wind"})
	})

	t.Run("header spelling variants", func(t *testing.T) {
		t.Parallel()
		for _, header := range []string{"Track List", "TIMESTAMPS", "Setlist:", "songs"} {
			assertTitles(t, header+"\nReal Title", []string{"Real Title"})
		}
	})

	t.Run("urls and separators dropped", func(t *testing.T) {
		t.Parallel()
		desc := "----------\nFirst Light\nhttps://example.com/merch\n==========\nSecond Wind"
		assertTitles(t, desc, []string{"First Light", "Second Wind"})
	})

	t.Run("promo boilerplate dropped", func(t *testing.T) {
		t.Parallel()
		desc := "First Light\nFree download at my site\nSubscribe for more!\nSupport the artist on tour\nSecond Wind"
		assertTitles(t, desc, []string{"First Light", "Second Wind"})
	})

	t.Run("list markers stripped", func(t *testing.T) {
		t.Parallel()
		desc := "1. First Light\n2) Second Wind\n- Third Rail\n* Fourth Wall\n• Fifth Element"
		assertTitles(t, desc, []string{"First Light", "Second Wind", "Third Rail", "Fourth Wall", "Fifth Element"})
	})

	t.Run("bare timestamps dropped", func(t *testing.T) {
		t.Parallel()
		assertTitles(t, "0:00\n12:34\n1:02:03\nActual Title", []string{"Actual Title"})
	})

	t.Run("short fragments dropped", func(t *testing.T) {
		t.Parallel()
		assertTitles(t, "ab\nOne\nx", []string{"One"})
	})

	t.Run("blank lines skipped", func(t *testing.T) {
		t.Parallel()
		assertTitles(t, "\n\nFirst Light\n\n\nSecond Wind\n", []string{"First Light", "Second Wind"})
	})

	t.Run("empty description", func(t *testing.T) {
		t.Parallel()
		if got := titles.Extract(""); got != nil {
			t.Errorf("Extract(\"\") = %v, want nil", got)
		}
	})
}
