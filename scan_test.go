package fpa

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recorder is a Sink that remembers what it was given.
type recorder struct {
	positions []int
	alleles   []Allele
	failAfter int
}

func (r *recorder) Write(res *SiteResult) (int, error) {
	if r.failAfter > 0 && len(r.positions) == r.failAfter {
		return 0, errors.New("sink is full")
	}
	r.positions = append(r.positions, res.Site.Position)
	for _, pa := range res.PrivateAlleles {
		r.alleles = append(r.alleles, pa.Allele)
	}
	return len(res.PrivateAlleles), nil
}

// manySites builds an input in which every third site has one private
// allele carried by population 2.
func manySites(n int) string {
	lines := []string{header(3)}
	for i := 1; i <= n; i++ {
		second := monomorphic("A", "30", "1.0")
		if i%3 == 0 {
			second = monomorphic("G", "30", "1.0")
		}
		lines = append(lines, row("scaf", fmt.Sprint(i), "A",
			monomorphic("A", "30", "1.0"),
			second,
			monomorphic("A", "30", "1.0"),
		))
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestScanPreservesInputOrder(t *testing.T) {
	const n = 5000

	for _, threads := range []int{0, 1, 4} {
		f, err := NewFromReader("test", strings.NewReader(manySites(n)))
		if err != nil {
			t.Fatal(err)
		}

		rec := &recorder{}
		var buf bytes.Buffer
		w := NewWriter(&buf)

		cfg := DefaultScanConfig()
		cfg.Threads = threads
		stats, err := Scan(f, cfg, rec, w)
		if err != nil {
			t.Fatalf("threads=%d: %v", threads, err)
		}
		w.Flush()

		if stats.Sites != n || stats.SitesWithPrivateAlleles != n/3 || stats.PrivateAlleles != n/3 {
			t.Errorf("threads=%d: Got %+v", threads, stats)
		}

		expected := make([]int, n)
		for i := range expected {
			expected[i] = i + 1
		}
		if diff := cmp.Diff(expected, rec.positions); diff != "" {
			t.Errorf("threads=%d: sites out of order (-expected +got):\n%s", threads, diff)
		}

		rows := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(rows) != n/3 {
			t.Fatalf("threads=%d: Got %d rows, expected %d", threads, len(rows), n/3)
		}
		for i, r := range rows {
			if want := fmt.Sprintf("scaf\t%d\tA\t", 3*(i+1)); !strings.HasPrefix(r, want) {
				t.Errorf("threads=%d: row %d is %q, expected prefix %q", threads, i, r, want)
				break
			}
		}
	}
}

func TestScanStrictFailure(t *testing.T) {
	input := manySites(10) + "scaf 11 A A NA 30\n"

	f, err := NewFromReader("test", strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultScanConfig()
	cfg.Strict = true
	if _, err := Scan(f, cfg, &recorder{}); err == nil || !strings.Contains(err.Error(), "line 12") {
		t.Errorf("Got %v, expected an error naming line 12", err)
	}

	// The same input passes when permissive.
	f, err = NewFromReader("test", strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	stats, err := Scan(f, DefaultScanConfig(), &recorder{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Sites != 11 {
		t.Errorf("Got %d sites, expected 11", stats.Sites)
	}
}

func TestScanStrictFailureDeliversEarlierSites(t *testing.T) {
	const good = 150

	lines := []string{strings.TrimSuffix(manySites(good), "\n"), "scaf 151 A A NA 30"}
	for i := good + 2; i <= 3000; i++ {
		lines = append(lines, row("scaf", fmt.Sprint(i), "A",
			monomorphic("A", "30", "1.0"),
			monomorphic("G", "30", "1.0"),
			monomorphic("A", "30", "1.0"),
		))
	}
	input := strings.Join(lines, "\n") + "\n"

	expected := make([]int, good)
	for i := range expected {
		expected[i] = i + 1
	}

	for _, threads := range []int{1, 4} {
		f, err := NewFromReader("test", strings.NewReader(input))
		if err != nil {
			t.Fatal(err)
		}

		rec := &recorder{}
		var buf bytes.Buffer
		w := NewWriter(&buf)

		cfg := DefaultScanConfig()
		cfg.Threads = threads
		cfg.Strict = true
		stats, err := Scan(f, cfg, rec, w)
		if err == nil || !strings.Contains(err.Error(), "line 152") {
			t.Errorf("threads=%d: Got %v, expected an error naming line 152", threads, err)
		}
		w.Flush()

		if diff := cmp.Diff(expected, rec.positions); diff != "" {
			t.Errorf("threads=%d: sites delivered before the bad row (-expected +got):\n%s", threads, diff)
		}
		if stats.Sites != good {
			t.Errorf("threads=%d: Got %d sites, expected %d", threads, stats.Sites, good)
		}
		if rows := strings.Count(buf.String(), "\n"); rows != good/3 {
			t.Errorf("threads=%d: Got %d rows, expected %d", threads, rows, good/3)
		}
	}
}

func TestScanSinkError(t *testing.T) {
	f, err := NewFromReader("test", strings.NewReader(manySites(100)))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Scan(f, DefaultScanConfig(), &recorder{failAfter: 10}); err == nil || !strings.Contains(err.Error(), "sink is full") {
		t.Errorf("Got %v, expected the sink's error", err)
	}
}
