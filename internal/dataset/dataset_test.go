package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const weeklyCSV = `player_name,position,season,week,fantasy_points_ppr,draft_pick,passing_yards,team
A,QB,2023,1,10.5,3,250,KC
B,QB,2023,1,n/a,,300,BUF
C,RB,2023,2,5,12,0,SF
D,WR,2023,x
`

func TestReadCSV_CoercesMissingAndBadNumbersToZero(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader(weeklyCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	a := rows[0]
	if a.Player != "A" || a.Position != "QB" || a.Season != 2023 || a.Week != 1 {
		t.Fatalf("identity columns parsed wrong: %+v", a)
	}
	if a.Metric(MetricPoints) != 10.5 || a.Metric(MetricDraftPick) != 3 {
		t.Fatalf("metrics parsed wrong: %+v", a.Metrics)
	}
	b := rows[1]
	if b.Metric(MetricPoints) != 0 || b.Metric(MetricDraftPick) != 0 {
		t.Fatalf("unparseable cells should be 0, got %+v", b.Metrics)
	}
	if b.Raw[MetricPoints] != "n/a" {
		t.Fatalf("raw cell should be kept, got %q", b.Raw[MetricPoints])
	}
	d := rows[3]
	if d.Week != 0 || d.Metric(MetricPoints) != 0 {
		t.Fatalf("short row should pad with zeros, got %+v", d)
	}
	if _, ok := a.Metrics[ColPlayer]; ok {
		t.Fatal("identity columns must not become metrics")
	}
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader(""))
	if err != nil || rows != nil {
		t.Fatalf("empty input should yield no rows and no error, got %v %v", rows, err)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{"": 0, " 4.5 ": 4.5, "NaN": 0, "Inf": 0, "abc": 0, "-2": -2}
	for in, want := range cases {
		if got := ParseNumber(in); got != want {
			t.Fatalf("ParseNumber(%q) = %g, want %g", in, got, want)
		}
	}
}

func TestTimeframe(t *testing.T) {
	if Weekly.Toggle() != Season || Season.Toggle() != Weekly {
		t.Fatal("toggle should flip timeframes")
	}
	if _, err := Timeframe(9).Table(); !errors.Is(err, ErrUnknownTimeframe) {
		t.Fatalf("expected ErrUnknownTimeframe, got %v", err)
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := CSVSource{Dir: t.TempDir()}.Load(context.Background(), Weekly)
	if err == nil || !strings.Contains(err.Error(), "weekly_player_data.csv") {
		t.Fatalf("expected open error naming the file, got %v", err)
	}
}

func TestSQLiteSource_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rows, err := ReadCSV(ctx, strings.NewReader(weeklyCSV))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "players.db")
	if err := WriteSQLite(ctx, path, Season, []string{MetricPoints, MetricDraftPick}, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := SQLiteSource{Path: path}.Load(ctx, Season)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}
	if got[0].Player != "A" || got[0].Season != 2023 || got[0].Metric(MetricPoints) != 10.5 {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
	if _, err := (SQLiteSource{Path: path}).Load(ctx, Weekly); err == nil {
		t.Fatal("expected error for missing weekly table")
	}
}

// gatedSource blocks each timeframe until its gate is closed.
type gatedSource struct {
	gates map[Timeframe]chan struct{}
}

func (g gatedSource) Load(ctx context.Context, tf Timeframe) ([]Sample, error) {
	select {
	case <-g.gates[tf]:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []Sample{{Player: tf.String()}}, nil
}

func TestFetcher_NewerFetchSupersedesOlder(t *testing.T) {
	src := gatedSource{gates: map[Timeframe]chan struct{}{
		Weekly: make(chan struct{}),
		Season: make(chan struct{}),
	}}
	f := NewFetcher(src)
	first := f.Fetch(context.Background(), Weekly)
	second := f.Fetch(context.Background(), Season)
	if second <= first {
		t.Fatalf("generations should increase: %d then %d", first, second)
	}
	close(src.gates[Weekly])
	close(src.gates[Season])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var got []Result
	if err := f.Wait(ctx, func(r Result) { got = append(got, r) }); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if len(got) != 1 || got[0].Timeframe != Season || got[0].Gen != second {
		t.Fatalf("expected only the season result, got %+v", got)
	}
	if f.Pending() {
		t.Fatal("fetcher should be idle after delivery")
	}
	if f.Deliver(func(Result) { t.Fatal("stale result delivered") }) {
		t.Fatal("nothing current should be left to deliver")
	}
}

func TestFetcher_CancelDropsResult(t *testing.T) {
	src := gatedSource{gates: map[Timeframe]chan struct{}{Weekly: make(chan struct{})}}
	f := NewFetcher(src)
	f.Fetch(context.Background(), Weekly)
	f.Cancel()
	close(src.gates[Weekly])
	time.Sleep(10 * time.Millisecond)
	if f.Deliver(func(Result) { t.Fatal("cancelled fetch delivered") }) {
		t.Fatal("cancelled fetch should not deliver")
	}
}
