package attendance_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/librus-gateway/attendance"
	"github.com/jrsteele09/librus-gateway/librus"
	"github.com/jrsteele09/librus-gateway/librus/fakeclient"
	"github.com/stretchr/testify/require"
)

func newAuthorizedFake(t *testing.T) *fakeclient.FakeClient {
	t.Helper()

	client := fakeclient.New()
	require.NoError(t, client.Authorize(context.Background(), "jan", "secret"))
	return client
}

func cell(id int, typ string) *librus.AbsenceCell {
	return &librus.AbsenceCell{ID: id, Type: typ}
}

func TestAggregateDedupsRepeatedIDs(t *testing.T) {
	client := newAuthorizedFake(t)
	client.Details[1] = librus.AbsenceDetail{ID: 1, Type: "nb", Subject: "Math"}

	raw := librus.RawAbsences{
		"0": {{Date: "2024-01-10", Table: []*librus.AbsenceCell{
			{ID: 1, Type: "nb", Subject: "Math"},
			{ID: 1, Type: "nb", Subject: "Math"},
		}}},
	}

	report := attendance.New().Aggregate(context.Background(), client, raw)

	require.Equal(t, 1, client.DetailCalls(1))
	require.Equal(t, 1, client.TotalDetailCalls())
	require.Equal(t, 1, report.Details.TotalDetailed)
	require.Equal(t, map[string]*attendance.SubjectStat{
		"Math": {Total: 1, PerType: map[string]int{"nb": 1}},
	}, report.Details.PerSubject)
	require.Equal(t, raw, report.Absences)
}

func TestAggregateDedupsAcrossSemesters(t *testing.T) {
	client := newAuthorizedFake(t)
	client.Details[7] = librus.AbsenceDetail{ID: 7, Type: "Nieobecność", Subject: "Fizyka"}

	raw := librus.RawAbsences{
		"0": {{Date: "2024-01-10", Table: []*librus.AbsenceCell{cell(7, "nb")}}},
		"1": {
			{Date: "2024-03-01", Table: []*librus.AbsenceCell{nil, cell(7, "nb")}},
			{Date: "2024-03-02", Table: []*librus.AbsenceCell{cell(7, "nb")}},
		},
	}

	report := attendance.New().Aggregate(context.Background(), client, raw)

	require.Equal(t, 1, client.DetailCalls(7))
	require.Equal(t, 1, report.Details.TotalDetailed)
	require.Equal(t, 1, report.Details.PerSubject["Fizyka"].Total)
}

func TestAggregateEmpty(t *testing.T) {
	client := newAuthorizedFake(t)

	report := attendance.New().Aggregate(context.Background(), client, librus.RawAbsences{})

	require.Equal(t, 0, client.TotalDetailCalls())
	require.Empty(t, report.Details.PerSubject)
	require.NotNil(t, report.Details.PerSubject)
	require.Equal(t, 0, report.Details.TotalDetailed)
	require.Nil(t, report.Summary.PresentPct)

	encoded, err := json.Marshal(report.Details)
	require.NoError(t, err)
	require.JSONEq(t, `{"perSubject":{},"totalDetailed":0}`, string(encoded))
}

func TestAggregateNilAbsences(t *testing.T) {
	report := attendance.New().Aggregate(context.Background(), newAuthorizedFake(t), nil)

	require.NotNil(t, report.Absences)
	encoded, err := json.Marshal(report.Absences)
	require.NoError(t, err)
	require.Equal(t, "{}", string(encoded))
}

func TestAggregatePartialFailure(t *testing.T) {
	client := newAuthorizedFake(t)
	client.Details[1] = librus.AbsenceDetail{ID: 1, Type: "nb", Subject: "Math"}
	client.Details[3] = librus.AbsenceDetail{ID: 3, Type: "sp", Subject: "Math"}
	client.DetailErrs[2] = errors.New("upstream timeout")

	raw := librus.RawAbsences{
		"0": {{Date: "2024-01-10", Table: []*librus.AbsenceCell{cell(1, "nb"), cell(2, "nb"), cell(3, "sp")}}},
	}

	report := attendance.New().Aggregate(context.Background(), client, raw)

	require.Equal(t, 3, client.TotalDetailCalls())
	require.Equal(t, 2, report.Details.TotalDetailed)
	require.Equal(t, &attendance.SubjectStat{Total: 2, PerType: map[string]int{"nb": 1, "sp": 1}}, report.Details.PerSubject["Math"])
}

func TestAggregateAllFailing(t *testing.T) {
	client := newAuthorizedFake(t)
	raw := librus.RawAbsences{
		"0": {{Date: "2024-01-10", Table: []*librus.AbsenceCell{cell(1, "nb"), cell(2, "nb")}}},
	}

	report := attendance.New().Aggregate(context.Background(), client, raw)

	require.Equal(t, 2, client.TotalDetailCalls())
	require.Empty(t, report.Details.PerSubject)
	require.Equal(t, 0, report.Details.TotalDetailed)
	require.Equal(t, raw, report.Absences)
	require.Equal(t, 2, report.Summary.Total)
}

func TestAggregateDefaultsAndFreeText(t *testing.T) {
	client := newAuthorizedFake(t)
	client.Details[1] = librus.AbsenceDetail{ID: 1}
	client.Details[2] = librus.AbsenceDetail{ID: 2, Type: "wycieczka szkolna", Subject: "Wychowanie fizyczne"}

	raw := librus.RawAbsences{
		"0": {{Date: "2024-01-10", Table: []*librus.AbsenceCell{cell(1, ""), cell(2, "w")}}},
	}

	report := attendance.New().Aggregate(context.Background(), client, raw)

	require.Equal(t, map[string]*attendance.SubjectStat{
		attendance.DefaultSubject: {Total: 1, PerType: map[string]int{attendance.DefaultType: 1}},
		"Wychowanie fizyczne":     {Total: 1, PerType: map[string]int{"wycieczka szkolna": 1}},
	}, report.Details.PerSubject)
}

func TestFlattenSkipsPlaceholders(t *testing.T) {
	raw := librus.RawAbsences{
		"1": {{Date: "2024-03-01", Table: []*librus.AbsenceCell{nil, cell(3, "nb")}}},
		"0": {{Date: "2024-01-10", Table: []*librus.AbsenceCell{cell(0, "nb"), nil, cell(2, "sp"), cell(1, "nb")}}},
	}

	entries := attendance.Flatten(raw)
	require.Equal(t, []librus.AbsenceCell{*cell(2, "sp"), *cell(1, "nb"), *cell(3, "nb")}, entries)
	require.Equal(t, []int{2, 1, 3}, attendance.UniqueIDs(append(entries, *cell(2, "sp"))))
}

// recordingFetcher tracks the contexts and concurrency of detail calls
type recordingFetcher struct {
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu      sync.Mutex
	ctxErrs []error
}

func (f *recordingFetcher) AbsenceDetail(ctx context.Context, id int) (librus.AbsenceDetail, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	time.Sleep(f.delay)

	f.mu.Lock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	f.mu.Unlock()

	if id%2 == 0 {
		return librus.AbsenceDetail{}, errors.New("even ids fail")
	}
	return librus.AbsenceDetail{Subject: "Math", Type: "nb"}, nil
}

func TestFetchDetailsJoinsAllAndIgnoresCancellation(t *testing.T) {
	fetcher := &recordingFetcher{delay: 10 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := attendance.FetchDetails(ctx, fetcher, []int{1, 2, 3, 4, 5}, 0)

	require.Len(t, results, 5)
	for i, r := range results {
		require.Equal(t, i+1, r.ID)
		if r.ID%2 == 0 {
			require.Error(t, r.Err)
		} else {
			require.NoError(t, r.Err)
			require.Equal(t, r.ID, r.Detail.ID, "detail id defaults to the requested id")
		}
	}

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	require.Len(t, fetcher.ctxErrs, 5)
	for _, err := range fetcher.ctxErrs {
		require.NoError(t, err)
	}

	require.Len(t, attendance.Successful(context.Background(), results), 3)
}

func TestFetchDetailsRespectsConcurrencyLimit(t *testing.T) {
	fetcher := &recordingFetcher{delay: 5 * time.Millisecond}
	ids := []int{1, 3, 5, 7, 9, 11, 13, 15}

	results := attendance.FetchDetails(context.Background(), fetcher, ids, 2)

	require.Len(t, results, len(ids))
	require.LessOrEqual(t, fetcher.maxSeen.Load(), int32(2))
}

func TestFetchDetailsNoIDs(t *testing.T) {
	fetcher := &recordingFetcher{}

	require.Empty(t, attendance.FetchDetails(context.Background(), fetcher, nil, 0))
	require.Empty(t, fetcher.ctxErrs)
}

func TestPipelineWithConcurrency(t *testing.T) {
	fetcher := &recordingFetcher{delay: 5 * time.Millisecond}
	raw := librus.RawAbsences{
		"0": {{Date: "2024-01-10", Table: []*librus.AbsenceCell{cell(1, "nb"), cell(3, "nb"), cell(5, "nb"), cell(7, "nb")}}},
	}

	report := attendance.New(attendance.WithConcurrency(1)).Aggregate(context.Background(), fetcher, raw)

	require.Equal(t, 4, report.Details.TotalDetailed)
	require.Equal(t, int32(1), fetcher.maxSeen.Load())
}

type panickyFetcher struct{}

func (panickyFetcher) AbsenceDetail(_ context.Context, id int) (librus.AbsenceDetail, error) {
	if id == 2 {
		panic("malformed upstream payload")
	}
	return librus.AbsenceDetail{Subject: "Math", Type: "nb"}, nil
}

func TestFetchDetailsContainsPanics(t *testing.T) {
	results := attendance.FetchDetails(context.Background(), panickyFetcher{}, []int{1, 2, 3}, 0)

	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.Equal(t, 2, results[1].ID)
	require.ErrorContains(t, results[1].Err, "malformed upstream payload")
	require.NoError(t, results[2].Err)

	report := attendance.New().Aggregate(context.Background(), panickyFetcher{}, librus.RawAbsences{
		"0": {{Date: "2024-01-10", Table: []*librus.AbsenceCell{cell(1, "nb"), cell(2, "nb"), cell(3, "nb")}}},
	})
	require.Equal(t, 2, report.Details.TotalDetailed)
}
