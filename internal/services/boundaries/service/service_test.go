package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"wardtpr/internal/modkit/repokit"
	perr "wardtpr/internal/platform/errors"
	"wardtpr/internal/services/boundaries/domain"
	"wardtpr/internal/services/boundaries/repo"
)

type fakeRepo struct {
	calls atomic.Int32
	rows  map[string][]repo.RowFeature
	err   error
}

func (f *fakeRepo) ByState(_ context.Context, state string) ([]repo.RowFeature, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[state], nil
}

func (f *fakeRepo) States(context.Context) ([]string, error) { return []string{"Adamawa", "Rivers"}, nil }

// nopQ satisfies repokit.Queryer; the fake repo never touches it
type nopQ struct{ repokit.Queryer }

func newSvc(f *fakeRepo) *Svc {
	return New(nopQ{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f }))
}

func TestForState_CachesPerState(t *testing.T) {
	f := &fakeRepo{rows: map[string][]repo.RowFeature{
		"Adamawa": {{WardName: "Yola North", LGAName: "Girei", State: "Adamawa", Geometry: []byte(`{"type":"Polygon"}`)}},
	}}
	s := newSvc(f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		fs, err := s.ForState(ctx, "Adamawa")
		if err != nil {
			t.Fatalf("ForState: %v", err)
		}
		if len(fs) != 1 || fs[0].CanonicalWardName != "Yola North" || string(fs[0].Geometry) != `{"type":"Polygon"}` {
			t.Fatalf("features = %+v", fs)
		}
	}
	if _, err := s.ForState(ctx, "  ADAMAWA "); err != nil {
		t.Fatal(err)
	}
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("repo calls = %d, want 1", got)
	}
}

func TestForState_ConcurrentFirstLoad(t *testing.T) {
	f := &fakeRepo{rows: map[string][]repo.RowFeature{"Rivers": {{WardName: "Port Harcourt II", State: "Rivers"}}}}
	s := newSvc(f)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ForState(context.Background(), "Rivers"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if got := f.calls.Load(); got < 1 || got > 16 {
		t.Fatalf("repo calls = %d", got)
	}
	if _, ok := s.cache["rivers"]; !ok {
		t.Fatalf("rivers not cached")
	}
}

func TestForState_UnknownNotCached(t *testing.T) {
	f := &fakeRepo{rows: map[string][]repo.RowFeature{}}
	s := newSvc(f)
	for i := 0; i < 2; i++ {
		fs, err := s.ForState(context.Background(), "Lagos")
		if err != nil || len(fs) != 0 {
			t.Fatalf("got %v, %v", fs, err)
		}
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("repo calls = %d, want 2", got)
	}
}

func TestForState_Errors(t *testing.T) {
	s := newSvc(&fakeRepo{err: errors.New("down")})
	if _, err := s.ForState(context.Background(), " "); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("blank state err = %v", err)
	}
	if _, err := s.ForState(context.Background(), "Kano"); err == nil {
		t.Fatalf("repo error not surfaced")
	}
}

func TestWards(t *testing.T) {
	f := &fakeRepo{rows: map[string][]repo.RowFeature{"Kano": {{WardName: "Tarauni", LGAName: "Tarauni", WardCode: "KN-01", State: "Kano"}}}}
	s := newSvc(f)
	got, err := s.Wards(context.Background(), domain.StateInput{State: "Kano"})
	if err != nil || len(got) != 1 || got[0] != (domain.WardName{Name: "Tarauni", LGA: "Tarauni", WardCode: "KN-01"}) {
		t.Fatalf("wards = %+v, %v", got, err)
	}
	if _, err := s.Wards(context.Background(), domain.StateInput{State: "Oyo"}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown state err = %v", err)
	}
}

func TestStatic(t *testing.T) {
	st := Static{
		{CanonicalWardName: "Jimeta", State: "Adamawa"},
		{CanonicalWardName: "Tarauni", State: "Kano"},
	}
	got, _ := st.ForState(context.Background(), "adamawa")
	if len(got) != 1 || got[0].CanonicalWardName != "Jimeta" {
		t.Fatalf("static = %+v", got)
	}
}
