package missionstore

import (
	"sync"
	"testing"

	"github.com/skyroutex/surveyplanner/core"
	"github.com/skyroutex/surveyplanner/model"
)

func smallPlan(t *testing.T, name string) *model.MissionPlan {
	t.Helper()

	cfg := model.SurveyConfig{
		Name: name,
		SurveyPolygon: model.Polygon{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: 0.001},
			{Lat: 0.001, Lon: 0.001},
			{Lat: 0.001, Lon: 0},
		},
		Altitude:      50,
		SpacingMeters: 50,
	}
	plan, err := core.NewPlanner().Plan(cfg)
	if err != nil {
		t.Fatalf("Plan error: %v", err)
	}
	return plan
}

func TestPutAndGet(t *testing.T) {
	store := NewStore()

	rec, err := store.Put(smallPlan(t, "alpha"))
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("record has empty ID")
	}

	got := store.Get(rec.ID)
	if got == nil || got.Plan.Config.Name != "alpha" {
		t.Fatalf("Get returned %#v, want mission alpha", got)
	}
}

func TestPutNilPlan(t *testing.T) {
	store := NewStore()
	if _, err := store.Put(nil); err == nil {
		t.Fatalf("expected Put(nil) to fail")
	}
}

func TestGetUnknownID(t *testing.T) {
	store := NewStore()
	if got := store.Get("nope"); got != nil {
		t.Fatalf("Get of unknown ID returned %#v, want nil", got)
	}
}

func TestListOrderedAndLen(t *testing.T) {
	store := NewStore()
	for _, name := range []string{"a", "b", "c"} {
		if _, err := store.Put(smallPlan(t, name)); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	if store.Len() != 3 {
		t.Fatalf("Len = %d, want 3", store.Len())
	}

	recs := store.List()
	if len(recs) != 3 {
		t.Fatalf("List len = %d, want 3", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].CreatedAt.Before(recs[i-1].CreatedAt) {
			t.Fatalf("List not ordered oldest first")
		}
	}
}

func TestDeleteAndEvents(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	wg.Add(2)
	var events []Event
	var mu sync.Mutex
	store.Subscribe(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
		wg.Done()
	})

	rec, err := store.Put(smallPlan(t, "doomed"))
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if !store.Delete(rec.ID) {
		t.Fatalf("Delete reported missing record")
	}
	if store.Delete(rec.ID) {
		t.Fatalf("second Delete should report false")
	}

	wg.Wait()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventMissionStored || events[1].Type != EventMissionDeleted {
		t.Fatalf("event sequence wrong: %#v", events)
	}
	if events[1].Name != "doomed" {
		t.Fatalf("delete event name = %q, want doomed", events[1].Name)
	}
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	store := NewStore()

	count := 0
	unsub := store.Subscribe(func(Event) { count++ })

	if _, err := store.Put(smallPlan(t, "one")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	unsub()
	if _, err := store.Put(smallPlan(t, "two")); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	if count != 1 {
		t.Fatalf("subscriber fired %d times, want 1", count)
	}
}

func TestUnsubscribeRemovesOnlyTarget(t *testing.T) {
	store := NewStore()

	var first, second, third int
	unsubFirst := store.Subscribe(func(Event) { first++ })
	unsubSecond := store.Subscribe(func(Event) { second++ })
	store.Subscribe(func(Event) { third++ })

	unsubFirst()
	unsubSecond()
	unsubSecond()

	if _, err := store.Put(smallPlan(t, "survivor")); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	if first != 0 || second != 0 {
		t.Fatalf("removed subscribers fired: first=%d second=%d", first, second)
	}
	if third != 1 {
		t.Fatalf("remaining subscriber fired %d times, want 1", third)
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()
	plan := smallPlan(t, "shared")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Put(plan)
		}()
		go func() {
			defer wg.Done()
			_ = store.List()
			_ = store.Len()
		}()
	}
	wg.Wait()

	if store.Len() != 10 {
		t.Fatalf("Len = %d after 10 concurrent Puts", store.Len())
	}
}
