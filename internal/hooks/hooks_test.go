package hooks

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestApplyFiltersFoldsInRegistrationOrder(t *testing.T) {
	b := New()
	AddFilter(b, "names", func(_ context.Context, v []string) []string { return append(v, "e1") })
	AddFilter(b, "names", func(_ context.Context, v []string) []string { return append(v, "e2") })

	got := ApplyFilters(context.Background(), b, "names", []string{"base"})

	if diff := cmp.Diff([]string{"base", "e1", "e2"}, got); diff != "" {
		t.Fatalf("filter result mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFiltersWithoutSubscribersPassesThrough(t *testing.T) {
	b := New()
	require.Equal(t, 7, ApplyFilters(context.Background(), b, "missing", 7))
	require.False(t, b.HasFilter("missing"))

	var nilBus *Bus
	require.Equal(t, "x", ApplyFilters(context.Background(), nilBus, "missing", "x"))
}

func TestApplyFiltersSkipsMismatchedTypes(t *testing.T) {
	b := New()
	AddFilter(b, "n", func(_ context.Context, v string) string { return v + "!" })
	AddFilter(b, "n", func(_ context.Context, v int) int { return v + 1 })

	require.Equal(t, 2, ApplyFilters(context.Background(), b, "n", 1))
	require.Equal(t, "a!", ApplyFilters(context.Background(), b, "n", "a"))
}

func TestRemoveFilter(t *testing.T) {
	b := New()
	remove := AddFilter(b, "n", func(_ context.Context, v int) int { return v * 10 })
	AddFilter(b, "n", func(_ context.Context, v int) int { return v + 1 })

	require.Equal(t, 11, ApplyFilters(context.Background(), b, "n", 1))
	remove()
	require.Equal(t, 2, ApplyFilters(context.Background(), b, "n", 1))
	remove()
	require.True(t, b.HasFilter("n"))
}

func TestDoActionFiresAllSubscribers(t *testing.T) {
	b := New()
	var seen []string
	AddAction(b, "wired", func(_ context.Context, key string) { seen = append(seen, "a:"+key) })
	AddAction(b, "wired", func(_ context.Context, key string) { seen = append(seen, "b:"+key) })
	AddAction(b, "other", func(_ context.Context, key string) { seen = append(seen, "other") })

	DoAction(context.Background(), b, "wired", "post")

	require.Equal(t, []string{"a:post", "b:post"}, seen)
	require.True(t, b.HasAction("wired"))
}

func TestReset(t *testing.T) {
	b := New()
	AddFilter(b, "f", func(_ context.Context, v int) int { return v })
	AddAction(b, "a", func(context.Context, int) {})
	b.Reset()
	require.False(t, b.HasFilter("f"))
	require.False(t, b.HasAction("a"))
}
