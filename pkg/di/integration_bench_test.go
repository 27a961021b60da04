package di

import (
	"context"
	"fmt"
	"testing"
)

// BenchmarkHook_CachedUse measures a read served from a warm cache.
func BenchmarkHook_CachedUse(b *testing.B) {
	container, _ := newIntegrationContainer(b, 5)
	ctx := context.Background()

	if res := container.Client().Schools().Use(ctx); res.Err != nil {
		b.Fatalf("warm up failed: %v", res.Err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if res := container.Client().Schools().Use(ctx); res.Err != nil {
				b.Fatal(res.Err)
			}
		}
	})
}

// BenchmarkHook_ChildScopes measures reads spread over many parent ids, most of
// which settle from the cache after their first fetch.
func BenchmarkHook_ChildScopes(b *testing.B) {
	container, _ := newIntegrationContainer(b, 5)
	ctx := context.Background()

	ids := make([]string, 16)
	for i := range ids {
		ids[i] = fmt.Sprintf("recS%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := container.Client().EducatorsForSchool(ids[i%len(ids)]).Use(ctx); res.Err != nil {
			b.Fatal(res.Err)
		}
	}
}
