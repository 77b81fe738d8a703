package metrics

import (
	"context"
	"runtime"
	"time"
)

// CollectSystem samples runtime memory, goroutine and GC figures once.
func CollectSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	UpdateSystemMemoryUsage(ms.HeapAlloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
	if ms.NumGC > 0 {
		last := ms.PauseNs[(ms.NumGC+255)%256]
		RecordSystemGCPauseTime(float64(last) / float64(time.Millisecond))
	}
}

// RunSystemCollector samples system metrics every refresh interval until ctx is done.
func RunSystemCollector(ctx context.Context) {
	if !globalManager.systemSampling {
		return
	}
	t := time.NewTicker(globalManager.sampleInterval)
	defer t.Stop()
	CollectSystem()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			CollectSystem()
		}
	}
}
