package pool

import "time"

// evictLoop periodically retires long-idle resources until the pool is
// cleared.
func (p *Pool[T]) evictLoop() {
	defer close(p.evictDone)

	ticker := time.NewTicker(p.cfg.EvictionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopEvict:
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

// sweep inspects up to NumTestsPerRun of the longest-idle resources and
// retires those idle for at least IdleTimeout, never dropping the live
// population below MinSize. The sweep holds the lock only to mutate
// state; factory destroys run in the background as usual.
func (p *Pool[T]) sweep() {
	if p.cfg.IdleTimeout <= 0 {
		return
	}

	now := time.Now()
	evicted := 0

	p.mu.Lock()
	if p.mode != modeRunning {
		p.mu.Unlock()
		return
	}

	for _, rec := range p.oldestIdleLocked(p.cfg.NumTestsPerRun) {
		if now.Sub(rec.lastUsedAt) < p.cfg.IdleTimeout {
			continue
		}
		if len(p.records) <= p.cfg.MinSize {
			break
		}
		p.removeIdleLocked(rec)
		p.retireLocked(rec)
		evicted++
	}
	p.mu.Unlock()

	if evicted > 0 {
		PoolEvictedTotal.Add(uint64(evicted))
		log.WithField("evicted", evicted).Debug("eviction sweep retired idle resources")
	}
}

// oldestIdleLocked returns up to n idle records, longest idle first. The
// oldest sit at the head under the FIFO return policy and at the tail
// under LIFO.
func (p *Pool[T]) oldestIdleLocked(n int) []*record[T] {
	if n > len(p.idle) {
		n = len(p.idle)
	}
	out := make([]*record[T], 0, n)
	if p.cfg.FIFO {
		out = append(out, p.idle[:n]...)
	} else {
		for i := len(p.idle) - 1; i >= len(p.idle)-n; i-- {
			out = append(out, p.idle[i])
		}
	}
	return out
}
