package netpool

import (
	"context"
	"net"
	"sync"
)

// PoolGroup keeps one [Pool] per key, usually the remote address.
type PoolGroup struct {
	sync.RWMutex
	pools map[string]*Pool

	maxConnsPerHost, maxIdlePerHost uint
}

func NewGroup(maxConnsPerHost, maxIdlePerHost uint) *PoolGroup {
	return &PoolGroup{
		pools:           map[string]*Pool{},
		maxConnsPerHost: maxConnsPerHost, maxIdlePerHost: maxIdlePerHost,
	}
}

func (g *PoolGroup) Connect(ctx context.Context, key string, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	return g.pool(key).Connect(ctx, dial)
}

func (g *PoolGroup) pool(key string) *Pool {
	g.RLock()
	p, ok := g.pools[key]
	g.RUnlock()
	if ok {
		return p
	}
	g.Lock()
	defer g.Unlock()
	if p, ok = g.pools[key]; !ok {
		p = NewPool(g.maxIdlePerHost, g.maxConnsPerHost)
		g.pools[key] = p
	}
	return p
}

func (g *PoolGroup) CloseIdle() {
	g.RLock()
	defer g.RUnlock()
	for _, p := range g.pools {
		p.CloseIdle()
	}
}
