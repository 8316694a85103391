package utils

import (
	"path/filepath"
	"sync"
)

// 按归一化路径加锁，用于串行化写同一输出目录的并发任务
type PathLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPathLock() *PathLock {
	return &PathLock{
		locks: map[string]*sync.Mutex{},
	}
}

// 锁定path对应的互斥量，返回解锁函数
func (p *PathLock) Lock(path string) (unlock func()) {
	key := filepath.Clean(path)
	p.mu.Lock()
	lock, ok := p.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[key] = lock
	}
	p.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}
