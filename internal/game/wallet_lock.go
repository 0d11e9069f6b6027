package game

import (
	"hash/fnv"
	"sync"
)

// walletLocks 是按钱包分片的互斥锁，把同一钱包的并发提交
// （双击、客户端重试）在单个进程内串行化。
// 跨副本的并发不在这里解决：唯一约束、条件更新和按日志回数的
// 配额判定共同保证跨副本竞态只会收敛，不会翻倍记账。
const walletLockShards = 64

var walletLocks [walletLockShards]sync.Mutex

func lockWallet(walletAddress string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(walletAddress))
	mu := &walletLocks[h.Sum32()%walletLockShards]
	mu.Lock()
	return mu
}
