package database

import (
	"context"
)

// LeaderboardCachePrefix 是排行榜页缓存的键名命名空间。
// 提交写路径和排行榜读路径都需要它，所以放在公共层。
const LeaderboardCachePrefix = "leaderboard:"

// DeleteKeysByPrefix 用SCAN分批删除指定前缀下的所有键。
// 排行榜等粗粒度缓存靠它整体失效，正确性优先于精确性。
func DeleteKeysByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	matchPattern := prefix + "*"
	const batchSize = 500

	for {
		keys, nextCursor, err := RDB.Scan(ctx, cursor, matchPattern, batchSize).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := RDB.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}
