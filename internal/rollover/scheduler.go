package rollover

import (
	"time"

	"github.com/SlpAus/daily-play-backend/pkg/lifecycle"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StartScheduler 按配置的cron表达式周期性触发轮转清扫。
// 周粒度的任务跑小时级的检查绰绰有余；清扫本身幂等，
// 各副本独立跑定时器也不会互相破坏。
func StartScheduler(cronSpec string, handle *lifecycle.Handle) error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(cronSpec, func() {
		if _, err := RunSweep(time.Now()); err != nil {
			logger.Errorf("定时轮转清扫失败: %v", err)
		}
	})
	if err != nil {
		handle.Close()
		return err
	}

	c.Start()
	logger.Info("周轮转调度器已启动")

	go func() {
		defer handle.Close()
		<-handle.Done()
		// 等待正在执行的清扫跑完再退出
		stopCtx := c.Stop()
		<-stopCtx.Done()
		logger.Info("周轮转调度器已停止")
	}()
	return nil
}
