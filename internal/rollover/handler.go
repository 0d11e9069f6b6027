package rollover

import (
	"net/http"
	"time"

	"github.com/SlpAus/daily-play-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// TriggerSweep 供管理端显式触发一次轮转清扫。
// 没有跨过周界时是no-op，返回处理数0。
func TriggerSweep(c *gin.Context) {
	processed, err := RunSweep(time.Now())
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"processedPlayers": processed})
}
