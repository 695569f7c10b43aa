package metrics

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Collector 指标收集器
// 周期性刷新两个库的连接池指标和表单状态分布
type Collector struct {
	primary   *gorm.DB
	secondary *gorm.DB
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewCollector 创建指标收集器
func NewCollector(primary, secondary *gorm.DB, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		primary:   primary,
		secondary: secondary,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	go c.collect()
}

// Stop 停止指标收集器
func (c *Collector) Stop() {
	c.cancel()
	<-c.done
}

// collect 定期收集指标
func (c *Collector) collect() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			_ = UpdateDatabaseConnections("primary", c.primary)
			if c.secondary != nil {
				_ = UpdateDatabaseConnections("secondary", c.secondary)
			}
			c.refreshFormsByStatus()
		}
	}
}

// refreshFormsByStatus 刷新表单状态分布
func (c *Collector) refreshFormsByStatus() {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := c.primary.Table("forms").
		Select("status, COUNT(*) AS count").
		Group("status").Scan(&rows).Error
	if err != nil {
		return
	}
	for _, r := range rows {
		UpdateFormsByStatus(r.Status, float64(r.Count))
	}
}
